package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation represents user input validation failures.
	ErrValidation = errors.New("validation error")
	// ErrInvalidReference indicates a referenced record (parent id, category) does not resolve.
	ErrInvalidReference = errors.New("invalid reference")
	// ErrInvalidCategory indicates a category name could not be resolved to a category.
	ErrInvalidCategory = fmt.Errorf("%w: invalid category", ErrInvalidReference)
	// ErrConflict indicates a write collided with a uniqueness constraint.
	ErrConflict = errors.New("conflict")
	// ErrUnauthorized indicates the caller did not present valid credentials.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden indicates the caller is authenticated but lacks the admin role.
	ErrForbidden = errors.New("forbidden")
	// ErrRateLimited indicates the caller exceeded its request budget.
	ErrRateLimited = errors.New("too many requests")
)

// PersistenceError wraps a failure reported by the underlying datastore.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	if e.Op == "" {
		return "persistence error: " + e.Err.Error()
	}
	return fmt.Sprintf("persistence error: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Detail returns the store-specific message carried by the error.
func (e *PersistenceError) Detail() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// WrapPersistence tags err as a datastore failure unless it already carries a domain meaning.
func WrapPersistence(op string, err error) error {
	if err == nil {
		return nil
	}
	var pe *PersistenceError
	if errors.As(err, &pe) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrInvalidReference) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}
