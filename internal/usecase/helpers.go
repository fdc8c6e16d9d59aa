package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/eslsoft/islamic-sources/internal/core"
)

func ptrTime(t time.Time) *time.Time {
	return &t
}

func requireID(name string, id uuid.UUID) error {
	if id == uuid.Nil {
		return fmt.Errorf("%w: %s id required", core.ErrValidation, name)
	}
	return nil
}

func requireText(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%w: %s is required", core.ErrValidation, field)
	}
	return value, nil
}

// patchText applies a patch to a required text field. Explicit null or blank
// values are rejected.
func patchText(field string, patch core.Optional[string], dst *string) error {
	if !patch.Set {
		return nil
	}
	if patch.Null {
		return fmt.Errorf("%w: %s cannot be null", core.ErrValidation, field)
	}
	value, err := requireText(field, patch.Value)
	if err != nil {
		return err
	}
	*dst = value
	return nil
}

// trimmedPtr returns nil for blank strings.
func trimmedPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func checkOrderIndex(order *int) error {
	if order != nil && *order < 0 {
		return fmt.Errorf("%w: order_index must be zero or positive", core.ErrValidation)
	}
	return nil
}

// checkParent reports core.ErrNotFound when a child addressed under want belongs
// to another parent. A zero want is not checked.
func checkParent(kind string, id, parent, want uuid.UUID) error {
	if want != uuid.Nil && parent != want {
		return fmt.Errorf("%w: %s %s", core.ErrNotFound, kind, id)
	}
	return nil
}
