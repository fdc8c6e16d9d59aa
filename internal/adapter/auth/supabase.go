// Package auth verifies Supabase access tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/samber/lo"

	"github.com/eslsoft/islamic-sources/internal/core"
)

const adminRole = "admin"

type appMetadata struct {
	Role  string   `json:"role,omitempty"`
	Roles []string `json:"roles,omitempty"`
}

type claims struct {
	Email       string      `json:"email,omitempty"`
	Role        string      `json:"role,omitempty"`
	AppMetadata appMetadata `json:"app_metadata"`
	jwt.RegisteredClaims
}

// Verifier validates HS256 tokens signed with the project's JWT secret.
type Verifier struct {
	secret      []byte
	adminEmails map[string]struct{}
	parser      *jwt.Parser
}

// NewVerifier constructs a verifier. Emails in adminEmails are treated as admins
// regardless of their app metadata.
func NewVerifier(secret string, adminEmails []string) *Verifier {
	emails := lo.SliceToMap(
		lo.Filter(lo.Map(adminEmails, func(e string, _ int) string {
			return strings.ToLower(strings.TrimSpace(e))
		}), func(e string, _ int) bool { return e != "" }),
		func(e string) (string, struct{}) { return e, struct{}{} },
	)
	return &Verifier{
		secret:      []byte(secret),
		adminEmails: emails,
		parser:      jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired()),
	}
}

var _ core.Authenticator = (*Verifier)(nil)

// Authenticate parses token and resolves the caller identity.
func (v *Verifier) Authenticate(_ context.Context, token string) (*core.Identity, error) {
	if len(v.secret) == 0 {
		return nil, fmt.Errorf("%w: token verification is not configured", core.ErrUnauthorized)
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("%w: missing access token", core.ErrUnauthorized)
	}

	var c claims
	_, err := v.parser.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: access token expired", core.ErrUnauthorized)
		}
		return nil, fmt.Errorf("%w: invalid access token", core.ErrUnauthorized)
	}
	if c.Subject == "" {
		return nil, fmt.Errorf("%w: access token has no subject", core.ErrUnauthorized)
	}

	identity := &core.Identity{
		UserID: c.Subject,
		Email:  c.Email,
		Role:   c.Role,
	}
	_, listed := v.adminEmails[strings.ToLower(c.Email)]
	identity.Admin = c.AppMetadata.Role == adminRole || lo.Contains(c.AppMetadata.Roles, adminRole) || (c.Email != "" && listed)
	if identity.Admin {
		identity.Role = adminRole
	}
	return identity, nil
}
