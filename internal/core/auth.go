package core

import (
	"context"
	"time"
)

// Identity is the authenticated caller resolved from an access token.
type Identity struct {
	UserID string
	Email  string
	Role   string
	Admin  bool
}

// Authenticator resolves a bearer token to an identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*Identity, error)
}

// RateLimiter admits or rejects a request identified by key.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, time.Duration, error)
}
