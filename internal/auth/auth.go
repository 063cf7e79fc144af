// Package auth provides the shared-secret access gate for mutating routes.
package auth

import (
	"context"
	"errors"
	"net/http"
)

// AuthInfo holds the identity of an authenticated caller.
type AuthInfo struct {
	Subject string
}

// Authenticator validates a request and returns auth info.
type Authenticator interface {
	Authenticate(r *http.Request) (*AuthInfo, error)
}

// Sentinel errors for authentication failures. ErrUnauthenticated means
// no credential was supplied; ErrInvalidAPIKey means a credential was
// supplied but did not match.
var (
	ErrUnauthenticated = errors.New("unauthenticated: no API key provided")
	ErrInvalidAPIKey   = errors.New("invalid API key")
)

// contextKey is the type for context keys in this package.
type contextKey string

// authInfoKey is the context key for AuthInfo.
const authInfoKey contextKey = "auth_info"

// FromContext retrieves AuthInfo from the context.
func FromContext(ctx context.Context) (*AuthInfo, bool) {
	info, ok := ctx.Value(authInfoKey).(*AuthInfo)
	return info, ok
}

// WithAuthInfo stores AuthInfo in the context.
func WithAuthInfo(ctx context.Context, info *AuthInfo) context.Context {
	return context.WithValue(ctx, authInfoKey, info)
}
