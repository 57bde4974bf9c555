// Package auth carries the caller identity extracted from a verified bearer
// token. Token verification itself is pluggable: handlers only ever see
// Claims that a Verifier (or the API Gateway authorizer) has already vouched
// for.
package auth

import (
	"context"

	apperrors "bookreviews-backend/pkg/errors"
)

// Claims holds the verified identity facts about the caller.
type Claims struct {
	// Subject is the identity provider's stable user id (the "sub" claim).
	Subject string
	// Username is the display name claim; optional metadata only.
	Username string
}

// Verifier validates a raw bearer token and returns the claims it carries.
// Implementations live outside the handlers so the verification scheme can be
// swapped without touching request logic.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Claims, error)
}

type contextKey struct{}

var claimsKey contextKey

// WithClaims returns a context carrying the verified claims.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFrom extracts verified claims from the context, if present.
func ClaimsFrom(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	return claims, ok && claims != nil
}

// RequireClaims extracts claims or fails with an unauthorized error.
func RequireClaims(ctx context.Context) (*Claims, error) {
	claims, ok := ClaimsFrom(ctx)
	if !ok {
		return nil, apperrors.NewUnauthorizedError("missing caller identity")
	}
	return claims, nil
}
