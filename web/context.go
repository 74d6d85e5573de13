package web

import (
	"context"

	"github.com/codybmenefee/custodian-integration-tool/adapters/auth"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// withClaims adds JWT claims to the context.
func withClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// getClaims retrieves JWT claims from context. Returns nil when the
// request did not pass through the auth middleware.
func getClaims(ctx context.Context) *auth.Claims {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	if !ok {
		return nil
	}
	return claims
}
