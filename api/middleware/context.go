package middleware

import (
	"context"

	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/types"
)

type contextKey string

const (
	ctxIdentity contextKey = "identity"
	ctxToken    contextKey = "token"
)

// IdentityFromContext returns the authenticated customer, or nil for guests.
func IdentityFromContext(ctx context.Context) *types.Identity {
	identity, _ := ctx.Value(ctxIdentity).(*types.Identity)
	return identity
}

// TokenFromContext returns the raw bearer token forwarded upstream, empty for
// guests.
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(ctxToken).(string)
	return token
}
