package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/api/responses"
	pkgAuth "github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/auth"
	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/config"
	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/logger"
)

// OptionalAuth resolves a bearer token into a customer identity when one is
// presented. Requests without credentials pass through as guest sessions; a
// token that is present but invalid is rejected.
func OptionalAuth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := pkgAuth.ParseToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := context.WithValue(r.Context(), ctxIdentity, identity)
			ctx = context.WithValue(ctx, ctxToken, token)

			if logg != nil {
				ctx = logg.WithCustomerID(ctx, identity.CustomerID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
