// Package auth parses the storefront's bearer tokens into a customer
// identity. Tokens are issued elsewhere; this side only verifies.
package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/config"
	pkgerrors "github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/errors"
	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/types"
)

type Claims struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// ParseToken verifies the signature, expiry and issuer, and returns the
// customer identity carried in the claims.
func ParseToken(cfg config.JWTConfig, token string) (*types.Identity, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return []byte(cfg.Secret), nil
	}, jwt.WithIssuer(cfg.Issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeAuthExpired, err, "invalid or expired token")
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, pkgerrors.New(pkgerrors.CodeAuthExpired, "token missing subject")
	}
	return &types.Identity{
		CustomerID: claims.Subject,
		Name:       claims.Name,
		Email:      claims.Email,
	}, nil
}
