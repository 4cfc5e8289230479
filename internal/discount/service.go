// Package discount validates promo codes against the cart through the
// commerce platform. The computed amount is trusted as-is; the pricing engine
// clamps it defensively.
package discount

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	pkgerrors "github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/errors"
	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/types"
)

type codeValidator interface {
	ValidateDiscount(ctx context.Context, token, code string, lines []types.CartLine) (*types.DiscountApplication, error)
}

// Service serializes discount validation: only one apply call may be in
// flight at a time.
type Service struct {
	client      codeValidator
	lockOnApply bool
	inFlight    atomic.Bool
}

// NewService builds the discount validator. lockOnApply controls whether an
// applied discount survives cart edits without re-validation.
func NewService(client codeValidator, lockOnApply bool) (*Service, error) {
	if client == nil {
		return nil, fmt.Errorf("discount client required")
	}
	return &Service{client: client, lockOnApply: lockOnApply}, nil
}

// LockOnApply reports the configured invalidation policy.
func (s *Service) LockOnApply() bool {
	return s.lockOnApply
}

// Apply validates code against the cart. A second call while one is pending
// is rejected rather than queued.
func (s *Service) Apply(ctx context.Context, token, code string, lines []types.CartLine) (*types.DiscountApplication, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount code is required")
	}
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "discount validation already in progress")
	}
	defer s.inFlight.Store(false)

	return s.client.ValidateDiscount(ctx, token, trimmed, lines)
}
