// Package transaction assembles the order payload, submits it and maps the
// outcome onto the checkout error taxonomy.
package transaction

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/internal/upstream"
	pkgerrors "github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/errors"
	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/metrics"
	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/types"
)

type transactionClient interface {
	SubmitTransaction(ctx context.Context, token string, payload any) (*types.TransactionResult, error)
}

// Input is everything a submission needs, captured from the session at the
// moment of submit.
type Input struct {
	Token        string
	Identity     *types.Identity
	GuestName    string
	GuestEmail   string
	Address      types.Address
	Lines        []types.CartLine
	Shipping     *types.ShippingOption
	Payment      types.PaymentSelection
	DiscountCode string
	Total        float64
}

// Submitter sends assembled orders upstream. A caller-supplied auth-expiry
// handler overrides the default login redirect.
type Submitter struct {
	client        transactionClient
	metrics       *metrics.CheckoutMetrics
	onAuthExpired func()
}

func NewSubmitter(client transactionClient, m *metrics.CheckoutMetrics, onAuthExpired func()) (*Submitter, error) {
	if client == nil {
		return nil, fmt.Errorf("transaction client required")
	}
	return &Submitter{client: client, metrics: m, onAuthExpired: onAuthExpired}, nil
}

// Submit posts the order. The returned error is always taxonomy-typed; the
// auth-expiry handler fires exactly once when the platform reports 401.
func (s *Submitter) Submit(ctx context.Context, input Input) (*types.TransactionResult, error) {
	if input.Shipping == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping method not selected")
	}
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	payload := buildPayload(input)

	start := time.Now()
	result, err := s.client.SubmitTransaction(ctx, input.Token, payload)
	s.metrics.ObserveSubmissionDuration(time.Since(start))

	if err != nil {
		mapped := MapError(err)
		if mapped.Code() == pkgerrors.CodeAuthExpired && s.onAuthExpired != nil {
			s.onAuthExpired()
		}
		s.metrics.IncSubmission(resultLabel(mapped))
		return nil, mapped
	}

	s.metrics.IncSubmission("success")
	return result, nil
}

func resultLabel(err *pkgerrors.Error) string {
	switch err.Code() {
	case pkgerrors.CodePaymentDeclined:
		return "declined"
	case pkgerrors.CodeAuthExpired:
		return "auth_expired"
	case pkgerrors.CodeTransportAbort:
		return "aborted"
	default:
		return "failed"
	}
}

type declineInfo struct {
	message    string
	suggestion string
}

// Domain decline codes reported by the payment processor, each with a
// human-readable message and a remediation hint.
var declineByCode = map[string]declineInfo{
	"insufficient_funds": {
		message:    "the card has insufficient funds",
		suggestion: "try another card or reduce the order total",
	},
	"lost_card": {
		message:    "the card was reported lost",
		suggestion: "use a different card",
	},
	"stolen_card": {
		message:    "the card was reported stolen",
		suggestion: "use a different card",
	},
	"expired_card": {
		message:    "the card is expired",
		suggestion: "update the card's expiry date or use another card",
	},
	"generic_decline": {
		message:    "the payment was declined",
		suggestion: "contact your bank or try another payment method",
	},
	"processing_error": {
		message:    "the payment could not be processed",
		suggestion: "wait a moment and try again",
	},
}

// MapError converts any submission failure into the checkout taxonomy.
// Already-typed errors (aborts, dependency failures) pass through untouched.
func MapError(err error) *pkgerrors.Error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}

	statusErr, ok := err.(*upstream.StatusError)
	if !ok {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "transaction submission failed")
	}

	if decline, found := declineByCode[statusErr.Code]; found {
		return pkgerrors.Wrap(pkgerrors.CodePaymentDeclined, statusErr, decline.message).
			WithSuggestion(decline.suggestion).
			WithDetails(map[string]any{"decline_code": statusErr.Code})
	}

	switch statusErr.Status {
	case http.StatusUnauthorized:
		return pkgerrors.Wrap(pkgerrors.CodeAuthExpired, statusErr, "session expired").
			WithSuggestion("sign in again to complete your order")
	case http.StatusForbidden:
		return pkgerrors.Wrap(pkgerrors.CodeOwnership, statusErr, statusErr.Message)
	case http.StatusNotFound:
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, statusErr, "order reference not found")
	case http.StatusBadRequest:
		return pkgerrors.Wrap(pkgerrors.CodeBadRequest, statusErr, statusErr.Message)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, statusErr, "transaction service unavailable").
		WithSuggestion("try again in a few minutes")
}
