// Package payment validates the current payment selection. Validation is a
// pure recomputation over the selection's inputs; rendering previews or
// holding file bodies is the storefront's concern.
package payment

import (
	"strconv"
	"strings"
	"time"

	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/types"
)

const minCardDigits = 15

// Result is the outcome of validating one payment selection. FieldErrors is
// keyed by input field ("number", "expiry", "cvc", "voucher", "balance").
type Result struct {
	Valid       bool              `json:"valid"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`
}

// Validator checks a payment selection against its method's invariants.
type Validator struct {
	now func() time.Time
}

func NewValidator() *Validator {
	return &Validator{now: time.Now}
}

// NewValidatorAt pins the clock, for expiry checks in tests.
func NewValidatorAt(now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	return &Validator{now: now}
}

// Validate recomputes validity for the selection. orderTotal and
// walletBalance only matter for wallet-credits.
func (v *Validator) Validate(selection types.PaymentSelection, orderTotal, walletBalance float64) Result {
	switch selection.Method {
	case types.PaymentMethodCard:
		return v.validateCard(selection.Card)
	case types.PaymentMethodTransfer:
		return validateTransfer(selection.Voucher)
	case types.PaymentMethodWallet:
		return validateWallet(orderTotal, walletBalance)
	}
	return Result{FieldErrors: map[string]string{"method": "unknown payment method"}}
}

func (v *Validator) validateCard(card *types.CardDetails) Result {
	errors := map[string]string{}
	if card == nil {
		return Result{FieldErrors: map[string]string{"card": "card details are required"}}
	}

	digits := digitsOnly(card.Number)
	if len(digits) < minCardDigits {
		errors["number"] = "card number is too short"
	}

	if msg := v.expiryError(card.Expiry); msg != "" {
		errors["expiry"] = msg
	}

	if cvc := strings.TrimSpace(card.CVC); len(cvc) < 3 || len(cvc) > 4 {
		errors["cvc"] = "security code must be 3 or 4 digits"
	}

	if len(errors) == 0 {
		return Result{Valid: true}
	}
	return Result{FieldErrors: errors}
}

// expiryError validates MM/YY and rejects months earlier than the current
// one. Years are compared in the 2-digit window, matching how the value is
// entered.
func (v *Validator) expiryError(expiry string) string {
	parts := strings.Split(strings.TrimSpace(expiry), "/")
	if len(parts) != 2 {
		return "expiry must be MM/YY"
	}
	month, err := strconv.Atoi(parts[0])
	if err != nil || month < 1 || month > 12 {
		return "expiry month is invalid"
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil || len(parts[1]) != 2 {
		return "expiry year is invalid"
	}

	now := v.now()
	currentYear := now.Year() % 100
	currentMonth := int(now.Month())
	if year < currentYear || (year == currentYear && month < currentMonth) {
		return "card is expired"
	}
	return ""
}

func validateTransfer(voucher *types.VoucherFile) Result {
	if voucher == nil || strings.TrimSpace(voucher.Name) == "" {
		return Result{FieldErrors: map[string]string{"voucher": "transfer receipt is required"}}
	}
	return Result{Valid: true}
}

func validateWallet(orderTotal, walletBalance float64) Result {
	if orderTotal > walletBalance {
		return Result{FieldErrors: map[string]string{"balance": "insufficient wallet credits"}}
	}
	return Result{Valid: true}
}

func digitsOnly(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
