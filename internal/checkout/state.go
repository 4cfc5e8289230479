package checkout

import (
	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/internal/payment"
	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/internal/pricing"
	pkgerrors "github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/errors"
	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/types"
)

// Wizard steps. Values outside the range are clamped on draft hydration.
const (
	StepReview   = 1
	StepAddress  = 2
	StepShipping = 3
	StepPayment  = 4
)

// Status is the session lifecycle state. Terminal states only change through
// an explicit retry.
type Status string

const (
	StatusActive    Status = "active"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Failure captures why a submission ended in the failed terminal state.
type Failure struct {
	Code       pkgerrors.Code `json:"code"`
	Message    string         `json:"message"`
	Suggestion string         `json:"suggestion,omitempty"`
}

// Snapshot is the read-only view of a session handed to the API layer.
type Snapshot struct {
	SessionID            string                     `json:"session_id"`
	Step                 int                        `json:"step"`
	Status               Status                     `json:"status"`
	Processing           bool                       `json:"processing"`
	Authenticated        bool                       `json:"authenticated"`
	Lines                []types.CartLine           `json:"lines"`
	Addresses            []types.SavedAddress       `json:"addresses,omitempty"`
	SelectedAddressIndex *int                       `json:"selected_address_index,omitempty"`
	GuestAddress         *types.Address             `json:"guest_address,omitempty"`
	Province             string                     `json:"province,omitempty"`
	Canton               string                     `json:"canton,omitempty"`
	Parish               string                     `json:"parish,omitempty"`
	Locations            []types.Province           `json:"locations,omitempty"`
	AvailableShipping    []types.ShippingOption     `json:"available_shipping"`
	SelectedShippingID   string                     `json:"selected_shipping_id,omitempty"`
	Discount             *types.DiscountApplication `json:"discount,omitempty"`
	PaymentMethod        types.PaymentMethod        `json:"payment_method,omitempty"`
	PaymentValidity      payment.Result             `json:"payment_validity"`
	WalletBalance        float64                    `json:"wallet_balance"`
	Pricing              pricing.Breakdown          `json:"pricing"`
	Result               *types.TransactionResult   `json:"result,omitempty"`
	Failure              *Failure                   `json:"failure,omitempty"`
}
