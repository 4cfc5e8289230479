package types

import "strings"

// CartLine is a read-only view of one cart entry. The cart itself is owned by
// the storefront; the engine never creates or deletes lines.
type CartLine struct {
	LineID    string  `json:"line_id"`
	ProductID string  `json:"product_id"`
	VariantID string  `json:"variant_id"`
	Name      string  `json:"name,omitempty"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// SplitLineID derives product and variant ids from the storefront's composite
// line identifier ("<productId>:<variantId>"). A bare id has no variant.
func SplitLineID(lineID string) (productID, variantID string) {
	if idx := strings.IndexByte(lineID, ':'); idx >= 0 {
		return lineID[:idx], lineID[idx+1:]
	}
	return lineID, ""
}

// Address is the destination entered or selected during checkout.
type Address struct {
	Province    string `json:"province"`
	Canton      string `json:"canton"`
	Parish      string `json:"parish"`
	MainStreet  string `json:"main_street"`
	HouseNumber string `json:"house_number"`
	PostalCode  string `json:"postal_code"`
	Phone       string `json:"phone"`
}

// Complete reports whether every required destination field is present.
func (a Address) Complete() bool {
	required := []string{a.Province, a.Canton, a.Parish, a.MainStreet, a.HouseNumber, a.Phone}
	for _, field := range required {
		if strings.TrimSpace(field) == "" {
			return false
		}
	}
	return true
}

// ShippingOption is immutable once fetched; a selection references it by id.
type ShippingOption struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Cost          float64  `json:"cost"`
	EstimatedTime string   `json:"estimated_time,omitempty"`
	AllowList     []string `json:"province_allow_list,omitempty"`
	DenyList      []string `json:"province_deny_list,omitempty"`
	Priority      *int     `json:"priority,omitempty"`
	Featured      bool     `json:"featured,omitempty"`
	Visible       *bool    `json:"visible,omitempty"`
}

// DiscountApplication records a promo code validated against a specific
// subtotal. It is not re-derived locally; the validating service owns the
// amount.
type DiscountApplication struct {
	Code     string  `json:"code"`
	Amount   float64 `json:"amount"`
	Subtotal float64 `json:"subtotal"`
}

// TaxSettings is external, read-only configuration. Rate is a [0,1] fraction.
type TaxSettings struct {
	Enabled          bool    `json:"enabled"`
	PriceIncludesTax bool    `json:"price_includes_tax"`
	Rate             float64 `json:"rate"`
}

type PaymentMethod string

const (
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodTransfer PaymentMethod = "bank-transfer"
	PaymentMethodWallet   PaymentMethod = "wallet-credits"
)

// CardDetails holds raw card input; number may contain spaces.
type CardDetails struct {
	Number string `json:"number"`
	Expiry string `json:"expiry"`
	CVC    string `json:"cvc"`
}

// VoucherFile is metadata about an attached bank-transfer receipt. The file
// body lives with the storefront; only presence matters here.
type VoucherFile struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// PaymentSelection is the current payment choice plus method-specific input.
type PaymentSelection struct {
	Method  PaymentMethod `json:"method"`
	Card    *CardDetails  `json:"card,omitempty"`
	Voucher *VoucherFile  `json:"voucher,omitempty"`
}

// TransactionResult is the terminal success payload of a submission.
type TransactionResult struct {
	TransactionID   string  `json:"transaction_id"`
	OrderID         string  `json:"order_id"`
	InvoiceID       string  `json:"invoice_id,omitempty"`
	Total           float64 `json:"total"`
	DiscountApplied bool    `json:"discount_applied"`
	DiscountMessage string  `json:"discount_message,omitempty"`
}

// Identity is the authenticated customer resolved from the bearer token. A
// nil Identity means a guest session.
type Identity struct {
	CustomerID string `json:"customer_id"`
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
}

// SavedAddress is an entry from the authenticated profile's address book.
type SavedAddress struct {
	Address
	Primary bool `json:"primary"`
}

// Profile is the authenticated account snapshot used during checkout.
type Profile struct {
	Addresses     []SavedAddress `json:"addresses"`
	WalletBalance float64        `json:"wallet_balance"`
}

// Province and its nested divisions as served by the locations endpoint.
type Province struct {
	Name    string   `json:"name"`
	Cantons []Canton `json:"cantons"`
}

type Canton struct {
	Name     string   `json:"name"`
	Parishes []string `json:"parishes"`
}
