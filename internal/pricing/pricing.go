// Package pricing computes the order totals shown at every checkout step.
// Compute is pure: the breakdown has no state of its own and is recomputed on
// every dependency change.
package pricing

import (
	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/money"
	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/types"
)

// Breakdown is the read-only pricing output.
type Breakdown struct {
	OriginalSubtotal     float64 `json:"original_subtotal"`
	DiscountAmount       float64 `json:"discount_amount"`
	TaxExclusiveSubtotal float64 `json:"tax_exclusive_subtotal"`
	Tax                  float64 `json:"tax"`
	ShippingCost         float64 `json:"shipping_cost"`
	Total                float64 `json:"total"`
}

// Compute derives the full monetary breakdown from the cart, the applied
// discount, the selected shipping option and the tax settings.
//
// The discount amount is trusted as validated upstream but clamped to the
// original subtotal so a stale application can never drive the total negative.
func Compute(lines []types.CartLine, discount *types.DiscountApplication, shipping *types.ShippingOption, tax types.TaxSettings) Breakdown {
	var originalSubtotal float64
	for _, line := range lines {
		qty := line.Quantity
		if qty < 1 {
			qty = 1
		}
		originalSubtotal += line.Price * float64(qty)
	}
	originalSubtotal = money.Round2(originalSubtotal)

	var discountAmount float64
	if discount != nil && discount.Amount > 0 {
		discountAmount = discount.Amount
		if discountAmount > originalSubtotal {
			discountAmount = originalSubtotal
		}
	}
	discountAmount = money.Round2(discountAmount)

	subtotalAfterDiscount := originalSubtotal - discountAmount
	if subtotalAfterDiscount < 0 {
		subtotalAfterDiscount = 0
	}
	subtotalAfterDiscount = money.Round2(subtotalAfterDiscount)

	var taxExclusiveSubtotal, taxAmount float64
	switch {
	case tax.Enabled && tax.Rate > 0 && tax.PriceIncludesTax:
		// Prices already contain tax: back the tax out.
		taxExclusiveSubtotal = money.Round2(subtotalAfterDiscount / (1 + tax.Rate))
		taxAmount = money.Round2(subtotalAfterDiscount - taxExclusiveSubtotal)
	case tax.Enabled && tax.Rate > 0:
		taxExclusiveSubtotal = money.Round2(subtotalAfterDiscount)
		taxAmount = money.Round2(taxExclusiveSubtotal * tax.Rate)
	default:
		taxExclusiveSubtotal = subtotalAfterDiscount
		taxAmount = 0
	}

	var shippingCost float64
	if shipping != nil && shipping.Cost > 0 {
		shippingCost = money.Round2(shipping.Cost)
	}

	total := subtotalAfterDiscount + shippingCost
	if tax.Enabled && tax.Rate > 0 && !tax.PriceIncludesTax {
		total += taxAmount
	}

	return Breakdown{
		OriginalSubtotal:     originalSubtotal,
		DiscountAmount:       discountAmount,
		TaxExclusiveSubtotal: taxExclusiveSubtotal,
		Tax:                  taxAmount,
		ShippingCost:         shippingCost,
		Total:                money.Round2(total),
	}
}
