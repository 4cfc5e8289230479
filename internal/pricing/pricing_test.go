package pricing

import (
	"testing"

	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/types"
	"github.com/stretchr/testify/assert"
)

func lines(entries ...types.CartLine) []types.CartLine { return entries }

func TestComputeDiscountAndShippingNoTax(t *testing.T) {
	// subtotal 100.00, discount 10.00, tax disabled, shipping 5.00 -> 95.00
	breakdown := Compute(
		lines(
			types.CartLine{Price: 25, Quantity: 2},
			types.CartLine{Price: 50, Quantity: 1},
		),
		&types.DiscountApplication{Code: "SAVE10", Amount: 10, Subtotal: 100},
		&types.ShippingOption{ID: "std", Cost: 5},
		types.TaxSettings{},
	)

	assert.Equal(t, 100.0, breakdown.OriginalSubtotal)
	assert.Equal(t, 10.0, breakdown.DiscountAmount)
	assert.Equal(t, 0.0, breakdown.Tax)
	assert.Equal(t, 5.0, breakdown.ShippingCost)
	assert.Equal(t, 95.0, breakdown.Total)
}

func TestComputeTaxInclusiveBackout(t *testing.T) {
	// subtotal 121.00 tax-inclusive at 21% -> 100.00 net, 21.00 tax, total 121.00
	breakdown := Compute(
		lines(types.CartLine{Price: 121, Quantity: 1}),
		nil,
		nil,
		types.TaxSettings{Enabled: true, PriceIncludesTax: true, Rate: 0.21},
	)

	assert.InDelta(t, 100.0, breakdown.TaxExclusiveSubtotal, 0.01)
	assert.InDelta(t, 21.0, breakdown.Tax, 0.01)
	assert.Equal(t, 121.0, breakdown.Total)
}

func TestComputeTaxExclusiveAddsTax(t *testing.T) {
	breakdown := Compute(
		lines(types.CartLine{Price: 100, Quantity: 1}),
		nil,
		&types.ShippingOption{ID: "std", Cost: 5},
		types.TaxSettings{Enabled: true, Rate: 0.12},
	)

	assert.Equal(t, 100.0, breakdown.TaxExclusiveSubtotal)
	assert.Equal(t, 12.0, breakdown.Tax)
	// tax-exclusive pricing: tax joins the total
	assert.Equal(t, 117.0, breakdown.Total)
}

func TestComputeTaxInclusiveShippingExcludesTaxFromTotal(t *testing.T) {
	breakdown := Compute(
		lines(types.CartLine{Price: 121, Quantity: 1}),
		nil,
		&types.ShippingOption{ID: "std", Cost: 4.5},
		types.TaxSettings{Enabled: true, PriceIncludesTax: true, Rate: 0.21},
	)

	// tax already inside the subtotal, only shipping is added on top
	assert.Equal(t, 125.5, breakdown.Total)
}

func TestComputeClampsDiscountToSubtotal(t *testing.T) {
	breakdown := Compute(
		lines(types.CartLine{Price: 20, Quantity: 1}),
		&types.DiscountApplication{Code: "BIG", Amount: 50, Subtotal: 20},
		nil,
		types.TaxSettings{},
	)

	assert.Equal(t, 20.0, breakdown.DiscountAmount)
	assert.Equal(t, 0.0, breakdown.Total)
}

func TestComputeTotalIsNonNegativeAndReconciles(t *testing.T) {
	cases := []struct {
		name     string
		lines    []types.CartLine
		discount *types.DiscountApplication
		shipping *types.ShippingOption
		tax      types.TaxSettings
	}{
		{"empty cart", nil, nil, nil, types.TaxSettings{}},
		{"discount equals subtotal", lines(types.CartLine{Price: 10, Quantity: 1}),
			&types.DiscountApplication{Amount: 10}, nil, types.TaxSettings{}},
		{"fractional prices", lines(types.CartLine{Price: 0.1, Quantity: 3}),
			nil, &types.ShippingOption{Cost: 0.2}, types.TaxSettings{Enabled: true, Rate: 0.15}},
		{"inclusive tax", lines(types.CartLine{Price: 56.33, Quantity: 2}),
			&types.DiscountApplication{Amount: 3.5}, &types.ShippingOption{Cost: 2.99},
			types.TaxSettings{Enabled: true, PriceIncludesTax: true, Rate: 0.12}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := Compute(tc.lines, tc.discount, tc.shipping, tc.tax)
			assert.GreaterOrEqual(t, b.Total, 0.0)

			subtotalAfterDiscount := b.OriginalSubtotal - b.DiscountAmount
			expected := subtotalAfterDiscount + b.ShippingCost
			if tc.tax.Enabled && tc.tax.Rate > 0 && !tc.tax.PriceIncludesTax {
				expected += b.Tax
			}
			assert.InDelta(t, expected, b.Total, 0.005)
		})
	}
}

func TestComputeQuantityFloor(t *testing.T) {
	breakdown := Compute(lines(types.CartLine{Price: 9.99, Quantity: 0}), nil, nil, types.TaxSettings{})
	assert.Equal(t, 9.99, breakdown.OriginalSubtotal)
}
