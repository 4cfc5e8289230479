// Package money centralizes monetary rounding so displayed totals always
// reconcile with the value submitted on checkout.
package money

import "github.com/shopspring/decimal"

// epsilon counters binary floating-point error before rounding, so values
// like 2.675 stored as 2.67499... still round up.
const epsilon = 1e-9

// Round2 rounds to 2 decimal places, half up.
func Round2(value float64) float64 {
	adjusted := decimal.NewFromFloat(value)
	if value >= 0 {
		adjusted = adjusted.Add(decimal.NewFromFloat(epsilon))
	} else {
		adjusted = adjusted.Sub(decimal.NewFromFloat(epsilon))
	}
	result, _ := adjusted.Round(2).Float64()
	return result
}
