// Package pricing computes cart totals: a percentage discount over a
// full-precision subtotal, clamped at zero and rounded to two decimals.
package pricing

import "math"

// Summary aggregates computed pricing components. Subtotal and Discount
// keep full float precision; Total is clamped and rounded via Round2.
type Summary struct {
	Subtotal float64
	Discount float64
	Total    float64
}

// Round2 rounds to two decimal places, half up on the value shifted by
// 100. The shift happens before rounding so that binary-float edge cases
// resolve the same way everywhere: 10.995 rounds to 11, 10.994 to 10.99.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// Compute calculates totals for a subtotal and a discount percent.
// A percent of 100 yields a Total of exactly 0; the result is never
// negative.
func Compute(subtotal, percent float64) Summary {
	discount := subtotal * (percent / 100)
	final := subtotal - discount
	if final < 0 {
		final = 0
	}
	return Summary{
		Subtotal: subtotal,
		Discount: discount,
		Total:    Round2(final),
	}
}
