package billing

import "math"

// Totals is the computed money summary for a set of line items.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	TaxTotal float64 `json:"tax_total"`
	Total    float64 `json:"total"`
}

// CoerceNumeric maps NaN and infinities to zero. Unparsable numeric input is
// treated as a zero contribution rather than an error; callers that want
// stricter behaviour validate before computing.
func CoerceNumeric(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// ComputeTotals sums line amounts into subtotal, tax total and grand total.
// Per-line amounts are summed unrounded; rounding to two decimals happens only
// when producing the tax total and the grand total. Pure and idempotent.
func ComputeTotals(items []LineItem, taxRatePercent float64) Totals {
	var subtotal, taxableBase float64
	for _, item := range items {
		amount := item.Amount()
		subtotal += amount
		if item.Taxable {
			taxableBase += amount
		}
	}
	taxTotal := round2(taxableBase * CoerceNumeric(taxRatePercent) / 100)
	return Totals{
		Subtotal: subtotal,
		TaxTotal: taxTotal,
		Total:    round2(subtotal + taxTotal),
	}
}
