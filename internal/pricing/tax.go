package pricing

import "github.com/shopspring/decimal"

// SplitTax dispatches on the sign of the IGST percent: a positive IGST
// selects the inter-state regime and zeroes CGST/SGST regardless of their
// stored values. Amounts are rounded to two decimals.
func SplitTax(taxableAmount decimal.Decimal, rates TaxRates) TaxSplit {
	split := TaxSplit{
		CGSTAmount: decimal.Zero,
		SGSTAmount: decimal.Zero,
		IGSTAmount: decimal.Zero,
	}

	if rates.IGSTPercent.IsPositive() {
		split.IGSTAmount = taxableAmount.Mul(rates.IGSTPercent).Div(oneHundred).Round(2)
	} else {
		split.CGSTAmount = taxableAmount.Mul(rates.CGSTPercent).Div(oneHundred).Round(2)
		split.SGSTAmount = taxableAmount.Mul(rates.SGSTPercent).Div(oneHundred).Round(2)
	}

	split.TotalTax = split.CGSTAmount.Add(split.SGSTAmount).Add(split.IGSTAmount)
	return split
}
