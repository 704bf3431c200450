package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSplitTaxIntraState(t *testing.T) {
	t.Parallel()

	split := SplitTax(decimal.NewFromInt(1000), TaxRates{
		CGSTPercent: decimal.NewFromInt(9),
		SGSTPercent: decimal.NewFromInt(9),
	})

	if split.CGSTAmount.String() != "90" || split.SGSTAmount.String() != "90" {
		t.Errorf("CGST/SGST = %s/%s, want 90/90", split.CGSTAmount, split.SGSTAmount)
	}
	if !split.IGSTAmount.IsZero() {
		t.Errorf("IGST = %s, want 0", split.IGSTAmount)
	}
	if split.TotalTax.String() != "180" {
		t.Errorf("total tax = %s, want 180", split.TotalTax)
	}
}

func TestSplitTaxInterStateWins(t *testing.T) {
	t.Parallel()

	// Stored CGST/SGST are ignored whenever IGST is positive.
	split := SplitTax(decimal.NewFromInt(1000), TaxRates{
		CGSTPercent: decimal.NewFromInt(9),
		SGSTPercent: decimal.NewFromInt(9),
		IGSTPercent: decimal.NewFromInt(18),
	})

	if split.IGSTAmount.String() != "180" {
		t.Errorf("IGST = %s, want 180", split.IGSTAmount)
	}
	if !split.CGSTAmount.IsZero() || !split.SGSTAmount.IsZero() {
		t.Errorf("CGST/SGST = %s/%s, want zero under IGST", split.CGSTAmount, split.SGSTAmount)
	}
	if split.TotalTax.String() != "180" {
		t.Errorf("total tax = %s, want 180", split.TotalTax)
	}
}

func TestSplitTaxZeroRates(t *testing.T) {
	t.Parallel()

	split := SplitTax(decimal.NewFromInt(1000), TaxRates{})
	if !split.TotalTax.IsZero() {
		t.Errorf("total tax = %s, want 0", split.TotalTax)
	}
}

func TestSplitTaxFractionalRounding(t *testing.T) {
	t.Parallel()

	// 333 * 9% = 29.97; amounts round to two decimals.
	split := SplitTax(decimal.NewFromInt(333), TaxRates{
		CGSTPercent: decimal.NewFromInt(9),
		SGSTPercent: decimal.NewFromInt(9),
	})
	if split.CGSTAmount.String() != "29.97" {
		t.Errorf("CGST = %s, want 29.97", split.CGSTAmount)
	}
	if split.TotalTax.String() != "59.94" {
		t.Errorf("total tax = %s, want 59.94", split.TotalTax)
	}
}
