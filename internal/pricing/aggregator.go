package pricing

import "github.com/shopspring/decimal"

// ShippingAtActualNote replaces the surcharge lines when charges are
// globally disabled.
const ShippingAtActualNote = "Packaging & shipping charged at actual"

// Aggregate composes the full quotation breakdown from estimated lines and
// the current pricing configuration. Tax is computed on subtotal minus
// discount; packaging and courier surcharges are added after tax, untaxed.
// Every presentation surface consumes this one result.
func Aggregate(lines []LineEstimate, cfg QuoteConfig) Breakdown {
	var subtotal int64
	totalVolume := decimal.Zero
	for _, line := range lines {
		subtotal += line.LineCost
		totalVolume = totalVolume.Add(line.VolumeCC.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	discount := ResolveDiscount(decimal.NewFromInt(subtotal), totalVolume, cfg.Discounts)
	afterDiscount := subtotal - discount.Amount

	tax := SplitTax(decimal.NewFromInt(afterDiscount), cfg.Taxes)

	breakdown := Breakdown{
		Subtotal:        subtotal,
		TotalVolumeCC:   totalVolume,
		DiscountPercent: discount.Percent,
		DiscountAmount:  discount.Amount,
		DiscountLabel:   discount.Label,
		AfterDiscount:   afterDiscount,
		CGSTAmount:      tax.CGSTAmount,
		SGSTAmount:      tax.SGSTAmount,
		IGSTAmount:      tax.IGSTAmount,
		TotalTax:        tax.TotalTax,
		NearSlabMessage: discount.NearSlabMessage,
	}

	if cfg.Charges.Enabled {
		breakdown.ChargesApplied = true
		breakdown.Packaging = cfg.Charges.Packaging
		breakdown.Courier = cfg.Charges.Courier
	} else {
		breakdown.ChargesNote = ShippingAtActualNote
	}

	total := decimal.NewFromInt(afterDiscount).
		Add(tax.TotalTax).
		Add(decimal.NewFromInt(breakdown.Packaging)).
		Add(decimal.NewFromInt(breakdown.Courier))
	breakdown.GrandTotal = total.Round(0).IntPart()

	return breakdown
}
