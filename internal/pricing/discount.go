package pricing

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// advisoryBand is how close (as a fraction of the slab threshold) the order
// volume must be before the near-slab message appears.
var advisoryBand = decimal.NewFromFloat(0.7)

var oneHundred = decimal.NewFromInt(100)

// ResolveDiscount selects at most one discount for the order: the highest
// qualifying volume slab, else the regular discount when enabled, else none.
// The two mechanisms never stack.
func ResolveDiscount(subtotal decimal.Decimal, totalVolumeCC decimal.Decimal, cfg DiscountConfig) DiscountResult {
	result := DiscountResult{
		Percent: decimal.Zero,
	}
	if subtotal.IsZero() && totalVolumeCC.IsZero() {
		return result
	}

	if slab, ok := selectSlab(totalVolumeCC, cfg.Slabs); ok {
		result.Percent = slab.Percent
		result.Label = slab.Label
	} else if cfg.Regular.Enabled && cfg.Regular.Percent.IsPositive() {
		result.Percent = cfg.Regular.Percent
		result.Label = "Regular discount"
	}

	if result.Percent.IsPositive() {
		result.Amount = subtotal.Mul(result.Percent).Div(oneHundred).Round(0).IntPart()
	}
	result.NearSlabMessage = nearSlabMessage(totalVolumeCC, cfg.Slabs)
	return result
}

// selectSlab returns the highest-threshold slab the volume qualifies for.
func selectSlab(totalVolumeCC decimal.Decimal, slabs []Slab) (Slab, bool) {
	sorted := sortedSlabs(slabs)
	for i := len(sorted) - 1; i >= 0; i-- {
		if totalVolumeCC.GreaterThanOrEqual(sorted[i].MinVolumeCC) {
			return sorted[i], true
		}
	}
	return Slab{}, false
}

// nearSlabMessage reports the nearest not-yet-reached slab, only once the
// volume is within the advisory band of its threshold.
func nearSlabMessage(totalVolumeCC decimal.Decimal, slabs []Slab) string {
	if totalVolumeCC.IsZero() {
		return ""
	}
	for _, slab := range sortedSlabs(slabs) {
		if totalVolumeCC.GreaterThanOrEqual(slab.MinVolumeCC) {
			continue
		}
		threshold := slab.MinVolumeCC.Mul(advisoryBand)
		if totalVolumeCC.LessThan(threshold) {
			return ""
		}
		remaining := slab.MinVolumeCC.Sub(totalVolumeCC)
		label := slab.Label
		if label == "" {
			label = fmt.Sprintf("%s%% volume discount", slab.Percent.String())
		}
		return fmt.Sprintf("Add %s cm³ more to unlock %s (%s%% off)", remaining.String(), label, slab.Percent.String())
	}
	return ""
}

func sortedSlabs(slabs []Slab) []Slab {
	sorted := make([]Slab, len(slabs))
	copy(sorted, slabs)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].MinVolumeCC.LessThan(sorted[j].MinVolumeCC)
	})
	return sorted
}
