package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/dhruvpatel3d/printquote-backend/pkg/errors"
)

// Fallbacks used when a catalog lookup reports absence. A partially loaded
// catalog must never block quoting.
var (
	fallbackDensityGCC     = decimal.NewFromFloat(1.175)
	fallbackPricePerGram   = decimal.NewFromInt(12)
	fallbackCostMultiplier = decimal.NewFromInt(1)
)

// EstimateLine derives weight and cost for one order line against the given
// catalog snapshot. It is a pure function of its inputs: callers recompute
// it on every option change and volume refinement rather than caching.
func EstimateLine(catalog Catalog, in LineInput) (LineEstimate, error) {
	if in.Quantity < 1 {
		return LineEstimate{}, errors.New(errors.CodeValidation, "quantity must be at least 1")
	}
	if !in.Technology.IsValid() {
		return LineEstimate{}, errors.New(errors.CodeValidation, "unknown technology")
	}
	if in.VolumeCC.IsNegative() {
		return LineEstimate{}, errors.New(errors.CodeValidation, "volume cannot be negative")
	}

	density := fallbackDensityGCC
	pricePerGram := fallbackPricePerGram
	if material, ok := catalog.LookupMaterial(in.Technology, in.MaterialKey); ok {
		density = material.DensityGCC
		pricePerGram = material.PricePerGram
	}

	multiplier := fallbackCostMultiplier
	if finish, ok := catalog.LookupFinish(in.FinishKey); ok {
		multiplier = finish.CostMultiplier
	}

	weight := in.VolumeCC.Mul(density).Round(2)
	unitCost := weight.Mul(pricePerGram).Mul(multiplier)
	rawCost := unitCost.Mul(decimal.NewFromInt(int64(in.Quantity)))

	lineCost := rawCost
	minimumApplied := false
	if rule := catalog.MinimumPrice(); rule.Enabled && rawCost.LessThan(rule.Amount) {
		lineCost = rule.Amount
		minimumApplied = true
	}

	return LineEstimate{
		VolumeCC:       in.VolumeCC,
		Quantity:       in.Quantity,
		WeightGrams:    weight,
		UnitCost:       unitCost.Round(0).IntPart(),
		LineCost:       lineCost.Round(0).IntPart(),
		MinimumApplied: minimumApplied,
	}, nil
}
