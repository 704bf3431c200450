package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/dhruvpatel3d/printquote-backend/pkg/enums"
)

// Material carries the pricing inputs for one printable material.
type Material struct {
	Technology   enums.Technology `json:"technology"`
	MaterialKey  string           `json:"materialKey"`
	DisplayName  string           `json:"displayName"`
	DensityGCC   decimal.Decimal  `json:"densityGCC"`
	PricePerGram decimal.Decimal  `json:"pricePerGram"`
}

// Finish carries the cost multiplier for one surface finish.
type Finish struct {
	FinishKey      string          `json:"finishKey"`
	DisplayName    string          `json:"displayName"`
	CostMultiplier decimal.Decimal `json:"costMultiplier"`
}

// MinimumPriceRule is the global per-line price floor.
type MinimumPriceRule struct {
	Enabled bool            `json:"enabled"`
	Amount  decimal.Decimal `json:"amount"`
}

// Slab is one volume-discount tier, unlocked once the order's total volume
// reaches MinVolumeCC.
type Slab struct {
	MinVolumeCC decimal.Decimal `json:"minVolumeCC"`
	Percent     decimal.Decimal `json:"percent"`
	Label       string          `json:"label"`
}

// RegularDiscount is the flat fallback discount, considered only when no
// volume slab qualifies.
type RegularDiscount struct {
	Enabled bool            `json:"enabled"`
	Percent decimal.Decimal `json:"percent"`
}

// DiscountConfig groups the two discount mechanisms.
type DiscountConfig struct {
	Slabs   []Slab          `json:"slabs"`
	Regular RegularDiscount `json:"regular"`
}

// TaxRates holds the GST percentages. IGST > 0 selects the inter-state
// regime and forces CGST/SGST to zero for computation.
type TaxRates struct {
	CGSTPercent decimal.Decimal `json:"cgstPercent"`
	SGSTPercent decimal.Decimal `json:"sgstPercent"`
	IGSTPercent decimal.Decimal `json:"igstPercent"`
}

// Charges are the flat surcharges, togglable as a pair.
type Charges struct {
	Enabled   bool  `json:"enabled"`
	Packaging int64 `json:"packaging"`
	Courier   int64 `json:"courier"`
}

// LineInput is everything the estimator needs for one order line.
type LineInput struct {
	VolumeCC    decimal.Decimal
	Technology  enums.Technology
	MaterialKey string
	FinishKey   string
	Quantity    int
}

// LineEstimate is the derived pricing state for one line. LineCost is whole
// currency units; WeightGrams is rounded to two decimals.
type LineEstimate struct {
	VolumeCC       decimal.Decimal `json:"volumeCC"`
	Quantity       int             `json:"quantity"`
	WeightGrams    decimal.Decimal `json:"weightGrams"`
	UnitCost       int64           `json:"unitCost"`
	LineCost       int64           `json:"lineCost"`
	MinimumApplied bool            `json:"minimumApplied"`
}

// DiscountResult is the winning discount for an order, if any.
type DiscountResult struct {
	Percent         decimal.Decimal `json:"percent"`
	Amount          int64           `json:"amount"`
	Label           string          `json:"label"`
	NearSlabMessage string          `json:"nearSlabMessage,omitempty"`
}

// TaxSplit is the GST amounts for one taxable base, each rounded to two
// decimals.
type TaxSplit struct {
	CGSTAmount decimal.Decimal `json:"cgstAmount"`
	SGSTAmount decimal.Decimal `json:"sgstAmount"`
	IGSTAmount decimal.Decimal `json:"igstAmount"`
	TotalTax   decimal.Decimal `json:"totalTax"`
}

// QuoteConfig is the full pricing configuration snapshot the aggregator
// runs against.
type QuoteConfig struct {
	Discounts DiscountConfig `json:"discounts"`
	Taxes     TaxRates       `json:"taxes"`
	Charges   Charges        `json:"charges"`
}

// Breakdown is the single source of truth for a quotation's totals. The
// summary endpoint, the PDF export and the persisted snapshot all consume
// this value unchanged.
type Breakdown struct {
	Subtotal        int64           `json:"subtotal"`
	TotalVolumeCC   decimal.Decimal `json:"totalVolumeCC"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	DiscountAmount  int64           `json:"discountAmount"`
	DiscountLabel   string          `json:"discountLabel,omitempty"`
	AfterDiscount   int64           `json:"afterDiscount"`
	CGSTAmount      decimal.Decimal `json:"cgstAmount"`
	SGSTAmount      decimal.Decimal `json:"sgstAmount"`
	IGSTAmount      decimal.Decimal `json:"igstAmount"`
	TotalTax        decimal.Decimal `json:"totalTax"`
	ChargesApplied  bool            `json:"chargesApplied"`
	Packaging       int64           `json:"packagingCharges"`
	Courier         int64           `json:"courierCharges"`
	ChargesNote     string          `json:"chargesNote,omitempty"`
	GrandTotal      int64           `json:"grandTotal"`
	NearSlabMessage string          `json:"nearSlabMessage,omitempty"`
}

// Catalog is the read-only lookup surface the estimator depends on. Missing
// entries are reported as absence; the estimator applies fallbacks.
type Catalog interface {
	LookupMaterial(technology enums.Technology, materialKey string) (Material, bool)
	LookupFinish(finishKey string) (Finish, bool)
	MinimumPrice() MinimumPriceRule
}
