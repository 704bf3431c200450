package quotes

import (
	"github.com/shopspring/decimal"

	"github.com/dhruvpatel3d/printquote-backend/internal/pricing"
	"github.com/dhruvpatel3d/printquote-backend/internal/settings"
	"github.com/dhruvpatel3d/printquote-backend/pkg/db/models"
	"github.com/dhruvpatel3d/printquote-backend/pkg/enums"
)

// ClientInfo identifies the quotation recipient.
type ClientInfo struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Address string `json:"address"`
	GSTIN   string `json:"gstin"`
}

// LineSnapshot freezes one order line as quoted.
type LineSnapshot struct {
	FileName       string             `json:"fileName"`
	Technology     enums.Technology   `json:"technology"`
	MaterialKey    string             `json:"materialKey"`
	FinishKey      string             `json:"finishKey,omitempty"`
	Quantity       int                `json:"quantity"`
	VolumeCC       decimal.Decimal    `json:"volumeCC"`
	VolumeMethod   enums.VolumeMethod `json:"volumeMethod"`
	WeightGrams    decimal.Decimal    `json:"weightGrams"`
	UnitCost       int64              `json:"unitCost"`
	LineCost       int64              `json:"lineCost"`
	MinimumApplied bool               `json:"minimumApplied,omitempty"`
}

// ChargesSnapshot freezes the surcharge configuration as quoted.
type ChargesSnapshot struct {
	Applied   bool   `json:"applied"`
	Packaging int64  `json:"packaging"`
	Courier   int64  `json:"courier"`
	Note      string `json:"note,omitempty"`
}

// Snapshot is the full persisted quotation payload. Its breakdown is the
// exact aggregator output, so the stored totals can never drift from what
// the summary and PDF showed.
type Snapshot struct {
	Client      ClientInfo            `json:"client"`
	Lines       []LineSnapshot        `json:"lines"`
	Charges     ChargesSnapshot       `json:"charges"`
	Breakdown   pricing.Breakdown     `json:"breakdown"`
	BankDetails *settings.BankDetails `json:"bankDetails,omitempty"`
}

func snapshotLines(lines []models.OrderLine) []LineSnapshot {
	out := make([]LineSnapshot, 0, len(lines))
	for _, line := range lines {
		out = append(out, LineSnapshot{
			FileName:       line.FileName,
			Technology:     line.Technology,
			MaterialKey:    line.MaterialKey,
			FinishKey:      line.FinishKey,
			Quantity:       line.Quantity,
			VolumeCC:       line.VolumeCC,
			VolumeMethod:   line.VolumeMethod,
			WeightGrams:    line.WeightGrams,
			UnitCost:       line.UnitCost,
			LineCost:       line.LineCost,
			MinimumApplied: line.MinimumApplied,
		})
	}
	return out
}

func estimatesFromLines(lines []models.OrderLine) []pricing.LineEstimate {
	estimates := make([]pricing.LineEstimate, 0, len(lines))
	for _, line := range lines {
		estimates = append(estimates, pricing.LineEstimate{
			VolumeCC:       line.VolumeCC,
			Quantity:       line.Quantity,
			WeightGrams:    line.WeightGrams,
			UnitCost:       line.UnitCost,
			LineCost:       line.LineCost,
			MinimumApplied: line.MinimumApplied,
		})
	}
	return estimates
}
