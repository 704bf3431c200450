package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/dhruvpatel3d/printquote-backend/pkg/enums"
)

// Quotation is an immutable snapshot of a generated quote. The breakdown
// stored here is the same aggregator output served by the summary endpoint
// and rendered into the PDF.
type Quotation struct {
	ID          uuid.UUID             `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Number      string                `gorm:"column:number;not null;uniqueIndex"`
	Status      enums.QuotationStatus `gorm:"column:status;type:quotation_status;not null;default:generated"`
	Client      json.RawMessage       `gorm:"column:client;type:jsonb;not null"`
	Lines       json.RawMessage       `gorm:"column:lines;type:jsonb;not null"`
	Charges     json.RawMessage       `gorm:"column:charges;type:jsonb;not null"`
	Breakdown   json.RawMessage       `gorm:"column:breakdown;type:jsonb;not null"`
	BankDetails json.RawMessage       `gorm:"column:bank_details;type:jsonb"`
	ValidUntil  *time.Time            `gorm:"column:valid_until;type:date"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
