package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dhruvpatel3d/printquote-backend/pkg/enums"
)

// OrderLine is a draft quotation line scoped to an upload session. Pricing
// fields are recomputed on every option change and volume refinement.
type OrderLine struct {
	ID             uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	SessionID      uuid.UUID          `gorm:"column:session_id;type:uuid;not null;index:idx_order_lines_session"`
	FileName       string             `gorm:"column:file_name;not null"`
	FileSizeBytes  int64              `gorm:"column:file_size_bytes;not null;default:0"`
	Technology     enums.Technology   `gorm:"column:technology;type:technology;not null"`
	MaterialKey    string             `gorm:"column:material_key;not null"`
	FinishKey      string             `gorm:"column:finish_key;not null;default:''"`
	Quantity       int                `gorm:"column:quantity;not null;default:1"`
	VolumeCC       decimal.Decimal    `gorm:"column:volume_cc;type:numeric(12,2);not null"`
	VolumeMethod   enums.VolumeMethod `gorm:"column:volume_method;type:volume_method;not null;default:estimated"`
	WeightGrams    decimal.Decimal    `gorm:"column:weight_grams;type:numeric(12,2);not null;default:0"`
	UnitCost       int64              `gorm:"column:unit_cost;not null;default:0"`
	LineCost       int64              `gorm:"column:line_cost;not null;default:0"`
	MinimumApplied bool               `gorm:"column:minimum_applied;not null;default:false"`
	CreatedAt      time.Time          `gorm:"column:created_at;autoCreateTime;index:idx_order_lines_session"`
	UpdatedAt      time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
