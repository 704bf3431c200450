package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Finish is an admin-managed surface finish applying a cost multiplier.
type Finish struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	FinishKey      string          `gorm:"column:finish_key;not null;uniqueIndex"`
	DisplayName    string          `gorm:"column:display_name;not null"`
	CostMultiplier decimal.Decimal `gorm:"column:cost_multiplier;type:numeric(6,3);not null"`
	IsActive       bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
