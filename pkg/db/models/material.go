package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dhruvpatel3d/printquote-backend/pkg/enums"
)

// Material is an admin-managed printable material with its pricing inputs.
type Material struct {
	ID           uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Technology   enums.Technology `gorm:"column:technology;type:technology;not null;uniqueIndex:idx_materials_tech_key"`
	MaterialKey  string           `gorm:"column:material_key;not null;uniqueIndex:idx_materials_tech_key"`
	DisplayName  string           `gorm:"column:display_name;not null"`
	DensityGCC   decimal.Decimal  `gorm:"column:density_g_cc;type:numeric(10,3);not null"`
	PricePerGram decimal.Decimal  `gorm:"column:price_per_gram;type:numeric(10,2);not null"`
	IsActive     bool             `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
