package models

import (
	"encoding/json"
	"time"
)

// PricingSetting is a keyed JSON configuration document (slabs, tax rates,
// charges, bank details and the like). Absent keys fall back to service
// defaults.
type PricingSetting struct {
	DocKey    string          `gorm:"column:doc_key;primaryKey"`
	Doc       json.RawMessage `gorm:"column:doc;type:jsonb;not null"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
