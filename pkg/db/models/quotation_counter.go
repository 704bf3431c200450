package models

import "time"

// QuotationCounter holds the last issued numeric value for a named sequence.
// The value is incremented atomically at allocation time; peeking never
// mutates it.
type QuotationCounter struct {
	Name      string    `gorm:"column:name;primaryKey"`
	Value     int64     `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
