package models

import (
	"time"
)

// SequenceModel is the persistence model for a keyed durable counter.
// Counters back reference number generation and survive restarts; values
// handed out but never persisted leave gaps, which is acceptable.
type SequenceModel struct {
	Key       string    `gorm:"type:varchar(100);primaryKey"`
	Value     int64     `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SequenceModel) TableName() string {
	return "sequences"
}
