package models

import (
	"time"

	"gorm.io/gorm"
)

// WeightSample is one body-weight measurement. One sample per member
// per day; a second save on the same date overwrites.
type WeightSample struct {
	gorm.Model
	MemberID uint      `gorm:"uniqueIndex:idx_weight_member_date;not null" json:"member_id"`
	Date     time.Time `gorm:"uniqueIndex:idx_weight_member_date;not null" json:"date"`
	WeightKg float64   `gorm:"not null" json:"weight_kg"`
}
