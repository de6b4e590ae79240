package models

import (
	"time"

	"gorm.io/gorm"
)

// Member mirrors the gym roster record. Biometrics are read-only here;
// member management lives in the admin product.
type Member struct {
	gorm.Model
	Name      string `gorm:"not null"`
	WeightKg  float64
	HeightCm  float64
	BirthDate *time.Time
	Sex       string `gorm:"size:10"` // "male" | "female"
}
