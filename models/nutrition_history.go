package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NutritionHistory is the permanent archive of one elapsed day.
// Written exactly once per (member, date) by the midnight archiver and
// never updated; MealsData is the frozen copy of the day's ledger rows.
type NutritionHistory struct {
	gorm.Model
	MemberID uint      `gorm:"uniqueIndex:idx_history_member_date;not null" json:"member_id"`
	Date     time.Time `gorm:"uniqueIndex:idx_history_member_date;not null" json:"date"`

	TotalCalories float64 `json:"total_calories"`
	TotalProtein  float64 `json:"total_protein"`
	TotalCarbs    float64 `json:"total_carbs"`
	TotalFats     float64 `json:"total_fats"`
	TotalFiber    float64 `json:"total_fiber"`

	Deficiencies datatypes.JSON `json:"deficiencies"` // e.g. ["Protein","Vitamin D"]
	MealsCount   int            `json:"meals_count"`
	MealsData    datatypes.JSON `json:"meals_data"`
}
