package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// FoodLogEntry is one logged meal in the live ledger. A photo with
// several recognized foods becomes a single grouped entry; the label
// lists the foods and the nutrient columns hold their sums.
type FoodLogEntry struct {
	ID       string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	MemberID uint      `gorm:"index:idx_food_log_member_date;not null" json:"member_id"`
	Date     time.Time `gorm:"index:idx_food_log_member_date;not null" json:"date"`

	FoodName string  `gorm:"not null" json:"food_name"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`

	// Secondary nutrients, zero unless enrichment found the food
	Fiber    float64 `json:"fiber"`
	Sugar    float64 `json:"sugar"`
	Sodium   float64 `json:"sodium"`
	VitaminA float64 `json:"vitamin_a"`
	VitaminC float64 `json:"vitamin_c"`
	VitaminD float64 `json:"vitamin_d"`
	Calcium  float64 `json:"calcium"`
	Iron     float64 `json:"iron"`

	NutriScore *string        `gorm:"size:1" json:"nutriscore"` // A–E, best across recognized items
	Additives  datatypes.JSON `json:"additives"`                // OpenFoodFacts additive tags

	CreatedAt time.Time `json:"created_at"`
}

func (e *FoodLogEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
