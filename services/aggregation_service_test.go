package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"

	"github.com/olivierjeannette/skaliProgV1-sub009/models"
)

func TestSumEntriesSingleMeal(t *testing.T) {
	totals := SumEntries([]models.FoodLogEntry{
		{Calories: 600, Protein: 40, Carbs: 50, Fats: 20},
	})
	assert.Equal(t, 600.0, totals.Calories)
	assert.Equal(t, 40.0, totals.Protein)
	assert.Equal(t, 50.0, totals.Carbs)
	assert.Equal(t, 20.0, totals.Fats)
	assert.Equal(t, 0.0, totals.Fiber)
	assert.Equal(t, 0.0, totals.Sodium)
	assert.Equal(t, 1, totals.MealsCount)
}

func TestSumEntriesOrderIndependent(t *testing.T) {
	entries := []models.FoodLogEntry{
		{Calories: 320, Protein: 20, Fiber: 4, Sodium: 600},
		{Calories: 540, Protein: 50, Fiber: 9, Sodium: 900},
		{Calories: 120, Protein: 3, Fiber: 2, Sodium: 150},
	}
	reversed := []models.FoodLogEntry{entries[2], entries[1], entries[0]}
	assert.Equal(t, SumEntries(entries), SumEntries(reversed))
}

func TestAnalyzeHealthEmptyDay(t *testing.T) {
	assert.Nil(t, AnalyzeHealth(SumEntries(nil), nil))
}

func TestAnalyzeHealthProteinFloorAcrossMeals(t *testing.T) {
	entries := []models.FoodLogEntry{
		{FoodName: "eggs", Protein: 20},
		{FoodName: "chicken", Protein: 50},
	}
	a := AnalyzeHealth(SumEntries(entries), entries)
	assert.NotNil(t, a)
	for _, d := range a.Deficiencies {
		assert.NotEqual(t, "Protein", d.Nutrient)
	}
	assert.Contains(t, a.Good, "Protein intake sufficient")
}

func TestAnalyzeHealthFlagsDeficienciesAndExcesses(t *testing.T) {
	entries := []models.FoodLogEntry{
		{FoodName: "instant noodles", Calories: 900, Protein: 10, Sodium: 2500, Sugar: 60},
	}
	a := AnalyzeHealth(SumEntries(entries), entries)
	assert.NotNil(t, a)

	byNutrient := map[string]Deficiency{}
	for _, d := range a.Deficiencies {
		byNutrient[d.Nutrient] = d
	}
	assert.Contains(t, byNutrient, "Protein")
	assert.Equal(t, "medium", byNutrient["Protein"].Severity)
	assert.Contains(t, byNutrient, "Vitamin D")
	assert.Equal(t, "high", byNutrient["Vitamin D"].Severity)
	assert.Len(t, a.Deficiencies, 6)

	assert.Len(t, a.Warnings, 2)
	assert.Equal(t, "Sodium", a.Warnings[0].Nutrient)
	assert.Equal(t, "Sugar", a.Warnings[1].Nutrient)
}

func TestAnalyzeHealthAdditiveFlagsDeduped(t *testing.T) {
	entries := []models.FoodLogEntry{
		{FoodName: "soda", Additives: datatypes.JSON(`["en:e951","en:e330"]`)},
		{FoodName: "diet soda", Additives: datatypes.JSON(`["en:e951","en:e950"]`)},
	}
	a := AnalyzeHealth(SumEntries(entries), entries)
	assert.NotNil(t, a)
	assert.Len(t, a.Additives, 2) // e951 once, e950 once; e330 is not a concern code
	assert.Equal(t, "en:e951", a.Additives[0].Code)
	assert.Equal(t, "soda", a.Additives[0].Source)
	assert.Equal(t, "en:e950", a.Additives[1].Code)
}

func TestAnalyzeHealthScoreBounds(t *testing.T) {
	// everything wrong at once: 6 deficiencies, 2 warnings, additives
	worst := []models.FoodLogEntry{
		{FoodName: "junk", Sodium: 9000, Sugar: 400, Additives: datatypes.JSON(`["en:e102","en:e110","en:e120","en:e122","en:e124","en:e211","en:e621"]`)},
	}
	a := AnalyzeHealth(SumEntries(worst), worst)
	assert.NotNil(t, a)
	assert.Equal(t, 0, a.Score)

	// every floor met, nothing over a ceiling
	best := []models.FoodLogEntry{
		{FoodName: "balanced plate", Protein: 80, Fiber: 30, VitaminC: 100, VitaminD: 20, Calcium: 1200, Iron: 18},
	}
	b := AnalyzeHealth(SumEntries(best), best)
	assert.NotNil(t, b)
	assert.Equal(t, 100, b.Score)

	assert.GreaterOrEqual(t, a.Score, 0)
	assert.LessOrEqual(t, b.Score, 100)
}

func TestDeficiencyNames(t *testing.T) {
	names := DeficiencyNames(DailyTotals{Protein: 80, Fiber: 10, VitaminC: 100, VitaminD: 20, Calcium: 500, Iron: 20})
	assert.Equal(t, []string{"Fiber", "Calcium"}, names)

	none := DeficiencyNames(DailyTotals{Protein: 80, Fiber: 30, VitaminC: 100, VitaminD: 20, Calcium: 1200, Iron: 18})
	assert.Empty(t, none)
}
