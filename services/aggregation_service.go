package services

import (
	"encoding/json"
	"time"

	"github.com/olivierjeannette/skaliProgV1-sub009/models"
)

// DailyTotals is the fold of one day's ledger rows. Each field is the
// independent sum of that nutrient across the rows, so the result is
// the same for any append order.
type DailyTotals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
	Fiber    float64 `json:"fiber"`
	Sugar    float64 `json:"sugar"`
	Sodium   float64 `json:"sodium"`
	VitaminA float64 `json:"vitamin_a"`
	VitaminC float64 `json:"vitamin_c"`
	VitaminD float64 `json:"vitamin_d"`
	Calcium  float64 `json:"calcium"`
	Iron     float64 `json:"iron"`

	MealsCount int `json:"meals_count"`
}

// SumEntries folds ledger rows into totals.
func SumEntries(entries []models.FoodLogEntry) DailyTotals {
	var t DailyTotals
	for _, e := range entries {
		t.Calories += e.Calories
		t.Protein += e.Protein
		t.Carbs += e.Carbs
		t.Fats += e.Fats
		t.Fiber += e.Fiber
		t.Sugar += e.Sugar
		t.Sodium += e.Sodium
		t.VitaminA += e.VitaminA
		t.VitaminC += e.VitaminC
		t.VitaminD += e.VitaminD
		t.Calcium += e.Calcium
		t.Iron += e.Iron
	}
	t.MealsCount = len(entries)
	return t
}

// Daily recommended floors, and ceilings for the two nutrients where
// excess is the concern. Average adult values.
const (
	minProteinG  = 60
	minFiberG    = 25
	minVitaminC  = 80   // mg
	minVitaminD  = 15   // µg
	minCalciumMg = 1000 // mg
	minIronMg    = 14   // mg
	maxSodiumMg  = 2000 // mg
	maxSugarG    = 50   // g
)

type Deficiency struct {
	Nutrient    string  `json:"nutrient"`
	Value       float64 `json:"value"`
	Recommended float64 `json:"recommended"`
	Severity    string  `json:"severity"` // low | medium | high
}

type ExcessWarning struct {
	Nutrient string  `json:"nutrient"`
	Value    float64 `json:"value"`
	Maximum  float64 `json:"maximum"`
	Severity string  `json:"severity"`
}

type AdditiveFlag struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Source string `json:"source"` // food label the additive came from
}

// HealthAnalysis is the rule-based evaluation of one day. The score is
// a heuristic for the member's dashboard, not a medical assessment.
type HealthAnalysis struct {
	Deficiencies []Deficiency    `json:"deficiencies"`
	Warnings     []ExcessWarning `json:"warnings"`
	Additives    []AdditiveFlag  `json:"additives"`
	Good         []string        `json:"good"`
	Score        int             `json:"score"`
}

// Additive tags (OpenFoodFacts codes) worth flagging: azo and
// cochineal colorants, nitrite/benzoate/sulfite preservatives, MSG and
// the contested sweeteners.
var concernAdditives = map[string]string{
	"en:e102": "E102 - Tartrazine (yellow colorant)",
	"en:e110": "E110 - Sunset Yellow",
	"en:e120": "E120 - Cochineal (red colorant)",
	"en:e122": "E122 - Azorubine",
	"en:e124": "E124 - Ponceau 4R",
	"en:e211": "E211 - Sodium benzoate",
	"en:e220": "E220 - Sulfur dioxide",
	"en:e250": "E250 - Sodium nitrite",
	"en:e251": "E251 - Sodium nitrate",
	"en:e621": "E621 - Monosodium glutamate (MSG)",
	"en:e950": "E950 - Acesulfame K",
	"en:e951": "E951 - Aspartame",
	"en:e952": "E952 - Cyclamate",
}

// AggregationService reads the ledger and produces totals and the
// daily health analysis.
type AggregationService struct {
	logSvc *FoodLogService
}

func NewAggregationService(logSvc *FoodLogService) *AggregationService {
	return &AggregationService{logSvc: logSvc}
}

// TotalsForDay reads the member's ledger for one day and folds it.
func (s *AggregationService) TotalsForDay(memberID uint, date time.Time) (DailyTotals, error) {
	entries, err := s.logSvc.ListDay(memberID, date)
	if err != nil {
		return DailyTotals{}, err
	}
	return SumEntries(entries), nil
}

// AnalysisForDay runs the health evaluation over one day's ledger.
// Returns (nil, nil) for a day with no meals.
func (s *AggregationService) AnalysisForDay(memberID uint, date time.Time) (*HealthAnalysis, error) {
	entries, err := s.logSvc.ListDay(memberID, date)
	if err != nil {
		return nil, err
	}
	return AnalyzeHealth(SumEntries(entries), entries), nil
}

// AnalyzeHealth evaluates totals against the recommended daily values
// and scans the day's meals for flagged additives. Returns nil when no
// meals were logged; a score for an empty day would just be noise.
func AnalyzeHealth(totals DailyTotals, meals []models.FoodLogEntry) *HealthAnalysis {
	if totals.MealsCount == 0 {
		return nil
	}

	a := &HealthAnalysis{}

	type floor struct {
		nutrient    string
		value       float64
		recommended float64
		severity    string
	}
	for _, f := range []floor{
		{"Protein", totals.Protein, minProteinG, "medium"},
		{"Fiber", totals.Fiber, minFiberG, "low"},
		{"Vitamin C", totals.VitaminC, minVitaminC, "medium"},
		{"Vitamin D", totals.VitaminD, minVitaminD, "high"},
		{"Calcium", totals.Calcium, minCalciumMg, "medium"},
		{"Iron", totals.Iron, minIronMg, "medium"},
	} {
		if f.value < f.recommended {
			a.Deficiencies = append(a.Deficiencies, Deficiency{
				Nutrient:    f.nutrient,
				Value:       f.value,
				Recommended: f.recommended,
				Severity:    f.severity,
			})
		} else {
			a.Good = append(a.Good, f.nutrient+" intake sufficient")
		}
	}

	if totals.Sodium > maxSodiumMg {
		a.Warnings = append(a.Warnings, ExcessWarning{
			Nutrient: "Sodium", Value: totals.Sodium, Maximum: maxSodiumMg, Severity: "high",
		})
	}
	if totals.Sugar > maxSugarG {
		a.Warnings = append(a.Warnings, ExcessWarning{
			Nutrient: "Sugar", Value: totals.Sugar, Maximum: maxSugarG, Severity: "medium",
		})
	}

	seen := map[string]bool{}
	for _, m := range meals {
		if len(m.Additives) == 0 {
			continue
		}
		var codes []string
		if err := json.Unmarshal(m.Additives, &codes); err != nil {
			continue
		}
		for _, code := range codes {
			name, flagged := concernAdditives[code]
			if !flagged || seen[code] {
				continue
			}
			seen[code] = true
			a.Additives = append(a.Additives, AdditiveFlag{Code: code, Name: name, Source: m.FoodName})
		}
	}

	a.Score = dayScore(a)
	return a
}

// dayScore starts at 100, subtracts per problem, credits each floor
// met, and clamps to [0,100].
func dayScore(a *HealthAnalysis) int {
	score := 100
	score -= len(a.Deficiencies) * 5
	score -= len(a.Warnings) * 10
	score -= len(a.Additives) * 15
	score += len(a.Good) * 5

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// DeficiencyNames returns just the nutrient names below their floor,
// the form the archive row stores.
func DeficiencyNames(totals DailyTotals) []string {
	names := []string{}
	type floor struct {
		nutrient    string
		value       float64
		recommended float64
	}
	for _, f := range []floor{
		{"Protein", totals.Protein, minProteinG},
		{"Fiber", totals.Fiber, minFiberG},
		{"Vitamin C", totals.VitaminC, minVitaminC},
		{"Vitamin D", totals.VitaminD, minVitaminD},
		{"Calcium", totals.Calcium, minCalciumMg},
		{"Iron", totals.Iron, minIronMg},
	} {
		if f.value < f.recommended {
			names = append(names, f.nutrient)
		}
	}
	return names
}
