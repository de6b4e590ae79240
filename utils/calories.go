package utils

import (
	"math"
	"time"
)

// Population-average fallbacks used when a member's record is missing
// biometric fields. Targets are advisory, so missing data degrades to
// a generic estimate instead of an error.
const (
	DefaultWeightKg = 70
	DefaultHeightCm = 170
	DefaultAgeYears = 30
	DefaultSex      = "male"
)

// Daily increments over the basal rate: ordinary non-exercise movement
// (~10k steps) and an average training session.
const (
	neatIncrement     = 350
	exerciseIncrement = 500
)

// CalorieTargets holds the three daily tiers a member can pick as
// their goal: resting (BMR), active (BMR + daily movement), and
// active with a workout on top.
type CalorieTargets struct {
	Resting            int  `json:"resting"`
	Active             int  `json:"active"`
	ActiveWithExercise int  `json:"active_with_exercise"`
	DefaultsUsed       bool `json:"defaults_used"`
}

// ComputeCalorieTargets estimates the three calorie tiers from
// biometrics using the Mifflin-St Jeor basal rate. Zero or missing
// fields are substituted with population averages and flagged via
// DefaultsUsed rather than rejected.
func ComputeCalorieTargets(weightKg, heightCm float64, ageYears int, sex string) CalorieTargets {
	defaults := false
	if weightKg <= 0 {
		weightKg = DefaultWeightKg
		defaults = true
	}
	if heightCm <= 0 {
		heightCm = DefaultHeightCm
		defaults = true
	}
	if ageYears <= 0 {
		ageYears = DefaultAgeYears
		defaults = true
	}
	if sex != "male" && sex != "female" {
		sex = DefaultSex
		defaults = true
	}

	bmr := 10*weightKg + 6.25*heightCm - 5*float64(ageYears)
	if sex == "male" {
		bmr += 5
	} else {
		bmr -= 161
	}

	resting := int(math.Round(bmr))
	return CalorieTargets{
		Resting:            resting,
		Active:             resting + neatIncrement,
		ActiveWithExercise: resting + neatIncrement + exerciseIncrement,
		DefaultsUsed:       defaults,
	}
}

// AgeFromBirthDate returns whole years between birthDate and now,
// corrected for whether the birthday has passed this year.
func AgeFromBirthDate(birthDate, now time.Time) int {
	age := now.Year() - birthDate.Year()
	if now.Month() < birthDate.Month() ||
		(now.Month() == birthDate.Month() && now.Day() < birthDate.Day()) {
		age--
	}
	return age
}
