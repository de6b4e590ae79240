package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/olivierjeannette/skaliProgV1-sub009/models"
	"github.com/olivierjeannette/skaliProgV1-sub009/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// FoodLogService owns the live ledger: the append-only per-day meal
// rows that the rest of the pipeline aggregates over.
type FoodLogService struct {
	db *gorm.DB
}

func NewFoodLogService(db *gorm.DB) *FoodLogService {
	return &FoodLogService{db: db}
}

var quantitySuffix = regexp.MustCompile(`\s*\(\d+g\)`)

// BuildGroupedEntry folds the foods recognized on one photo into a
// single ledger row: names joined into the label, nutrients summed,
// best nutri-score kept. One row per photo is the product behavior:
// the member deletes the meal they photographed, not its parts.
func BuildGroupedEntry(memberID uint, date time.Time, foods []RecognizedFood) (*models.FoodLogEntry, error) {
	if len(foods) == 0 {
		return nil, utils.ErrNothingRecognized
	}

	names := make([]string, 0, len(foods))
	additives := map[string]struct{}{}
	var bestScore *string

	entry := &models.FoodLogEntry{
		MemberID: memberID,
		Date:     utils.DayStart(date),
	}

	for _, f := range foods {
		names = append(names, quantitySuffix.ReplaceAllString(f.Name, ""))

		entry.Calories += f.Calories
		entry.Protein += f.Protein
		entry.Carbs += f.Carbs
		entry.Fats += f.Fats
		entry.Fiber += f.FiberG
		entry.Sugar += f.SugarG
		entry.Sodium += f.SodiumMg
		entry.VitaminA += f.VitaminA
		entry.VitaminC += f.VitaminC
		entry.VitaminD += f.VitaminD
		entry.Calcium += f.CalciumMg
		entry.Iron += f.IronMg

		for _, a := range f.Additives {
			additives[a] = struct{}{}
		}
		// A < B < ... < E, so the lexicographically smallest wins
		if f.NutriScore != nil && (bestScore == nil || *f.NutriScore < *bestScore) {
			s := *f.NutriScore
			bestScore = &s
		}
	}

	entry.FoodName = "📸 " + strings.Join(names, ", ")
	entry.Calories = math.Round(entry.Calories)
	entry.Protein = utils.Round1(entry.Protein)
	entry.Carbs = utils.Round1(entry.Carbs)
	entry.Fats = utils.Round1(entry.Fats)
	entry.Fiber = utils.Round1(entry.Fiber)
	entry.Sugar = utils.Round1(entry.Sugar)
	entry.Sodium = utils.Round1(entry.Sodium)
	entry.VitaminA = utils.Round1(entry.VitaminA)
	entry.VitaminC = utils.Round1(entry.VitaminC)
	entry.VitaminD = utils.Round1(entry.VitaminD)
	entry.Calcium = utils.Round1(entry.Calcium)
	entry.Iron = utils.Round1(entry.Iron)
	entry.NutriScore = bestScore

	if len(additives) > 0 {
		codes := make([]string, 0, len(additives))
		for a := range additives {
			codes = append(codes, a)
		}
		b, err := json.Marshal(codes)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal additives: %w", err)
		}
		entry.Additives = datatypes.JSON(b)
	}

	return entry, nil
}

func (s *FoodLogService) Append(entry *models.FoodLogEntry) error {
	return s.db.Create(entry).Error
}

// AddManualEntry logs a meal the member typed in rather than
// photographed. Primary macros are required; the rest defaults to 0.
func (s *FoodLogService) AddManualEntry(memberID uint, date time.Time, entry *models.FoodLogEntry) error {
	if strings.TrimSpace(entry.FoodName) == "" {
		return fmt.Errorf("%w: food_name is required", utils.ErrValidation)
	}
	if entry.Calories < 0 || entry.Protein < 0 || entry.Carbs < 0 || entry.Fats < 0 {
		return fmt.Errorf("%w: nutrient values must not be negative", utils.ErrValidation)
	}
	entry.MemberID = memberID
	entry.Date = utils.DayStart(date)
	return s.db.Create(entry).Error
}

// ListDay returns the ledger rows for one member and calendar day,
// newest first.
func (s *FoodLogService) ListDay(memberID uint, date time.Time) ([]models.FoodLogEntry, error) {
	entries := []models.FoodLogEntry{}
	err := s.db.
		Where("member_id = ? AND date = ?", memberID, utils.DayStart(date)).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}

// Delete removes one ledger entry, scoped to the owning member.
func (s *FoodLogService) Delete(memberID uint, entryID string) error {
	res := s.db.
		Where("id = ? AND member_id = ?", entryID, memberID).
		Delete(&models.FoodLogEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

// MemberIDsWithEntries lists every member that has at least one row in
// the live ledger; the archiver iterates over these.
func (s *FoodLogService) MemberIDsWithEntries() ([]uint, error) {
	var ids []uint
	err := s.db.
		Model(&models.FoodLogEntry{}).
		Distinct("member_id").
		Pluck("member_id", &ids).Error
	return ids, err
}

// EarliestEntryDate returns the oldest ledger date for a member, or
// ErrNotFound when the ledger is empty.
func (s *FoodLogService) EarliestEntryDate(memberID uint) (time.Time, error) {
	var entry models.FoodLogEntry
	err := s.db.
		Where("member_id = ?", memberID).
		Order("date ASC").
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return time.Time{}, utils.ErrNotFound
	}
	if err != nil {
		return time.Time{}, err
	}
	return entry.Date, nil
}
