package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/olivierjeannette/skaliProgV1-sub009/models"
	"github.com/olivierjeannette/skaliProgV1-sub009/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Plausibility bounds for a body-weight sample.
const (
	minWeightKg = 30
	maxWeightKg = 200
)

// WeightService owns the body-weight time series and, because the
// freshest sample feeds the calorie-target calculation, resolves the
// member's calorie tiers.
type WeightService struct {
	db *gorm.DB
}

func NewWeightService(db *gorm.DB) *WeightService {
	return &WeightService{db: db}
}

// Upsert records a weight for a date. A sample already present for
// (member, date) is overwritten, never duplicated.
func (s *WeightService) Upsert(memberID uint, date time.Time, weightKg float64) error {
	if weightKg < minWeightKg || weightKg > maxWeightKg {
		return fmt.Errorf("%w: weight must be between %d and %d kg", utils.ErrValidation, minWeightKg, maxWeightKg)
	}

	sample := models.WeightSample{
		MemberID: memberID,
		Date:     utils.DayStart(date),
		WeightKg: weightKg,
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "member_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"weight_kg", "updated_at"}),
	}).Create(&sample).Error
}

// List returns the member's samples oldest first, the order the weight
// chart wants.
func (s *WeightService) List(memberID uint) ([]models.WeightSample, error) {
	samples := []models.WeightSample{}
	err := s.db.
		Where("member_id = ?", memberID).
		Order("date ASC").
		Find(&samples).Error
	return samples, err
}

func (s *WeightService) Delete(memberID uint, date time.Time) error {
	res := s.db.
		Where("member_id = ? AND date = ?", memberID, utils.DayStart(date)).
		Delete(&models.WeightSample{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

// latestWeight returns the most recent sample, or 0 when none exist.
func (s *WeightService) latestWeight(memberID uint) float64 {
	var sample models.WeightSample
	err := s.db.
		Where("member_id = ?", memberID).
		Order("date DESC").
		First(&sample).Error
	if err != nil {
		return 0
	}
	return sample.WeightKg
}

// CalorieTargets computes the member's three daily tiers from their
// biometrics, preferring the latest tracked weight over the roster
// weight. Missing biometric fields fall back to population defaults
// (flagged in the result) instead of failing; targets are advisory.
func (s *WeightService) CalorieTargets(memberID uint, now time.Time) (utils.CalorieTargets, error) {
	var member models.Member
	if err := s.db.First(&member, memberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.CalorieTargets{}, utils.ErrNotFound
		}
		return utils.CalorieTargets{}, err
	}

	weight := member.WeightKg
	if w := s.latestWeight(memberID); w > 0 {
		weight = w
	}

	age := 0
	if member.BirthDate != nil {
		age = utils.AgeFromBirthDate(*member.BirthDate, now)
	}

	return utils.ComputeCalorieTargets(weight, member.HeightCm, age, member.Sex), nil
}
