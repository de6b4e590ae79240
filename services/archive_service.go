package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/olivierjeannette/skaliProgV1-sub009/models"
	"github.com/olivierjeannette/skaliProgV1-sub009/utils"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ArchiveService turns elapsed ledger days into permanent
// NutritionHistory rows. Archival only ever touches days strictly in
// the past, so it never races the live day's appends; the only race
// left, two scheduler instances archiving the same day, is settled
// by the insert-if-absent on (member_id, date).
type ArchiveService struct {
	db     *gorm.DB
	logSvc *FoodLogService
	hub    *RealtimeHub
	log    *zap.SugaredLogger

	mu            sync.Mutex
	lastProcessed map[uint]time.Time // latest archived-or-checked date per member
}

func NewArchiveService(db *gorm.DB, logSvc *FoodLogService, hub *RealtimeHub, log *zap.SugaredLogger) *ArchiveService {
	return &ArchiveService{
		db:            db,
		logSvc:        logSvc,
		hub:           hub,
		log:           log,
		lastProcessed: make(map[uint]time.Time),
	}
}

// dueDates lists the elapsed calendar days after lastProcessed and
// strictly before today. Pure so the scheduler's time behavior is
// testable without sleeping.
func dueDates(now, lastProcessed time.Time) []time.Time {
	today := utils.DayStart(now)
	var due []time.Time
	for d := utils.DayStart(lastProcessed).AddDate(0, 0, 1); d.Before(today); d = d.AddDate(0, 0, 1) {
		due = append(due, d)
	}
	return due
}

// seedLastProcessed establishes the starting point for a member not
// yet tracked in memory: the latest archive row if one exists,
// otherwise the day before their earliest ledger entry, otherwise
// yesterday (nothing to catch up on).
func (s *ArchiveService) seedLastProcessed(memberID uint, now time.Time) (time.Time, error) {
	var h models.NutritionHistory
	err := s.db.
		Where("member_id = ?", memberID).
		Order("date DESC").
		First(&h).Error
	if err == nil {
		return utils.DayStart(h.Date), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return time.Time{}, err
	}

	earliest, err := s.logSvc.EarliestEntryDate(memberID)
	if err == nil {
		return utils.DayStart(earliest).AddDate(0, 0, -1), nil
	}
	if !errors.Is(err, utils.ErrNotFound) {
		return time.Time{}, err
	}
	return utils.DayStart(now).AddDate(0, 0, -1), nil
}

// RunOnce performs one scheduler pass: for every member with ledger
// rows, archive each elapsed day not yet processed. Failures are
// logged and the member's cursor is left in place so the next pass
// retries.
func (s *ArchiveService) RunOnce(now time.Time) {
	memberIDs, err := s.logSvc.MemberIDsWithEntries()
	if err != nil {
		s.log.Errorw("archive pass: listing members failed", "error", err)
		return
	}

	for _, memberID := range memberIDs {
		s.mu.Lock()
		last, ok := s.lastProcessed[memberID]
		s.mu.Unlock()
		if !ok {
			last, err = s.seedLastProcessed(memberID, now)
			if err != nil {
				s.log.Errorw("archive pass: seeding cursor failed", "member_id", memberID, "error", err)
				continue
			}
		}

		for _, date := range dueDates(now, last) {
			if err := s.ArchiveDay(memberID, date); err != nil {
				s.log.Errorw("archival failed, will retry next pass",
					"member_id", memberID, "date", utils.DayKey(date), "error", err)
				break // keep cursor before the failed date
			}
			last = date
		}

		s.mu.Lock()
		s.lastProcessed[memberID] = last
		s.mu.Unlock()
	}
}

// ArchiveDay snapshots one elapsed day into permanent history. A day
// with no ledger rows is skipped (no archive row) but still counts as
// processed. A duplicate-key conflict means another pass already
// archived the day and is treated as success.
func (s *ArchiveService) ArchiveDay(memberID uint, date time.Time) error {
	entries, err := s.logSvc.ListDay(memberID, date)
	if err != nil {
		return fmt.Errorf("%w: reading ledger: %v", utils.ErrArchivalStorage, err)
	}
	if len(entries) == 0 {
		return nil
	}

	totals := SumEntries(entries)

	deficiencies, err := json.Marshal(DeficiencyNames(totals))
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrArchivalStorage, err)
	}
	snapshot, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrArchivalStorage, err)
	}

	h := models.NutritionHistory{
		MemberID:      memberID,
		Date:          utils.DayStart(date),
		TotalCalories: totals.Calories,
		TotalProtein:  totals.Protein,
		TotalCarbs:    totals.Carbs,
		TotalFats:     totals.Fats,
		TotalFiber:    totals.Fiber,
		Deficiencies:  datatypes.JSON(deficiencies),
		MealsCount:    totals.MealsCount,
		MealsData:     datatypes.JSON(snapshot),
	}

	res := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "member_id"}, {Name: "date"}},
		DoNothing: true,
	}).Create(&h)
	if res.Error != nil {
		return fmt.Errorf("%w: %v", utils.ErrArchivalStorage, res.Error)
	}
	if res.RowsAffected == 0 {
		// another scheduler instance won the insert
		s.log.Infow("day already archived", "member_id", memberID, "date", utils.DayKey(date))
		return nil
	}

	s.log.Infow("day archived",
		"member_id", memberID, "date", utils.DayKey(date), "meals", totals.MealsCount)
	if s.hub != nil {
		s.hub.Broadcast(memberID, map[string]any{
			"kind": "day.archived",
			"date": utils.DayKey(date),
		})
	}
	return nil
}

// History returns the member's archived days, newest first.
func (s *ArchiveService) History(memberID uint, limit int) ([]models.NutritionHistory, error) {
	if limit <= 0 {
		limit = 30
	}
	history := []models.NutritionHistory{}
	err := s.db.
		Where("member_id = ?", memberID).
		Order("date DESC").
		Limit(limit).
		Find(&history).Error
	return history, err
}

// Scheduler drives the archive check off wall-clock time: a
// low-frequency ticker compares the current date against each
// member's cursor. The clock is injected so tests can advance time.
type Scheduler struct {
	archive  *ArchiveService
	interval time.Duration
	now      func() time.Time

	stop chan struct{}
	wg   sync.WaitGroup
}

func NewScheduler(archive *ArchiveService, interval time.Duration, now func() time.Time) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	if now == nil {
		now = time.Now
	}
	return &Scheduler{
		archive:  archive,
		interval: interval,
		now:      now,
		stop:     make(chan struct{}),
	}
}

func (s *Scheduler) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		t := time.NewTicker(s.interval)
		defer t.Stop()
		for {
			select {
			case <-s.stop:
				return
			case <-t.C:
				s.archive.RunOnce(s.now())
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	close(s.stop)
	s.wg.Wait()
}
