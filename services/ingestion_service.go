package services

import (
	"context"
	"time"

	"github.com/olivierjeannette/skaliProgV1-sub009/models"
	"github.com/olivierjeannette/skaliProgV1-sub009/utils"

	"go.uber.org/zap"
)

// RecognizedFood is one food after both pipeline stages: the required
// primary macros from recognition, plus whatever secondary nutrients
// enrichment managed to find.
type RecognizedFood struct {
	Name      string
	QuantityG float64
	Calories  float64
	Protein   float64
	Carbs     float64
	Fats      float64

	FiberG     float64
	SugarG     float64
	SodiumMg   float64
	VitaminA   float64
	VitaminC   float64
	VitaminD   float64
	CalciumMg  float64
	IronMg     float64
	NutriScore *string
	Additives  []string
}

// IngestionService runs the photo-to-ledger pipeline: normalize the
// image, recognize foods, decorate them with secondary nutrients, and
// append a single grouped entry. Nothing is persisted until a
// complete, validated result is in hand, so an abandoned upload leaves
// no half-written state.
type IngestionService struct {
	vision *VisionService
	enrich *EnrichmentService
	logSvc *FoodLogService
	hub    *RealtimeHub
	log    *zap.SugaredLogger
	now    func() time.Time
}

func NewIngestionService(vision *VisionService, enrich *EnrichmentService, logSvc *FoodLogService, hub *RealtimeHub, log *zap.SugaredLogger) *IngestionService {
	return &IngestionService{
		vision: vision,
		enrich: enrich,
		logSvc: logSvc,
		hub:    hub,
		log:    log,
		now:    time.Now,
	}
}

// LogMealFromPhoto analyzes a meal photo and appends the grouped entry
// to the member's ledger for today.
//
// Failure contract: a photo that cannot be decoded or a recognition
// failure surfaces to the caller with no ledger write; enrichment
// being unavailable degrades to logging the meal with primary macros
// only.
func (s *IngestionService) LogMealFromPhoto(ctx context.Context, memberID uint, photo []byte) (*models.FoodLogEntry, error) {
	processed, err := utils.PreprocessImage(photo)
	if err != nil {
		return nil, err
	}

	candidates, err := s.vision.AnalyzeMeal(ctx, processed.Data)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, utils.ErrNothingRecognized
	}

	foods := make([]RecognizedFood, 0, len(candidates))
	for _, c := range candidates {
		f := RecognizedFood{
			Name:      c.Name,
			QuantityG: c.QuantityG,
			Calories:  c.Calories,
			Protein:   c.Protein,
			Carbs:     c.Carbs,
			Fats:      c.Fats,
		}
		e, _ := s.enrich.Lookup(ctx, c.Name, c.QuantityG)
		if e != nil {
			f.FiberG = e.FiberG
			f.SugarG = e.SugarG
			f.SodiumMg = e.SodiumMg
			f.VitaminA = e.VitaminA
			f.VitaminC = e.VitaminC
			f.VitaminD = e.VitaminD
			f.CalciumMg = e.CalciumMg
			f.IronMg = e.IronMg
			f.NutriScore = e.NutriScore
			f.Additives = e.Additives
		} else {
			s.log.Debugw("enrichment miss", "food", c.Name)
		}
		foods = append(foods, f)
	}

	entry, err := BuildGroupedEntry(memberID, s.now(), foods)
	if err != nil {
		return nil, err
	}
	if err := s.logSvc.Append(entry); err != nil {
		return nil, err
	}

	s.log.Infow("meal logged", "member_id", memberID, "entry_id", entry.ID, "foods", len(foods))
	if s.hub != nil {
		s.hub.Broadcast(memberID, map[string]any{
			"kind": "meal.logged",
			"meal": entry,
		})
	}
	return entry, nil
}
