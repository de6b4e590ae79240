package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/olivierjeannette/skaliProgV1-sub009/services"
)

type TrackerController struct {
	Agg     *services.AggregationService
	Archive *services.ArchiveService
	Weights *services.WeightService
}

func NewTrackerController(agg *services.AggregationService, archive *services.ArchiveService, weights *services.WeightService) *TrackerController {
	return &TrackerController{Agg: agg, Archive: archive, Weights: weights}
}

// GetTotals returns running nutrient totals for one day (default today).
func (tc *TrackerController) GetTotals(c *gin.Context) {
	day, ok := dayParam(c)
	if !ok {
		return
	}
	totals, err := tc.Agg.TotalsForDay(c.GetUint("memberID"), day)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, totals)
}

// GetAnalysis returns the health analysis for one day. A day with no
// meals has no analysis and answers 204.
func (tc *TrackerController) GetAnalysis(c *gin.Context) {
	day, ok := dayParam(c)
	if !ok {
		return
	}
	analysis, err := tc.Agg.AnalysisForDay(c.GetUint("memberID"), day)
	if err != nil {
		respondError(c, err)
		return
	}
	if analysis == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, analysis)
}

// GetTargets returns the member's calorie targets at the three
// activity levels.
func (tc *TrackerController) GetTargets(c *gin.Context) {
	targets, err := tc.Weights.CalorieTargets(c.GetUint("memberID"), time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, targets)
}

// GetHistory returns archived day summaries, newest first.
func (tc *TrackerController) GetHistory(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}
	history, err := tc.Archive.History(c.GetUint("memberID"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}
