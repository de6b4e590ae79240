package controllers

import (
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/olivierjeannette/skaliProgV1-sub009/models"
	"github.com/olivierjeannette/skaliProgV1-sub009/services"
	"github.com/olivierjeannette/skaliProgV1-sub009/utils"
)

type MealController struct {
	Ingest *services.IngestionService
	Logs   *services.FoodLogService
}

func NewMealController(ingest *services.IngestionService, logs *services.FoodLogService) *MealController {
	return &MealController{Ingest: ingest, Logs: logs}
}

// LogMealPhoto accepts a base64 meal photo and runs the full
// recognition and enrichment pipeline.
func (mc *MealController) LogMealPhoto(c *gin.Context) {
	var body struct {
		Image string `json:"image" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	raw := body.Image
	// data URIs from browser canvases carry a "data:image/...;base64," prefix
	if i := strings.Index(raw, ","); i >= 0 && strings.HasPrefix(raw, "data:") {
		raw = raw[i+1:]
	}
	photo, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image must be valid base64"})
		return
	}

	entry, err := mc.Ingest.LogMealFromPhoto(c.Request.Context(), c.GetUint("memberID"), photo)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// AddMeal logs a meal the member typed in by hand.
func (mc *MealController) AddMeal(c *gin.Context) {
	var body struct {
		FoodName string  `json:"food_name"`
		Date     string  `json:"date"`
		Calories float64 `json:"calories"`
		Protein  float64 `json:"protein"`
		Carbs    float64 `json:"carbs"`
		Fats     float64 `json:"fats"`
		Fiber    float64 `json:"fiber"`
		Sugar    float64 `json:"sugar"`
		Sodium   float64 `json:"sodium"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date := time.Now()
	if body.Date != "" {
		var err error
		date, err = utils.ParseDayKey(body.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
	}

	entry := &models.FoodLogEntry{
		FoodName: body.FoodName,
		Calories: body.Calories,
		Protein:  body.Protein,
		Carbs:    body.Carbs,
		Fats:     body.Fats,
		Fiber:    body.Fiber,
		Sugar:    body.Sugar,
		Sodium:   body.Sodium,
	}
	if err := mc.Logs.AddManualEntry(c.GetUint("memberID"), date, entry); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// ListMeals returns the ledger for one calendar day (default today).
func (mc *MealController) ListMeals(c *gin.Context) {
	day, ok := dayParam(c)
	if !ok {
		return
	}
	entries, err := mc.Logs.ListDay(c.GetUint("memberID"), day)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (mc *MealController) DeleteMeal(c *gin.Context) {
	if err := mc.Logs.Delete(c.GetUint("memberID"), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
