package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/olivierjeannette/skaliProgV1-sub009/services"
	"github.com/olivierjeannette/skaliProgV1-sub009/utils"
)

type WeightController struct {
	Weights *services.WeightService
}

func NewWeightController(weights *services.WeightService) *WeightController {
	return &WeightController{Weights: weights}
}

// AddWeight records (or overwrites) the member's weight for a day.
func (wc *WeightController) AddWeight(c *gin.Context) {
	var body struct {
		WeightKg float64 `json:"weight_kg" binding:"required"`
		Date     string  `json:"date"`
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

	if err := wc.Weights.Upsert(c.GetUint("memberID"), date, body.WeightKg); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"date":      utils.DayKey(date),
		"weight_kg": body.WeightKg,
	})
}

// ListWeights returns the member's weight samples in date order.
func (wc *WeightController) ListWeights(c *gin.Context) {
	samples, err := wc.Weights.List(c.GetUint("memberID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, samples)
}

func (wc *WeightController) DeleteWeight(c *gin.Context) {
	date, err := utils.ParseDayKey(c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	if err := wc.Weights.Delete(c.GetUint("memberID"), date); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
