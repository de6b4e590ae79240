package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/olivierjeannette/skaliProgV1-sub009/utils"
)

// respondError maps service errors onto HTTP statuses so handlers
// don't repeat the same switch.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, utils.ErrValidation), errors.Is(err, utils.ErrImageDecode):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, utils.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, utils.ErrNothingRecognized):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, utils.ErrRecognitionService):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// dayParam reads the optional ?date=YYYY-MM-DD query, defaulting to today.
// A malformed date writes a 400 and returns ok=false.
func dayParam(c *gin.Context) (time.Time, bool) {
	raw := c.Query("date")
	if raw == "" {
		return utils.DayStart(time.Now()), true
	}
	day, err := utils.ParseDayKey(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return time.Time{}, false
	}
	return day, true
}
