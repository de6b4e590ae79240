package controllers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/olivierjeannette/skaliProgV1-sub009/controllers"
	"github.com/olivierjeannette/skaliProgV1-sub009/models"
	"github.com/olivierjeannette/skaliProgV1-sub009/routes"
	"github.com/olivierjeannette/skaliProgV1-sub009/services"
)

func zapNop() *zap.SugaredLogger { return zap.NewNop().Sugar() }

func setupAPI(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")

	dsn := "file:api_" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(
		&models.Member{},
		&models.FoodLogEntry{},
		&models.WeightSample{},
		&models.NutritionHistory{},
	))

	hub := services.NewRealtimeHub()
	logSvc := services.NewFoodLogService(db)
	ingest := services.NewIngestionService(services.NewVisionService(), services.NewEnrichmentService(), logSvc, hub, zapNop())
	agg := services.NewAggregationService(logSvc)
	archive := services.NewArchiveService(db, logSvc, hub, zapNop())
	weights := services.NewWeightService(db)

	r := routes.SetupRouter(
		controllers.NewMealController(ingest, logSvc),
		controllers.NewTrackerController(agg, archive, weights),
		controllers.NewWeightController(weights),
		controllers.NewRealtimeController(hub),
	)
	return r, db
}

func memberToken(t *testing.T, memberID uint) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"memberId": memberID,
		"exp":      time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	assert.NoError(t, err)
	return token
}

func doRequest(t *testing.T, r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	r, _ := setupAPI(t)

	w := doRequest(t, r, "GET", "/portal/nutrition/meals", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(t, r, "GET", "/portal/nutrition/meals", "garbage-token", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestManualMealRoundTrip(t *testing.T) {
	r, _ := setupAPI(t)
	token := memberToken(t, 1)

	w := doRequest(t, r, "POST", "/portal/nutrition/meals", token,
		`{"food_name":"overnight oats","calories":380,"protein":13,"carbs":58,"fats":9}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	var created models.FoodLogEntry
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)

	w = doRequest(t, r, "GET", "/portal/nutrition/meals", token, "")
	assert.Equal(t, http.StatusOK, w.Code)
	var entries []models.FoodLogEntry
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	assert.Len(t, entries, 1)

	// other members cannot see or delete it
	other := memberToken(t, 2)
	w = doRequest(t, r, "GET", "/portal/nutrition/meals", other, "")
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
	w = doRequest(t, r, "DELETE", "/portal/nutrition/meals/"+created.ID, other, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, r, "DELETE", "/portal/nutrition/meals/"+created.ID, token, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestManualMealValidation(t *testing.T) {
	r, _ := setupAPI(t)
	token := memberToken(t, 1)

	w := doRequest(t, r, "POST", "/portal/nutrition/meals", token, `{"food_name":"  ","calories":100}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, r, "POST", "/portal/nutrition/meals", token, `{"food_name":"oats","date":"not-a-date"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTotalsAndAnalysis(t *testing.T) {
	r, _ := setupAPI(t)
	token := memberToken(t, 1)

	// empty day: zero totals, no analysis content
	w := doRequest(t, r, "GET", "/portal/nutrition/totals", token, "")
	assert.Equal(t, http.StatusOK, w.Code)
	var totals services.DailyTotals
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &totals))
	assert.Zero(t, totals.MealsCount)

	w = doRequest(t, r, "GET", "/portal/nutrition/analysis", token, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	doRequest(t, r, "POST", "/portal/nutrition/meals", token,
		`{"food_name":"lunch","calories":600,"protein":40,"carbs":50,"fats":20}`)

	w = doRequest(t, r, "GET", "/portal/nutrition/totals", token, "")
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &totals))
	assert.Equal(t, 600.0, totals.Calories)
	assert.Equal(t, 40.0, totals.Protein)
	assert.Equal(t, 50.0, totals.Carbs)
	assert.Equal(t, 20.0, totals.Fats)
	assert.Equal(t, 1, totals.MealsCount)

	w = doRequest(t, r, "GET", "/portal/nutrition/analysis", token, "")
	assert.Equal(t, http.StatusOK, w.Code)
	var analysis services.HealthAnalysis
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &analysis))
	assert.GreaterOrEqual(t, analysis.Score, 0)
	assert.LessOrEqual(t, analysis.Score, 100)

	w = doRequest(t, r, "GET", "/portal/nutrition/totals?date=31-12-2026", token, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPhotoEndpointRejectsBadImage(t *testing.T) {
	r, _ := setupAPI(t)
	token := memberToken(t, 1)

	w := doRequest(t, r, "POST", "/portal/nutrition/meals/photo", token, `{"image":"!!!not-base64!!!"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// valid base64, not an image: decode failure maps to 400
	w = doRequest(t, r, "POST", "/portal/nutrition/meals/photo", token, `{"image":"aGVsbG8gd29ybGQ="}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, r, "POST", "/portal/nutrition/meals/photo", token, `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWeightEndpoints(t *testing.T) {
	r, _ := setupAPI(t)
	token := memberToken(t, 1)

	w := doRequest(t, r, "POST", "/portal/nutrition/weights", token, `{"weight_kg":82.4,"date":"2026-03-08"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	// out of plausible range
	w = doRequest(t, r, "POST", "/portal/nutrition/weights", token, `{"weight_kg":500}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, r, "GET", "/portal/nutrition/weights", token, "")
	assert.Equal(t, http.StatusOK, w.Code)
	var samples []models.WeightSample
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &samples))
	assert.Len(t, samples, 1)

	w = doRequest(t, r, "DELETE", "/portal/nutrition/weights/2026-03-08", token, "")
	assert.Equal(t, http.StatusOK, w.Code)
	w = doRequest(t, r, "DELETE", "/portal/nutrition/weights/2026-03-08", token, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTargetsEndpoint(t *testing.T) {
	r, db := setupAPI(t)

	// member 1 exists, member 99 does not
	birth := time.Date(1998, 3, 10, 0, 0, 0, 0, time.Local)
	assert.NoError(t, db.Create(&models.Member{Name: "M", WeightKg: 80, HeightCm: 180, BirthDate: &birth, Sex: "male"}).Error)

	w := doRequest(t, r, "GET", "/portal/nutrition/targets", memberToken(t, 1), "")
	assert.Equal(t, http.StatusOK, w.Code)
	var targets map[string]any
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &targets))
	assert.Contains(t, targets, "resting")
	assert.Contains(t, targets, "active")
	assert.Contains(t, targets, "active_with_exercise")

	w = doRequest(t, r, "GET", "/portal/nutrition/targets", memberToken(t, 99), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHistoryEndpoint(t *testing.T) {
	r, _ := setupAPI(t)
	token := memberToken(t, 1)

	w := doRequest(t, r, "GET", "/portal/nutrition/history", token, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))

	w = doRequest(t, r, "GET", "/portal/nutrition/history?limit=abc", token, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
