package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/olivierjeannette/skaliProgV1-sub009/controllers"
	"github.com/olivierjeannette/skaliProgV1-sub009/middlewares"
)

// SetupRouter wires the nutrition module under /portal/nutrition. Every
// route sits behind the portal session token.
func SetupRouter(
	meals *controllers.MealController,
	tracker *controllers.TrackerController,
	weights *controllers.WeightController,
	realtime *controllers.RealtimeController,
) *gin.Engine {
	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	nutrition := r.Group("/portal/nutrition")
	nutrition.Use(middlewares.AuthMiddleware())
	{
		nutrition.POST("/meals/photo", meals.LogMealPhoto)
		nutrition.POST("/meals", meals.AddMeal)
		nutrition.GET("/meals", meals.ListMeals)
		nutrition.DELETE("/meals/:id", meals.DeleteMeal)

		nutrition.GET("/totals", tracker.GetTotals)
		nutrition.GET("/analysis", tracker.GetAnalysis)
		nutrition.GET("/targets", tracker.GetTargets)
		nutrition.GET("/history", tracker.GetHistory)

		nutrition.POST("/weights", weights.AddWeight)
		nutrition.GET("/weights", weights.ListWeights)
		nutrition.DELETE("/weights/:date", weights.DeleteWeight)

		nutrition.GET("/live", realtime.LiveWS)
	}

	return r
}
