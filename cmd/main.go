package main

import (
	"time"

	"github.com/olivierjeannette/skaliProgV1-sub009/config"
	"github.com/olivierjeannette/skaliProgV1-sub009/controllers"
	"github.com/olivierjeannette/skaliProgV1-sub009/routes"
	"github.com/olivierjeannette/skaliProgV1-sub009/services"
)

func main() {
	config.InitLogger()
	config.InitDB()

	hub := services.NewRealtimeHub()

	logSvc := services.NewFoodLogService(config.DB)
	vision := services.NewVisionService()
	enrich := services.NewEnrichmentService()
	ingest := services.NewIngestionService(vision, enrich, logSvc, hub, config.Log)
	agg := services.NewAggregationService(logSvc)
	archive := services.NewArchiveService(config.DB, logSvc, hub, config.Log)
	weights := services.NewWeightService(config.DB)

	// the archiver wakes up every minute and catches up any days that
	// crossed midnight, including after downtime
	scheduler := services.NewScheduler(archive, time.Minute, time.Now)
	scheduler.Start()
	defer scheduler.Stop()

	r := routes.SetupRouter(
		controllers.NewMealController(ingest, logSvc),
		controllers.NewTrackerController(agg, archive, weights),
		controllers.NewWeightController(weights),
		controllers.NewRealtimeController(hub),
	)

	if err := r.Run(":" + config.GetEnv("PORT", "8080")); err != nil {
		config.Log.Fatalw("server exited", "error", err)
	}
}
