package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	fiberSwagger "github.com/swaggo/fiber-swagger"

	"bot-analytics-service/internal/config"
	eventsHttp "bot-analytics-service/internal/events/adapters/http/fiber"
	eventsRepoPg "bot-analytics-service/internal/events/adapters/postgres"
	eventsUsecase "bot-analytics-service/internal/events/core/usecase"
	metricsHttp "bot-analytics-service/internal/metrics/adapters/http/fiber"
	metricsRepoPg "bot-analytics-service/internal/metrics/adapters/postgres"
	metricsUsecase "bot-analytics-service/internal/metrics/core/usecase"
	rollupRepoPg "bot-analytics-service/internal/rollup/adapters/postgres"
	rollupUsecase "bot-analytics-service/internal/rollup/core/usecase"

	_ "bot-analytics-service/docs"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	db, err := sql.Open("postgres", cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("open postgres")
	}
	defer db.Close()

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("ping postgres")
	}

	// Adapter-level DB wrappers
	eventsDB := eventsRepoPg.NewSQLDB(db)
	rollupDB := rollupRepoPg.NewSQLDB(db)
	metricsDB := metricsRepoPg.NewSQLDB(db)

	// Repositories
	eventRepository := eventsRepoPg.NewEventRepository(eventsDB)
	eventSource := rollupRepoPg.NewEventSource(rollupDB)
	aggregateStore := rollupRepoPg.NewAggregateStore(rollupDB)
	metricsRepository := metricsRepoPg.NewMetricsRepository(metricsDB)

	// Usecases
	recordEventUC := eventsUsecase.NewRecordEventUseCase(eventRepository)
	rollupUC := rollupUsecase.NewRollupUseCase(eventSource, aggregateStore)
	metricsUC := metricsUsecase.NewMetricsUseCase(metricsRepository, metricsRepository, metricsUsecase.Config{
		HumanCostPerMessage: cfg.HumanCostPerMessage,
		CostModelWindowDays: cfg.CostModelWindowDays,
	})

	// HTTP (Fiber) app + handlers
	app := fiber.New()

	eventsHandler := eventsHttp.NewEventHandler(recordEventUC)
	app.Post("/events", eventsHandler.RecordEvent)
	app.Post("/events/bulk", eventsHandler.BulkRecordEvents)

	metricsHandler := metricsHttp.NewMetricsHandler(metricsUC, rollupUC)
	app.Get("/metrics/overview", metricsHandler.GetOverview)
	app.Get("/metrics/trends", metricsHandler.GetTrends)
	app.Get("/metrics/channels", metricsHandler.GetChannels)
	app.Get("/metrics/peak-hours", metricsHandler.GetPeakHours)
	app.Get("/metrics/costs", metricsHandler.GetCosts)
	app.Get("/metrics/usage", metricsHandler.GetUsage)
	app.Get("/metrics/export", metricsHandler.ExportMetrics)
	app.Post("/jobs/rollup", metricsHandler.TriggerRollup)

	// Swagger
	app.Get("/docs/*", fiberSwagger.WrapHandler)

	// Graceful shutdown
	go func() {
		if err := app.Listen(cfg.HTTPAddr); err != nil {
			log.Error().Err(err).Msg("fiber stopped")
		}
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Error().Err(err).Msg("fiber shutdown")
	}

	log.Info().Msg("server exiting")
}
