package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"bot-analytics-service/internal/config"
	eventsRepoPg "bot-analytics-service/internal/events/adapters/postgres"
	eventsUsecase "bot-analytics-service/internal/events/core/usecase"
	rollupRepoPg "bot-analytics-service/internal/rollup/adapters/postgres"
	rollupUsecase "bot-analytics-service/internal/rollup/core/usecase"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Purge raw events and hourly aggregates past their retention windows",
	Long:  "Deletes raw events older than EVENT_RETENTION_DAYS and hourly aggregates older than HOURLY_RETENTION_DAYS. Daily aggregates are kept forever.",
	RunE:  runCleanup,
}

func runCleanup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("load config")
		return err
	}

	db, err := openDB(cfg)
	if err != nil {
		log.Error().Err(err).Msg("open postgres")
		return err
	}
	defer db.Close()

	eventsUC := eventsUsecase.NewCleanupEventsUseCase(
		eventsRepoPg.NewEventRepository(eventsRepoPg.NewSQLDB(db)),
	)
	rollupDB := rollupRepoPg.NewSQLDB(db)
	rollupUC := rollupUsecase.NewRollupUseCase(
		rollupRepoPg.NewEventSource(rollupDB),
		rollupRepoPg.NewAggregateStore(rollupDB),
	)

	deletedEvents, err := eventsUC.Execute(cmd.Context(), cfg.EventRetentionDays)
	if err != nil {
		log.Error().Err(err).Msg("event cleanup failed")
		return err
	}
	log.Info().
		Int64("deleted", deletedEvents).
		Int("retention_days", cfg.EventRetentionDays).
		Msg("raw events purged")

	deletedHourly, err := rollupUC.CleanupHourly(cmd.Context(), cfg.HourlyRetentionDays)
	if err != nil {
		log.Error().Err(err).Msg("hourly aggregate cleanup failed")
		return err
	}
	log.Info().
		Int64("deleted", deletedHourly).
		Int("retention_days", cfg.HourlyRetentionDays).
		Msg("hourly aggregates purged")

	return nil
}
