package cmd

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"bot-analytics-service/internal/config"
	rollupRepoPg "bot-analytics-service/internal/rollup/adapters/postgres"
	rollupUsecase "bot-analytics-service/internal/rollup/core/usecase"
)

var rollupHour string

var rollupHourlyCmd = &cobra.Command{
	Use:   "rollup-hourly",
	Short: "Aggregate one hour of events into hourly rows for all active tenants",
	RunE:  runRollupHourly,
}

func init() {
	rollupHourlyCmd.Flags().StringVar(&rollupHour, "hour", "", "hour to aggregate, RFC 3339 (default: the previous full hour, UTC)")
}

func runRollupHourly(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("load config")
		return err
	}

	hour := time.Now().UTC().Truncate(time.Hour).Add(-time.Hour)
	if rollupHour != "" {
		hour, err = time.Parse(time.RFC3339, rollupHour)
		if err != nil {
			log.Error().Str("hour", rollupHour).Msg("invalid --hour, expected RFC 3339")
			return err
		}
		hour = hour.UTC().Truncate(time.Hour)
	}

	db, err := openDB(cfg)
	if err != nil {
		log.Error().Err(err).Msg("open postgres")
		return err
	}
	defer db.Close()

	rollupDB := rollupRepoPg.NewSQLDB(db)
	uc := rollupUsecase.NewRollupUseCase(
		rollupRepoPg.NewEventSource(rollupDB),
		rollupRepoPg.NewAggregateStore(rollupDB),
	)

	log.Info().Time("hour", hour).Msg("hourly rollup starting")

	if err := uc.AggregateHourForAllTenants(cmd.Context(), hour); err != nil {
		log.Error().Err(err).Msg("hourly rollup failed")
		return err
	}

	log.Info().Msg("hourly rollup completed")
	return nil
}
