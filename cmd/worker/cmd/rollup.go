package cmd

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"bot-analytics-service/internal/config"
	rollupRepoPg "bot-analytics-service/internal/rollup/adapters/postgres"
	rollupUsecase "bot-analytics-service/internal/rollup/core/usecase"
)

var rollupDate string

var rollupCmd = &cobra.Command{
	Use:   "rollup",
	Short: "Aggregate one day of events into daily rows for all active tenants",
	RunE:  runRollup,
}

func init() {
	rollupCmd.Flags().StringVar(&rollupDate, "date", "", "date to aggregate, YYYY-MM-DD (default: yesterday, UTC)")
}

func runRollup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("load config")
		return err
	}

	date := time.Now().UTC().AddDate(0, 0, -1)
	if rollupDate != "" {
		date, err = time.Parse("2006-01-02", rollupDate)
		if err != nil {
			log.Error().Str("date", rollupDate).Msg("invalid --date, expected YYYY-MM-DD")
			return err
		}
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

	log.Info().Str("date", date.Format("2006-01-02")).Msg("daily rollup starting")

	if err := uc.AggregateDateForAllTenants(cmd.Context(), date); err != nil {
		log.Error().Err(err).Msg("daily rollup failed")
		return err
	}

	log.Info().Msg("daily rollup completed")
	return nil
}
