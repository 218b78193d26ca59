package cmd

import (
	"database/sql"
	"time"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"bot-analytics-service/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "worker",
	Short: "Background jobs for the bot analytics pipeline",
	Long:  "Runs the rollup batches, retention cleanup, and the Kafka event consumer.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(rollupCmd)
	rootCmd.AddCommand(rollupHourlyCmd)
	rootCmd.AddCommand(cleanupCmd)
	rootCmd.AddCommand(consumeCmd)
}

func openDB(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
