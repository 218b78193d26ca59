package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"bot-analytics-service/internal/config"
	eventsKafka "bot-analytics-service/internal/events/adapters/kafka"
	eventsRepoPg "bot-analytics-service/internal/events/adapters/postgres"
	eventsUsecase "bot-analytics-service/internal/events/core/usecase"
)

var consumeCmd = &cobra.Command{
	Use:   "consume",
	Short: "Consume events from Kafka and record them",
	Long:  "Reads event envelopes from the configured Kafka topic and feeds them into the recorder. Runs until interrupted.",
	RunE:  runConsume,
}

func runConsume(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("load config")
		return err
	}
	if len(cfg.KafkaBrokers) == 0 {
		err := errors.New("KAFKA_BROKERS is not set")
		log.Error().Err(err).Msg("consumer not configured")
		return err
	}

	db, err := openDB(cfg)
	if err != nil {
		log.Error().Err(err).Msg("open postgres")
		return err
	}
	defer db.Close()

	recorder := eventsUsecase.NewRecordEventUseCase(
		eventsRepoPg.NewEventRepository(eventsRepoPg.NewSQLDB(db)),
	)
	consumer := eventsKafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroup, recorder)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		log.Info().Msg("shutting down consumer")
		cancel()
	}()

	log.Info().
		Strs("brokers", cfg.KafkaBrokers).
		Str("topic", cfg.KafkaTopic).
		Str("group", cfg.KafkaGroup).
		Msg("consumer starting")

	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("consumer stopped")
		return err
	}

	log.Info().Msg("consumer exiting")
	return nil
}
