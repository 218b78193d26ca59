package config

import (
	"github.com/kelseyhightower/envconfig"
)

// Config holds every runtime tunable, populated from the environment.
type Config struct {
	PostgresDSN string `envconfig:"POSTGRES_DSN" required:"true"`
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":8080"`

	KafkaBrokers []string `envconfig:"KAFKA_BROKERS"`
	KafkaTopic   string   `envconfig:"KAFKA_TOPIC" default:"bot-events"`
	KafkaGroup   string   `envconfig:"KAFKA_GROUP" default:"bot-analytics"`

	// Raw events and hourly aggregates are purged past these windows.
	// Daily aggregates are kept forever.
	EventRetentionDays  int `envconfig:"EVENT_RETENTION_DAYS" default:"90"`
	HourlyRetentionDays int `envconfig:"HOURLY_RETENTION_DAYS" default:"30"`

	HumanCostPerMessage float64 `envconfig:"HUMAN_COST_PER_MESSAGE" default:"2.50"`
	CostModelWindowDays int     `envconfig:"COST_MODEL_WINDOW_DAYS" default:"7"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
