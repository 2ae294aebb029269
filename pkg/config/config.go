package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/muhammadchandra19/ome/pkg/postgresql"
	"github.com/muhammadchandra19/ome/pkg/questdb"
)

// Config represents the application configuration.
type Config struct {
	App           AppConfig           `envPrefix:"APP_"`
	PostgreSQL    postgresql.Config   `envPrefix:"POSTGRESQL_"`
	QuestDB       questdb.Config      `envPrefix:"QUESTDB_"`
	ExchangeKafka ExchangeKafkaConfig `envPrefix:"EXCHANGE_KAFKA_"`
	Engine        EngineConfig        `envPrefix:"ENGINE_"`
}

// AppConfig represents the application configuration.
type AppConfig struct {
	Name        string `env:"NAME" envDefault:"order-management-engine"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
}

// ExchangeKafkaConfig represents the exchange connectivity Kafka configuration.
type ExchangeKafkaConfig struct {
	Brokers       []string `env:"BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	Topic         string   `env:"TOPIC" envDefault:"exchange-events"`
	ConsumerGroup string   `env:"CONSUMER_GROUP" envDefault:"ome-journal"`
	MaxRetries    int      `env:"MAX_RETRIES" envDefault:"3"`
}

// EngineConfig represents the engine dispatcher configuration.
type EngineConfig struct {
	Workers        int    `env:"WORKERS" envDefault:"4"`
	BatchSize      int    `env:"BATCH_SIZE" envDefault:"256"`
	PollIntervalMs int    `env:"POLL_INTERVAL_MS" envDefault:"100"`
	CursorName     string `env:"CURSOR_NAME" envDefault:"ome-dispatcher"`
	MigrationDir   string `env:"MIGRATION_DIR" envDefault:"internal/infrastructure/postgresql/migrations"`
}

// Load loads the configuration from the environment.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}
