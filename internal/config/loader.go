package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/viper"
)

// Load reads configuration from an optional yaml file and applies
// environment variable overrides on top. Environment wins.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		viper.SetConfigFile(configPath)
		viper.SetConfigType("yaml")

		if err := viper.ReadInConfig(); err != nil {
			// Config file is optional; environment variables can carry
			// the whole configuration.
			fmt.Fprintf(os.Stderr, "warning: could not read config file %s: %v\n", configPath, err)
		} else if err := viper.Unmarshal(cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	applyEnvironmentOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func applyEnvironmentOverrides(cfg *Config) {
	setString(&cfg.Database.Host, "DB_HOST")
	setInt(&cfg.Database.Port, "DB_PORT")
	setString(&cfg.Database.User, "DB_USER")
	setString(&cfg.Database.Password, "DB_PASSWORD")
	setString(&cfg.Database.Name, "DB_NAME")
	setString(&cfg.Database.SSLMode, "DB_SSL_MODE")

	setInt(&cfg.Server.Port, "PORT")

	setBool(&cfg.RabbitMQ.Enabled, "RABBITMQ_ENABLED")
	setString(&cfg.RabbitMQ.Host, "RABBITMQ_HOST")
	setInt(&cfg.RabbitMQ.Port, "RABBITMQ_PORT")
	setString(&cfg.RabbitMQ.Username, "RABBITMQ_USERNAME")
	setString(&cfg.RabbitMQ.Password, "RABBITMQ_PASSWORD")
	setString(&cfg.RabbitMQ.VHost, "RABBITMQ_VHOST")
	setString(&cfg.RabbitMQ.Exchange, "RABBITMQ_EXCHANGE")

	setInt(&cfg.Policy.MaxRentalDays, "POLICY_MAX_RENTAL_DAYS")
	setInt(&cfg.Policy.MaxAdvanceDays, "POLICY_MAX_ADVANCE_DAYS")

	setString(&cfg.Logging.Level, "LOG_LEVEL")
}

func setString(target *string, key string) {
	if value := os.Getenv(key); value != "" {
		*target = value
	}
}

func setInt(target *int, key string) {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			*target = parsed
		}
	}
}

func setBool(target *bool, key string) {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			*target = parsed
		}
	}
}
