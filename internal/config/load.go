package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// envPrefix is the prefix for environment variable overrides, e.g.
// GOREV_NOTIFICATION_GATEWAY_URL maps to notification.gateway_url.
const envPrefix = "GOREV"

// Load reads configuration from an optional config.yaml in the working
// directory and from environment variables, with the environment taking
// precedence. Returns a validated Config or an error describing what is
// missing or invalid.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; the environment can carry
		// everything. Any other read error is fatal.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	// Registered with empty defaults so environment-only values are
	// picked up by Unmarshal; validation rejects them when left empty.
	v.SetDefault("database.url", "")
	v.SetDefault("notification.gateway_url", "")
	v.SetDefault("notification.timeout", 30*time.Second)
	v.SetDefault("scanner.interval", time.Minute)
	v.SetDefault("scanner.retention", 24*time.Hour)
	v.SetDefault("dispatcher.queue_size", 100)
	v.SetDefault("dispatcher.worker_count", 2)
}
