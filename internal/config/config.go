package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server       ServerConfig       `mapstructure:"server" validate:"required"`
	Database     DatabaseConfig     `mapstructure:"database" validate:"required"`
	Notification NotificationConfig `mapstructure:"notification" validate:"required"`
	Scanner      ScannerConfig      `mapstructure:"scanner" validate:"required"`
	Dispatcher   DispatcherConfig   `mapstructure:"dispatcher" validate:"required"`
}

// ServerConfig contains all HTTP server related settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// NotificationConfig configures the outbound notification gateway call.
type NotificationConfig struct {
	// GatewayURL is the HTTP endpoint notification payloads are posted to.
	GatewayURL string `mapstructure:"gateway_url" validate:"required,url"`

	// Timeout bounds a single gateway request.
	Timeout time.Duration `mapstructure:"timeout" validate:"required"`
}

// ScannerConfig configures the due-reminder scanner.
type ScannerConfig struct {
	// Interval is the time between scan cycles.
	Interval time.Duration `mapstructure:"interval" validate:"required"`

	// Retention is how long an undelivered reminder stays scannable
	// past its scheduled instant before being expired.
	Retention time.Duration `mapstructure:"retention" validate:"required"`
}

// DispatcherConfig configures the notification dispatch worker pool.
type DispatcherConfig struct {
	QueueSize   int `mapstructure:"queue_size" validate:"required,gt=0"`
	WorkerCount int `mapstructure:"worker_count" validate:"required,gt=0"`
}
