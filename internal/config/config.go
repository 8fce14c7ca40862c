package config

import "time"

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Queue     QueueConfig     `mapstructure:"queue" validate:"required"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Seed      SeedConfig      `mapstructure:"seed"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port        int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel    string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	Environment string `mapstructure:"environment" validate:"required,oneof=development production test"`
	// PublicBaseURL prefixes relative image preview paths in responses.
	PublicBaseURL   string        `mapstructure:"public_base_url" validate:"omitempty,url"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL             string        `mapstructure:"url" validate:"required,url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"gt=0"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"gte=0,ltefield=MaxOpenConns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gte=0"`
}

// QueueConfig configures the queue that serializes book inserts.
type QueueConfig struct {
	BookConcurrency int `mapstructure:"book_concurrency" validate:"gte=1"`
	// DrainTimeout bounds how long shutdown waits for pending inserts.
	DrainTimeout time.Duration `mapstructure:"drain_timeout" validate:"gt=0"`
}

// RateLimitConfig configures the per-client limiter on write routes.
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"required_if=Enabled true,gte=0"`
	Burst             int     `mapstructure:"burst" validate:"required_if=Enabled true,gte=0"`
}

// SeedConfig controls insertion of the initial catalog at startup.
type SeedConfig struct {
	Enabled bool `mapstructure:"enabled"`
}
