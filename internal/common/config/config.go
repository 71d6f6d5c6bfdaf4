// internal/common/config/config.go
package config

import (
	"fmt"
	"time"
)

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Search   SearchConfig   `mapstructure:"search"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

// Addr returns the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// SearchConfig holds the tunables of the search subsystem: the price
// bounds cache, the fetch throttle, the pricing heuristics and the
// per-mode fallback ranges served when the catalog yields no samples.
type SearchConfig struct {
	PriceCacheTTL        int           `mapstructure:"price_cache_ttl"` // milliseconds
	FetchThrottle        int           `mapstructure:"fetch_throttle"`  // milliseconds
	MonthlyEstimateDays  int           `mapstructure:"monthly_estimate_days"`
	MonthlySampleDivisor int           `mapstructure:"monthly_sample_divisor"`
	Fallback             FallbackRange `mapstructure:"fallback"`
}

// FallbackRange holds the per-mode default price bounds served when the
// catalog has no eligible samples or the fetch fails.
type FallbackRange struct {
	DailyMin    float64 `mapstructure:"daily_min"`
	DailyMax    float64 `mapstructure:"daily_max"`
	MonthlyMin  float64 `mapstructure:"monthly_min"`
	MonthlyMax  float64 `mapstructure:"monthly_max"`
	FlexibleMin float64 `mapstructure:"flexible_min"`
	FlexibleMax float64 `mapstructure:"flexible_max"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
