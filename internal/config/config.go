// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Data source kinds accepted by DATA_SOURCE.
const (
	SourceMock     = "mock"
	SourcePostgres = "postgres"
	SourceCSV      = "csv"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Data     DataConfig
	Table    TableConfig
	Session  SessionConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
	Metrics  MetricsConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// DatabaseConfig holds database connection settings.
// The URL is only required when DATA_SOURCE is postgres.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 10)
	MaxConns int `env:"DB_MAX_CONNS" default:"10"`

	// MinConns is the minimum number of connections to keep open (default: 1)
	MinConns int `env:"DB_MIN_CONNS" default:"1"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// DataConfig selects where table records come from.
type DataConfig struct {
	// Source is mock, postgres or csv (default: mock)
	Source string `env:"DATA_SOURCE" default:"mock"`

	// CSVDir holds one <table key>.csv per table when Source is csv (default: data)
	CSVDir string `env:"DATA_CSV_DIR" default:"data"`

	// CacheTTL is how long a loaded dataset is reused across sessions (default: 5m, 0 disables)
	CacheTTL time.Duration `env:"DATA_CACHE_TTL" default:"5m"`

	// LoadTimeout bounds a single dataset load (default: 15s)
	LoadTimeout time.Duration `env:"DATA_LOAD_TIMEOUT" default:"15s"`

	// MaxConcurrentLoads caps parallel source loads (default: 4)
	MaxConcurrentLoads int `env:"DATA_MAX_CONCURRENT_LOADS" default:"4"`
}

// TableConfig holds defaults for every table instance.
type TableConfig struct {
	// DefaultPageSize is used by tables without their own page size (default: 10)
	DefaultPageSize int `env:"TABLE_DEFAULT_PAGE_SIZE" default:"10"`

	// MaxRows rejects datasets larger than this (default: 50000)
	MaxRows int `env:"TABLE_MAX_ROWS" default:"50000"`

	// SelectScope is what "select all" covers: page or filtered (default: page)
	SelectScope string `env:"TABLE_SELECT_SCOPE" default:"page"`
}

// SessionConfig holds table session lifecycle settings.
type SessionConfig struct {
	// TTL is how long an idle session is kept (default: 30m)
	TTL time.Duration `env:"SESSION_TTL" default:"30m"`

	// Max is the maximum number of live sessions (default: 1000)
	Max int `env:"SESSION_MAX" default:"1000"`

	// SweepInterval is how often idle sessions are evicted (default: 1m)
	SweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" default:"1m"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 300)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"300"`

	// Burst is the number of requests allowed above the steady rate (default: 50)
	Burst int `env:"RATE_LIMIT_BURST" default:"50"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// RequireAPIKey enforces X-API-Key on /api routes (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted API keys
	APIKeys []string `env:"API_KEYS"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// MetricsConfig holds Prometheus settings.
type MetricsConfig struct {
	// Enabled exposes the metrics endpoint (default: true)
	Enabled bool `env:"METRICS_ENABLED" default:"true"`

	// Path is where metrics are served (default: /metrics)
	Path string `env:"METRICS_PATH" default:"/metrics"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// UsesPostgres reports whether tables load from the database.
func (c *Config) UsesPostgres() bool {
	return c.Data.Source == SourcePostgres
}

// UsesCSV reports whether tables load from files in Data.CSVDir.
func (c *Config) UsesCSV() bool {
	return c.Data.Source == SourceCSV
}
