package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var durationType = reflect.TypeFor[time.Duration]()

// Load reads configuration from environment variables, applies tag
// defaults and validates the result. Every bad variable is reported, not
// just the first.
//
// Supported tags:
//
//	env:"NAME"       variable to read
//	envAlt:"NAME"    fallback variable when the first is unset
//	default:"value"  used when neither is set
//	required:"true"  fail instead of using a default
func Load() (*Config, error) {
	cfg := &Config{}

	if err := populate(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// populate fills the tagged fields of the struct v, descending into nested
// config sections.
func populate(v reflect.Value) error {
	var errs []error

	t := v.Type()
	for i := range t.NumField() {
		field, fv := t.Field(i), v.Field(i)
		if !field.IsExported() {
			continue
		}

		if field.Type.Kind() == reflect.Struct {
			if err := populate(fv); err != nil {
				errs = append(errs, err)
			}
			continue
		}

		name, value, ok := lookup(field.Tag)
		if !ok {
			if field.Tag.Get("required") == "true" {
				errs = append(errs, fmt.Errorf("required environment variable %s is not set", name))
			}
			continue
		}

		if err := assign(fv, value); err != nil {
			errs = append(errs, fmt.Errorf("invalid value for %s=%q: %w", name, value, err))
		}
	}

	return errors.Join(errs...)
}

// lookup returns the raw value for a tagged field and the variable name to
// report. ok is false when the field has no env tag, or nothing is set and
// there is no default.
func lookup(tag reflect.StructTag) (name, value string, ok bool) {
	name = tag.Get("env")
	if name == "" {
		return "", "", false
	}

	for _, key := range []string{name, tag.Get("envAlt")} {
		if key == "" {
			continue
		}
		if v := os.Getenv(key); v != "" {
			return name, v, true
		}
	}

	if tag.Get("required") == "true" {
		return name, "", false
	}
	def := tag.Get("default")
	return name, def, def != ""
}

// assign parses value into fv according to its type.
func assign(fv reflect.Value, value string) error {
	if fv.Type() == durationType {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}
		fv.SetInt(int64(d))
		return nil
	}

	switch fv.Kind() {
	case reflect.String:
		fv.SetString(value)
	case reflect.Int, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, fv.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid integer: %w", err)
		}
		fv.SetInt(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		fv.SetBool(b)
	case reflect.Slice:
		if fv.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type: %s", fv.Type().Elem())
		}
		fv.Set(reflect.ValueOf(splitList(value)))
	default:
		return fmt.Errorf("unsupported field type: %s", fv.Kind())
	}
	return nil
}

// splitList splits a comma-separated value, dropping blank entries.
func splitList(value string) []string {
	var out []string
	for _, p := range strings.Split(value, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks every section and reports all failures at once.
func (c *Config) Validate() error {
	var errs []string
	for _, check := range []func() []string{
		c.validateData,
		c.validateServer,
		c.validateTable,
		c.validateSession,
		c.validateAccess,
		c.validateLogging,
	} {
		errs = append(errs, check()...)
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func (c *Config) validateData() []string {
	var errs []string
	switch c.Data.Source {
	case SourceMock:
	case SourcePostgres:
		db := c.Database
		if db.URL == "" {
			errs = append(errs, "DATABASE_URL is required when DATA_SOURCE is postgres")
		}
		if db.MaxConns <= 0 {
			errs = append(errs, "DB_MAX_CONNS must be positive")
		} else if db.MaxConns < db.MinConns {
			errs = append(errs, fmt.Sprintf("DB_MAX_CONNS (%d) must be >= DB_MIN_CONNS (%d)", db.MaxConns, db.MinConns))
		}
		if db.MinConns < 0 {
			errs = append(errs, "DB_MIN_CONNS must be non-negative")
		}
	case SourceCSV:
		if c.Data.CSVDir == "" {
			errs = append(errs, "DATA_CSV_DIR is required when DATA_SOURCE is csv")
		}
	default:
		errs = append(errs, fmt.Sprintf("DATA_SOURCE (%q) must be one of: %s, %s, %s",
			c.Data.Source, SourceMock, SourcePostgres, SourceCSV))
	}

	if c.Data.CacheTTL < 0 {
		errs = append(errs, "DATA_CACHE_TTL must be non-negative")
	}
	if c.Data.LoadTimeout <= 0 {
		errs = append(errs, "DATA_LOAD_TIMEOUT must be positive")
	}
	if c.Data.MaxConcurrentLoads <= 0 {
		errs = append(errs, "DATA_MAX_CONCURRENT_LOADS must be positive")
	}
	return errs
}

func (c *Config) validateServer() []string {
	var errs []string
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT (%d) must be 1-65535", c.Server.Port))
	}
	if c.Server.ReadTimeout < 0 {
		errs = append(errs, "SERVER_READ_TIMEOUT must be non-negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		errs = append(errs, fmt.Sprintf("METRICS_PATH (%q) must start with /", c.Metrics.Path))
	}
	return errs
}

// validateTable rejects bad table defaults up front. A table is never
// built with a clamped page size.
func (c *Config) validateTable() []string {
	var errs []string
	if c.Table.DefaultPageSize <= 0 {
		errs = append(errs, fmt.Sprintf("TABLE_DEFAULT_PAGE_SIZE (%d) must be positive", c.Table.DefaultPageSize))
	}
	if c.Table.MaxRows <= 0 {
		errs = append(errs, "TABLE_MAX_ROWS must be positive")
	}
	switch c.Table.SelectScope {
	case "page", "filtered":
	default:
		errs = append(errs, fmt.Sprintf("TABLE_SELECT_SCOPE (%q) must be one of: page, filtered", c.Table.SelectScope))
	}
	return errs
}

func (c *Config) validateSession() []string {
	var errs []string
	if c.Session.TTL <= 0 {
		errs = append(errs, "SESSION_TTL must be positive")
	}
	if c.Session.Max <= 0 {
		errs = append(errs, "SESSION_MAX must be positive")
	}
	if c.Session.SweepInterval <= 0 {
		errs = append(errs, "SESSION_SWEEP_INTERVAL must be positive")
	}
	return errs
}

func (c *Config) validateAccess() []string {
	var errs []string
	if c.Rate.Enabled {
		if c.Rate.RequestsPerMinute <= 0 {
			errs = append(errs, "RATE_LIMIT_REQUESTS_PER_MINUTE must be positive when rate limiting is enabled")
		}
		if c.Rate.Burst <= 0 {
			errs = append(errs, "RATE_LIMIT_BURST must be positive when rate limiting is enabled")
		}
	}
	if c.Security.RequireAPIKey && len(c.Security.APIKeys) == 0 {
		errs = append(errs, "REQUIRE_API_KEY is true but API_KEYS is empty")
	}
	return errs
}

func (c *Config) validateLogging() []string {
	var errs []string
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}
	return errs
}

// String returns a safe string representation of the config for logging.
// Sensitive values like database URLs and API keys are masked.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Server: {Host: %q, Port: %d}, ", c.Server.Host, c.Server.Port))
	b.WriteString(fmt.Sprintf("Data: {Source: %q, CSVDir: %q, CacheTTL: %s}, ", c.Data.Source, c.Data.CSVDir, c.Data.CacheTTL))
	if c.UsesPostgres() {
		b.WriteString(fmt.Sprintf("Database: {URL: [MASKED], MaxConns: %d, MinConns: %d}, ",
			c.Database.MaxConns, c.Database.MinConns))
	}
	b.WriteString(fmt.Sprintf("Table: {DefaultPageSize: %d, MaxRows: %d, SelectScope: %q}, ",
		c.Table.DefaultPageSize, c.Table.MaxRows, c.Table.SelectScope))
	b.WriteString(fmt.Sprintf("Session: {TTL: %s, Max: %d}, ", c.Session.TTL, c.Session.Max))
	b.WriteString(fmt.Sprintf("Rate: {Enabled: %v, RequestsPerMinute: %d}, ",
		c.Rate.Enabled, c.Rate.RequestsPerMinute))
	b.WriteString(fmt.Sprintf("Security: {RequireAPIKey: %v, APIKeys: %d configured}, ",
		c.Security.RequireAPIKey, len(c.Security.APIKeys)))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q}",
		c.Logging.Level, c.Logging.Format))
	b.WriteString("}")
	return b.String()
}
