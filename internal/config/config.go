// Package config provides centralized configuration management for the site server.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Sheets   SheetsConfig
	Database DatabaseConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading a request (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing a response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 15s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"15s"`

	// RequestTimeout is the middleware timeout for requests (default: 20s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"20s"`

	// SiteTitle is shown in the page title and footer
	SiteTitle string `env:"SITE_TITLE" default:"Likorise"`
}

// SheetsConfig selects the published spreadsheet and the sheet behind each section.
type SheetsConfig struct {
	// SpreadsheetID is the published spreadsheet. Empty serves fallback content only.
	SpreadsheetID string `env:"SHEETS_SPREADSHEET_ID" envAlt:"SPREADSHEET_ID"`

	// BaseURL is the spreadsheet host (default: https://docs.google.com)
	BaseURL string `env:"SHEETS_BASE_URL" default:"https://docs.google.com"`

	// Instructors is the sheet with instructor cards
	Instructors string `env:"SHEET_INSTRUCTORS" default:"レッスン講師"`

	// Schedule is the sheet with the annual schedule
	Schedule string `env:"SHEET_SCHEDULE" default:"年間スケジュール"`

	// Members is the sheet with membership copy
	Members string `env:"SHEET_MEMBERS" default:"所属生情報"`

	// FetchTimeout bounds each sheet download (default: 8s)
	FetchTimeout time.Duration `env:"SHEETS_FETCH_TIMEOUT" default:"8s"`

	// MaxBodyBytes caps each sheet download (default: 5MB)
	MaxBodyBytes int64 `env:"SHEETS_MAX_BODY_BYTES" default:"5242880"`

	// File is an optional YAML file with the spreadsheet ID and sheet names
	File string `env:"SHEETS_FILE"`
}

// DatabaseConfig holds the optional load log database settings.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string. Empty disables the load log.
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 4)
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`

	// MinConns is the minimum number of connections to keep open (default: 0)
	MinConns int `env:"DB_MIN_CONNS" default:"0"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`

	// LoadRetention is how long load events are kept (default: 720h)
	LoadRetention time.Duration `env:"LOAD_LOG_RETENTION" default:"720h"`

	// RetentionInterval is how often old load events are purged (default: 24h)
	RetentionInterval time.Duration `env:"LOAD_LOG_PURGE_INTERVAL" default:"24h"`
}

// RateLimitConfig holds rate limiting settings.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the limit per IP (default: 120)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"120"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// RequireAPIKey protects the load log endpoint (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted X-API-Key values
	APIKeys []string `env:"API_KEYS"`

	// CORSOrigins is a comma-separated list of origins allowed on /api (default: *)
	CORSOrigins []string `env:"CORS_ALLOWED_ORIGINS" default:"*"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// Live reports whether a spreadsheet is configured.
func (c *SheetsConfig) Live() bool {
	return c.SpreadsheetID != ""
}
