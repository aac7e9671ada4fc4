// Package config loads the server configuration from environment variables.
// Every field has an env tag and most have a default; Load validates the
// result so the process fails at startup on bad settings.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Import   ImportConfig
	Cache    CacheConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`
	Port int    `env:"SERVER_PORT" default:"8080"`

	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" default:"30s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"5m"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout bounds graceful shutdown, including draining imports.
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout applies to every non-import route.
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// DatabaseConfig holds PostgreSQL pool settings.
type DatabaseConfig struct {
	URL string `env:"DATABASE_URL" envAlt:"DB_URL" required:"true"`

	MaxConns        int           `env:"DB_MAX_CONNS" default:"10"`
	MinConns        int           `env:"DB_MIN_CONNS" default:"2"`
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`

	// Migrate creates missing tables at startup.
	Migrate bool `env:"DB_MIGRATE" default:"true"`
}

// ImportConfig holds tag-value document import settings.
type ImportConfig struct {
	// MaxFileSize is the largest accepted document in bytes (default: 256MB)
	MaxFileSize int64 `env:"IMPORT_MAX_FILE_SIZE" default:"268435456"`

	// MaxConcurrent is the number of imports allowed to run at once.
	MaxConcurrent int `env:"IMPORT_MAX_CONCURRENT" default:"2"`

	// MaxWaitTime is how long a request waits for a free import slot.
	MaxWaitTime time.Duration `env:"IMPORT_MAX_WAIT_TIME" default:"30s"`

	// Timeout bounds one import from first byte to commit.
	Timeout time.Duration `env:"IMPORT_TIMEOUT" default:"10m"`

	// DefaultStripPaths seeds the import-strip-paths config key when the
	// database has no value for it yet.
	DefaultStripPaths bool `env:"IMPORT_DEFAULT_STRIP_PATHS" default:"false"`
}

// CacheConfig holds in-process cache sizes.
type CacheConfig struct {
	// LicenseCacheSize is the number of license name to ID entries kept.
	LicenseCacheSize int `env:"CACHE_LICENSE_SIZE" default:"1024"`
}

// SecurityConfig holds API authentication settings.
type SecurityConfig struct {
	// APIKeys are accepted in the X-API-Key header or as a Bearer token.
	APIKeys []string `env:"API_KEYS"`

	// RequireAPIKey enables authentication on /api routes.
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// TrustedProxies are CIDRs allowed to set X-Forwarded-For / X-Real-IP.
	TrustedProxies []string `env:"TRUSTED_PROXIES"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" default:"info"`
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the listen address in host:port form.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
