package config

import (
	"fmt"
	"net/netip"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var durationType = reflect.TypeOf(time.Duration(0))

// Load reads configuration from the environment, applies defaults and
// validates the result.
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

// fieldSource describes where one struct field takes its value from.
type fieldSource struct {
	env      string
	alt      string
	fallback string
	required bool
}

func sourceOf(field reflect.StructField) fieldSource {
	return fieldSource{
		env:      field.Tag.Get("env"),
		alt:      field.Tag.Get("envAlt"),
		fallback: field.Tag.Get("default"),
		required: field.Tag.Get("required") == "true",
	}
}

// lookup returns the raw value for the field, or "" when it stays unset.
func (s fieldSource) lookup() (string, error) {
	value := os.Getenv(s.env)
	if value == "" && s.alt != "" {
		value = os.Getenv(s.alt)
	}
	if value != "" {
		return value, nil
	}
	if s.required {
		return "", fmt.Errorf("required environment variable %s is not set", s.env)
	}
	return s.fallback, nil
}

// populate walks v's fields, recursing into nested sections.
func populate(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		target := v.Field(i)
		if !target.CanSet() {
			continue
		}

		if field.Type.Kind() == reflect.Struct {
			if err := populate(target); err != nil {
				return err
			}
			continue
		}

		src := sourceOf(field)
		if src.env == "" {
			continue
		}

		value, err := src.lookup()
		if err != nil {
			return err
		}
		if value == "" {
			continue
		}

		if err := assign(target, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", src.env, value, err)
		}
	}

	return nil
}

// assign parses value into field according to the field's type.
func assign(field reflect.Value, value string) error {
	if field.Type() == durationType {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}
		field.SetInt(int64(d))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer: %w", err)
		}
		field.SetInt(n)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type: %s", field.Type().Elem().Kind())
		}
		field.Set(reflect.ValueOf(splitList(value)))

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// splitList splits a comma-separated value, dropping blank entries.
func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks every setting and reports all problems in one error.
func (c *Config) Validate() error {
	var errs []string
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	if c.Database.URL == "" {
		add("DATABASE_URL is required")
	}
	if c.Database.MaxConns <= 0 {
		add("DB_MAX_CONNS must be positive")
	}
	if c.Database.MinConns < 0 {
		add("DB_MIN_CONNS must be non-negative")
	}
	if c.Database.MaxConns < c.Database.MinConns {
		add("DB_MAX_CONNS (%d) must be >= DB_MIN_CONNS (%d)", c.Database.MaxConns, c.Database.MinConns)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		add("SERVER_PORT (%d) must be 1-65535", c.Server.Port)
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 {
		add("SERVER_READ_TIMEOUT and SERVER_WRITE_TIMEOUT must be non-negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		add("SERVER_SHUTDOWN_TIMEOUT must be positive")
	}
	if c.Server.RequestTimeout <= 0 {
		add("SERVER_REQUEST_TIMEOUT must be positive")
	}

	if c.Import.MaxFileSize <= 0 {
		add("IMPORT_MAX_FILE_SIZE must be positive")
	}
	if c.Import.MaxConcurrent <= 0 {
		add("IMPORT_MAX_CONCURRENT must be positive")
	}
	if c.Import.MaxWaitTime <= 0 {
		add("IMPORT_MAX_WAIT_TIME must be positive")
	}
	if c.Import.Timeout <= 0 {
		add("IMPORT_TIMEOUT must be positive")
	}

	if c.Cache.LicenseCacheSize <= 0 {
		add("CACHE_LICENSE_SIZE must be positive")
	}

	if c.Security.RequireAPIKey && len(c.Security.APIKeys) == 0 {
		add("REQUIRE_API_KEY is true but API_KEYS is empty")
	}
	for _, entry := range c.Security.TrustedProxies {
		_, prefixErr := netip.ParsePrefix(entry)
		_, addrErr := netip.ParseAddr(entry)
		if prefixErr != nil && addrErr != nil {
			add("TRUSTED_PROXIES entry %q is not a CIDR or address", entry)
		}
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		add("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		add("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format)
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// String returns the configuration for logging with the database URL masked.
func (c *Config) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Config{Server: {Addr: %q}, ", c.Server.Addr())
	fmt.Fprintf(&b, "Database: {URL: [MASKED], MaxConns: %d, MinConns: %d}, ",
		c.Database.MaxConns, c.Database.MinConns)
	fmt.Fprintf(&b, "Import: {MaxFileSize: %d, MaxConcurrent: %d, Timeout: %s, DefaultStripPaths: %v}, ",
		c.Import.MaxFileSize, c.Import.MaxConcurrent, c.Import.Timeout, c.Import.DefaultStripPaths)
	fmt.Fprintf(&b, "Cache: {LicenseCacheSize: %d}, ", c.Cache.LicenseCacheSize)
	fmt.Fprintf(&b, "Security: {RequireAPIKey: %v, APIKeys: %d}, ",
		c.Security.RequireAPIKey, len(c.Security.APIKeys))
	fmt.Fprintf(&b, "Logging: {Level: %q, Format: %q}}", c.Logging.Level, c.Logging.Format)
	return b.String()
}
