// Package config loads server settings from MEMBERDESK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every server setting.
type Config struct {
	Addr          string `env:"MEMBERDESK_ADDR"           envDefault:":8080"`
	DBPath        string `env:"MEMBERDESK_DB_PATH"        envDefault:"memberdesk.db"`
	Env           string `env:"MEMBERDESK_ENV"            envDefault:"development"`
	TimeZone      string `env:"MEMBERDESK_TZ"             envDefault:"Asia/Manila"`
	AdminEmail    string `env:"MEMBERDESK_ADMIN_EMAIL"    envDefault:"admin@memberdesk.local"`
	AdminPassword string `env:"MEMBERDESK_ADMIN_PASSWORD" envDefault:"change me before go-live"`
	CSRFKey       string `env:"MEMBERDESK_CSRF_KEY"`
	ResendKey     string `env:"MEMBERDESK_RESEND_KEY"`
	ResendFrom    string `env:"MEMBERDESK_RESEND_FROM"    envDefault:"Gym Front Desk <noreply@memberdesk.local>"`
	PricingFile   string `env:"MEMBERDESK_PRICING_FILE"`

	ExpiryInterval  time.Duration `env:"MEMBERDESK_EXPIRY_INTERVAL"    envDefault:"1h"`
	SummaryCacheTTL time.Duration `env:"MEMBERDESK_SUMMARY_CACHE_TTL"  envDefault:"10s"`
	SlowQueryMs     int           `env:"MEMBERDESK_SLOW_QUERY_MS"      envDefault:"50"`
	SlowRequestMs   int           `env:"MEMBERDESK_SLOW_REQUEST_MS"    envDefault:"500"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the parsed values.
// POST: Returns error if a value cannot be used, nil otherwise
func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("MEMBERDESK_ADDR must not be empty")
	}
	if c.DBPath == "" {
		return errors.New("MEMBERDESK_DB_PATH must not be empty")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("MEMBERDESK_TZ: %w", err)
	}
	if c.ExpiryInterval <= 0 {
		return errors.New("MEMBERDESK_EXPIRY_INTERVAL must be positive")
	}
	if c.SummaryCacheTTL < 0 {
		return errors.New("MEMBERDESK_SUMMARY_CACHE_TTL must not be negative")
	}
	if c.SlowQueryMs < 0 || c.SlowRequestMs < 0 {
		return errors.New("slow thresholds must not be negative")
	}
	if c.IsProduction() && len(c.CSRFKey) != 32 {
		return errors.New("MEMBERDESK_CSRF_KEY must be 32 bytes in production")
	}
	return nil
}

// IsProduction reports whether the server runs with production settings.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Location returns the gym's time zone. Dates such as "today" are computed in it.
func (c Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.TimeZone)
}

// SlowQuery returns the slow-query threshold.
func (c Config) SlowQuery() time.Duration {
	return time.Duration(c.SlowQueryMs) * time.Millisecond
}

// SlowRequest returns the slow-request threshold.
func (c Config) SlowRequest() time.Duration {
	return time.Duration(c.SlowRequestMs) * time.Millisecond
}
