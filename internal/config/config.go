// Package config holds process configuration for the admin gateway and seed tool.
package config

import (
	"strings"
	"time"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// DevSecret is the HMAC key used when none is configured. Online mode rejects it.
const DevSecret = "supersecret-dev-key"

type Config struct {
	Mode        Mode   `koanf:"mode"`
	HTTPAddr    string `koanf:"http_addr"`
	MetricsAddr string `koanf:"metrics_addr"`
	PublicURL   string `koanf:"public_url"`
	LogLevel    string `koanf:"log_level"`

	DBDriver string `koanf:"db_driver"` // sqlite|postgres
	DBDSN    string `koanf:"db_dsn"`

	BlobBasePath string `koanf:"blob_base_path"`

	AuthHMACSecret string        `koanf:"auth_hmac_secret"`
	TokenTTL       time.Duration `koanf:"token_ttl"`

	// LoginRate is the sustained login attempts per second allowed per client IP.
	LoginRate  float64 `koanf:"login_rate"`
	LoginBurst int     `koanf:"login_burst"`

	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP. Only
	// enable it behind a proxy that overwrites those headers.
	TrustProxy bool `koanf:"trust_proxy"`

	// CORSOrigins is a comma separated list of allowed origins.
	CORSOrigins string `koanf:"cors_origins"`

	PageSize int `koanf:"page_size"`

	// Assessment batches backing the two score reports.
	RTAssessmentID int `koanf:"rt_assessment_id"`
	STAssessmentID int `koanf:"st_assessment_id"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Mode:           ModeOffline,
		HTTPAddr:       ":8080",
		MetricsAddr:    ":9090",
		LogLevel:       "info",
		DBDriver:       "sqlite",
		BlobBasePath:   "./data",
		AuthHMACSecret: DevSecret,
		TokenTTL:       8 * time.Hour,
		LoginRate:      1,
		LoginBurst:     5,
		CORSOrigins:    "http://localhost:3000,http://localhost:5173",
		PageSize:       10,
		RTAssessmentID: 7,
		STAssessmentID: 4,
	}
}

// AllowedOrigins splits CORSOrigins into trimmed, non-empty entries.
func (c *Config) AllowedOrigins() []string {
	parts := strings.Split(c.CORSOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// BaseURL is PublicURL without a trailing slash.
func (c *Config) BaseURL() string {
	return strings.TrimSuffix(c.PublicURL, "/")
}
