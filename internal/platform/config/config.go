// Package config builds process-wide configuration snapshots from the
// environment so main stays lean. Everything here is read once at startup and
// never mutated afterwards.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"bidscope/internal/privacy/models"
)

// defaultEEACountries is the EEA membership set (EU-27 plus Iceland,
// Liechtenstein, and Norway) in ISO 3166-1 alpha-2 form.
var defaultEEACountries = []string{
	"AT", "BE", "BG", "HR", "CY", "CZ", "DK", "EE", "FI", "FR",
	"DE", "GR", "HU", "IE", "IT", "LV", "LT", "LU", "MT", "NL",
	"PL", "PT", "RO", "SK", "SI", "ES", "SE",
	"IS", "LI", "NO",
}

// Server captures the process configuration.
type Server struct {
	Addr string
	// LogLevel gates the structured logger: debug, info, warn, or error.
	LogLevel string

	Gdpr         models.GdprConfig
	EEACountries []string

	// GeoTimeout bounds each geolocation lookup.
	GeoTimeout time.Duration
	// GeoTablePath points at a "cidr,country" CSV for the static provider.
	// Empty disables geolocation entirely.
	GeoTablePath string

	// RedisURL enables the shared geo cache when set.
	RedisURL    string
	GeoCacheTTL time.Duration
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	addr := os.Getenv("BIDSCOPE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	return Server{
		Addr:     addr,
		LogLevel: os.Getenv("BIDSCOPE_LOG_LEVEL"),
		Gdpr: models.GdprConfig{
			Enabled:                   boolEnv("GDPR_ENABLED", true),
			DefaultApplies:            os.Getenv("GDPR_DEFAULT_VALUE") == "1",
			ConsentStringMeansInScope: boolEnv("GDPR_CONSENT_STRING_MEANS_IN_SCOPE", false),
		},
		EEACountries: listEnv("GDPR_EEA_COUNTRIES", defaultEEACountries),
		GeoTimeout:   durationEnv("GEO_LOOKUP_TIMEOUT", 200*time.Millisecond),
		GeoTablePath: os.Getenv("GEO_TABLE_PATH"),
		RedisURL:     os.Getenv("REDIS_URL"),
		GeoCacheTTL:  durationEnv("GEO_CACHE_TTL", time.Hour),
	}
}

func boolEnv(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return value
}

func listEnv(key string, fallback []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			values = append(values, strings.ToUpper(trimmed))
		}
	}
	if len(values) == 0 {
		return fallback
	}
	return values
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
