/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Database backend selection.
type DatabaseBackend string

const (
	DatabasePostgres DatabaseBackend = "postgres"
	DatabaseMySQL    DatabaseBackend = "mysql"
	DatabaseSQLite   DatabaseBackend = "sqlite"
)

// Config covers process level configuration read from environment variables.
type Config struct {
	Environment string
	HTTPBind    string
	HTTPPort    int
	DBBackend   DatabaseBackend
	DBDSN       string
	MetricsBind string

	// Allocation policy
	HorizonDays       int
	SlotBufferMinutes int

	// Publishing platform API
	PlatformBaseURL string
	PlatformToken   string

	// Tracing configuration
	TracingEnabled    bool
	OTLPEndpoint      string
	TracingSampleRate float64

	LegacyEnvWarnings []string
}

// Load reads environment variables, applies defaults, and validates the result.
func Load() (*Config, error) {
	cfg := &Config{
		Environment: getEnvAny([]string{"CASTPLAN_ENV", "CP_ENV"}, "development"),
		HTTPBind:    getEnvAny([]string{"CASTPLAN_HTTP_BIND", "CP_HTTP_BIND"}, "0.0.0.0"),
		HTTPPort:    getEnvIntAny([]string{"CASTPLAN_HTTP_PORT", "CP_HTTP_PORT"}, 8080),
		DBBackend:   DatabaseBackend(getEnvAny([]string{"CASTPLAN_DB_BACKEND", "CP_DB_BACKEND"}, string(DatabaseSQLite))),
		DBDSN:       getEnvAny([]string{"CASTPLAN_DB_DSN", "CP_DB_DSN"}, ""),
		MetricsBind: getEnvAny([]string{"CASTPLAN_METRICS_BIND", "CP_METRICS_BIND"}, "127.0.0.1:9000"),

		HorizonDays:       getEnvIntAny([]string{"CASTPLAN_HORIZON_DAYS", "CP_HORIZON_DAYS"}, 30),
		SlotBufferMinutes: getEnvIntAny([]string{"CASTPLAN_SLOT_BUFFER_MINUTES", "CP_SLOT_BUFFER_MINUTES"}, 5),

		PlatformBaseURL: getEnvAny([]string{"CASTPLAN_PLATFORM_BASE_URL", "CP_PLATFORM_BASE_URL"}, ""),
		PlatformToken:   getEnvAny([]string{"CASTPLAN_PLATFORM_TOKEN", "CP_PLATFORM_TOKEN"}, ""),

		TracingEnabled:    getEnvBoolAny([]string{"CASTPLAN_TRACING_ENABLED", "CP_TRACING_ENABLED"}, false),
		OTLPEndpoint:      getEnvAny([]string{"CASTPLAN_OTLP_ENDPOINT", "CP_OTLP_ENDPOINT"}, "localhost:4317"),
		TracingSampleRate: getEnvFloatAny([]string{"CASTPLAN_TRACING_SAMPLE_RATE", "CP_TRACING_SAMPLE_RATE"}, 1.0),
	}

	if cfg.DBBackend != DatabasePostgres && cfg.DBBackend != DatabaseMySQL && cfg.DBBackend != DatabaseSQLite {
		return nil, fmt.Errorf("unsupported database backend %q", cfg.DBBackend)
	}

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("CASTPLAN_DB_DSN or CP_DB_DSN must be provided")
	}

	if cfg.HorizonDays < 1 {
		return nil, fmt.Errorf("CASTPLAN_HORIZON_DAYS must be at least 1, got %d", cfg.HorizonDays)
	}

	if cfg.SlotBufferMinutes < 0 {
		return nil, fmt.Errorf("CASTPLAN_SLOT_BUFFER_MINUTES must not be negative, got %d", cfg.SlotBufferMinutes)
	}

	if strings.EqualFold(cfg.Environment, "production") && cfg.PlatformBaseURL == "" {
		return nil, fmt.Errorf("CASTPLAN_PLATFORM_BASE_URL must be set in production")
	}

	cfg.LegacyEnvWarnings = detectLegacyEnvWarnings()

	return cfg, nil
}

// SlotBuffer returns the configured slot buffer as a duration.
func (c *Config) SlotBuffer() time.Duration {
	return time.Duration(c.SlotBufferMinutes) * time.Minute
}

func detectLegacyEnvWarnings() []string {
	legacy := map[string]string{
		"ENVIRONMENT":         "use CASTPLAN_ENV (or CP_ENV)",
		"PLATFORM_BASE_URL":   "use CASTPLAN_PLATFORM_BASE_URL (or CP_PLATFORM_BASE_URL)",
		"PLATFORM_TOKEN":      "use CASTPLAN_PLATFORM_TOKEN (or CP_PLATFORM_TOKEN)",
		"TRACING_ENABLED":     "use CASTPLAN_TRACING_ENABLED (or CP_TRACING_ENABLED)",
		"OTLP_ENDPOINT":       "use CASTPLAN_OTLP_ENDPOINT (or CP_OTLP_ENDPOINT)",
		"TRACING_SAMPLE_RATE": "use CASTPLAN_TRACING_SAMPLE_RATE (or CP_TRACING_SAMPLE_RATE)",
	}

	warnings := make([]string, 0, len(legacy))
	for key, recommendation := range legacy {
		if os.Getenv(key) != "" {
			warnings = append(warnings, fmt.Sprintf("legacy env key %s is set; %s", key, recommendation))
		}
	}
	return warnings
}

// getEnvAny returns the first non-empty environment variable value from keys, or def if none set.
func getEnvAny(keys []string, def string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return def
}

// getEnvIntAny returns the first set integer environment variable value from keys, or def.
func getEnvIntAny(keys []string, def int) int {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			if parsed, err := strconv.Atoi(v); err == nil {
				return parsed
			}
		}
	}
	return def
}

// getEnvBoolAny returns the first set boolean environment variable value from keys, or def.
func getEnvBoolAny(keys []string, def bool) bool {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			v = strings.ToLower(strings.TrimSpace(v))
			if v == "true" || v == "1" || v == "yes" {
				return true
			}
			if v == "false" || v == "0" || v == "no" {
				return false
			}
		}
	}
	return def
}

// getEnvFloatAny returns the first set float environment variable value from keys, or def.
func getEnvFloatAny(keys []string, def float64) float64 {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			if parsed, err := strconv.ParseFloat(v, 64); err == nil {
				return parsed
			}
		}
	}
	return def
}
