package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime settings loaded from the environment.
type Config struct {
	StatementsDir  string // folder holding the statement files
	StatementsGlob string // file pattern inside StatementsDir
	ReportPath     string // output file; defaults to <dir>/movimientos_bancarios.<format>
	ReportFormat   string // "xlsx" or "csv"
	Layout         string // statement layout name
	Workers        int    // documents processed in parallel
	LogLevel       string
	Port           string
	ReportTTL      time.Duration // how long the API keeps processed reports

	// Warnings collects values that were invalid and replaced by defaults.
	Warnings []string
}

// Load reads envFiles, or ./.env if present when none are given, then the
// process environment. Invalid values fall back to defaults and are
// reported in Warnings.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		if len(envFiles) > 0 || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading env file: %w", err)
		}
	}

	cfg := &Config{
		StatementsDir:  getEnv("STATEMENTS_DIR", "."),
		StatementsGlob: getEnv("STATEMENTS_GLOB", "*.pdf"),
		ReportPath:     getEnv("REPORT_PATH", ""),
		ReportFormat:   strings.ToLower(getEnv("REPORT_FORMAT", "xlsx")),
		Layout:         getEnv("LAYOUT", "negocios"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Port:           getEnv("PORT", "8080"),
	}

	cfg.Workers = cfg.getEnvAsInt("WORKERS", 1)
	if cfg.Workers < 1 {
		cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("WORKERS must be at least 1, got %d; using 1", cfg.Workers))
		cfg.Workers = 1
	}
	cfg.ReportTTL = cfg.getEnvAsDuration("REPORT_TTL", 30*time.Minute)

	if cfg.ReportFormat != "xlsx" && cfg.ReportFormat != "csv" {
		cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("unknown REPORT_FORMAT %q; using xlsx", cfg.ReportFormat))
		cfg.ReportFormat = "xlsx"
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func (c *Config) getEnvAsInt(key string, fallback int) int {
	s := getEnv(key, "")
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		c.Warnings = append(c.Warnings, fmt.Sprintf("invalid %s %q; using %d", key, s, fallback))
		return fallback
	}
	return n
}

func (c *Config) getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	s := getEnv(key, "")
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		c.Warnings = append(c.Warnings, fmt.Sprintf("invalid %s %q; using %s", key, s, fallback))
		return fallback
	}
	return d
}
