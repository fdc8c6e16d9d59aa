package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures the runtime configuration for the service.
type Config struct {
	HTTPAddress       string        `mapstructure:"HTTP_ADDRESS"`
	DatabaseURL       string        `mapstructure:"DATABASE_URL"`
	RedisURL          string        `mapstructure:"REDIS_URL"`
	SupabaseJWTSecret string        `mapstructure:"SUPABASE_JWT_SECRET"`
	AdminEmails       []string      `mapstructure:"ADMIN_EMAILS"`
	AllowedOrigins    []string      `mapstructure:"ALLOWED_ORIGINS"`
	LogMode           string        `mapstructure:"LOG_MODE"`
	CourseCacheTTL    time.Duration `mapstructure:"COURSE_CACHE_TTL"`
	ProgressRateLimit int           `mapstructure:"PROGRESS_RATE_LIMIT"`
	OTLPEndpoint      string        `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName       string        `mapstructure:"OTEL_SERVICE_NAME"`
}

var defaults = map[string]any{
	"HTTP_ADDRESS":                ":8080",
	"DATABASE_URL":                "",
	"REDIS_URL":                   "",
	"SUPABASE_JWT_SECRET":         "",
	"ADMIN_EMAILS":                "",
	"ALLOWED_ORIGINS":             "",
	"LOG_MODE":                    "production",
	"COURSE_CACHE_TTL":            "10m",
	"PROGRESS_RATE_LIMIT":         60,
	"OTEL_EXPORTER_OTLP_ENDPOINT": "",
	"OTEL_SERVICE_NAME":           "islamic-sources-catalog",
}

// Load reads configuration from the environment with sensible defaults.
func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	cfg.AdminEmails = splitList(cfg.AdminEmails)
	cfg.AllowedOrigins = splitList(cfg.AllowedOrigins)

	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return cfg, errors.New("DATABASE_URL must be provided")
	}
	if cfg.CourseCacheTTL <= 0 {
		return cfg, errors.New("COURSE_CACHE_TTL must be positive")
	}
	if cfg.ProgressRateLimit <= 0 {
		return cfg, errors.New("PROGRESS_RATE_LIMIT must be positive")
	}
	return cfg, nil
}

// splitList trims entries and drops blanks from a comma separated setting.
func splitList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
