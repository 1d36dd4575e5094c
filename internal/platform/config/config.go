package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Log formats accepted by LOG_FORMAT.
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool

	LogLevel  string
	LogFormat string

	// JWTSecret enables bearer auth on /api/v1 when non-empty.
	JWTSecret          string
	RateLimit          string
	CORSAllowedOrigins []string
	MaxUploadBytes     int64

	// OutputPrecision rounds rendered amounts when > 0; 0 renders them exactly.
	OutputPrecision int
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", LogFormatJSON)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("RATE_LIMIT", "100-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("MAX_UPLOAD_BYTES", 10<<20)
	v.SetDefault("OUTPUT_PRECISION", 0)

	// Environment variables override defaults and .env values.
	v.AutomaticEnv()

	cfg := &Config{
		Port:               v.GetString("PORT"),
		IsProduction:       v.GetBool("IS_PRODUCTION"),
		LogLevel:           strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFormat:          strings.ToLower(v.GetString("LOG_FORMAT")),
		JWTSecret:          v.GetString("JWT_SECRET"),
		RateLimit:          v.GetString("RATE_LIMIT"),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		MaxUploadBytes:     v.GetInt64("MAX_UPLOAD_BYTES"),
		OutputPrecision:    v.GetInt("OUTPUT_PRECISION"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.LogFormat != LogFormatJSON && cfg.LogFormat != LogFormatText {
		return nil, fmt.Errorf("invalid LOG_FORMAT %q: want %s or %s", cfg.LogFormat, LogFormatJSON, LogFormatText)
	}
	if cfg.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_BYTES %d: must be positive", cfg.MaxUploadBytes)
	}
	if cfg.OutputPrecision < 0 {
		return nil, fmt.Errorf("invalid OUTPUT_PRECISION %d: must not be negative", cfg.OutputPrecision)
	}

	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
