// Package common provides shared utilities for fxtrend
package common

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// ErrMissingAPIKey is returned when no provider credential can be resolved.
var ErrMissingAPIKey = errors.New("API key not found")

// Config holds all configuration for fxtrend
type Config struct {
	Environment string        `toml:"environment" validate:"required"`
	EnvFile     string        `toml:"env_file"` // dotenv file loaded before env overrides, default ".env"
	Series      SeriesConfig  `toml:"series"`
	Clients     ClientsConfig `toml:"clients"`
	Chart       ChartConfig   `toml:"chart"`
	Logging     LoggingConfig `toml:"logging"`
}

// SeriesConfig names the single series a run reports on
type SeriesConfig struct {
	Code     string `toml:"code" validate:"required"`
	Currency string `toml:"currency" validate:"required"` // unit label in the console report, e.g. "TL"
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	EVDS EVDSConfig `toml:"evds"`
}

// EVDSConfig holds EVDS API configuration
type EVDSConfig struct {
	BaseURL   string `toml:"base_url" validate:"required,url"`
	APIKey    string `toml:"api_key"`
	RateLimit int    `toml:"rate_limit" validate:"gte=1"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *EVDSConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// ChartConfig holds chart output configuration
type ChartConfig struct {
	OutputPath string `toml:"output_path" validate:"required"`
	Width      int    `toml:"width" validate:"gte=200"`
	Height     int    `toml:"height" validate:"gte=100"`
	Title      string `toml:"title"`
	XLabel     string `toml:"x_label"`
	YLabel     string `toml:"y_label"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level    string   `toml:"level" validate:"oneof=trace debug info warn error"`
	Outputs  []string `toml:"outputs" validate:"dive,oneof=console stdout file"`
	FilePath string   `toml:"file_path"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		EnvFile:     ".env",
		Series: SeriesConfig{
			Code:     "TP.DK.USD.A.YTL",
			Currency: "TL",
		},
		Clients: ClientsConfig{
			EVDS: EVDSConfig{
				BaseURL:   "https://evds2.tcmb.gov.tr/service/evds",
				RateLimit: 2,
				Timeout:   "30s",
			},
		},
		Chart: ChartConfig{
			OutputPath: "usd_try.png",
			Width:      1200,
			Height:     600,
			Title:      "USD/TRY Time Series",
			XLabel:     "Date",
			YLabel:     "Exchange Rate (TRY)",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Outputs:  []string{"console"},
			FilePath: "./logs/fxtrend.log",
		},
	}
}

// LoadConfig loads configuration from files with dotenv and environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := loadEnvFile(config.EnvFile); err != nil {
		return nil, err
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// loadEnvFile populates the process environment from a dotenv file.
// Variables already set in the environment win; a missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("FXTREND_ENV"); env != "" {
		config.Environment = env
	}

	if level := os.Getenv("FXTREND_LOG_LEVEL"); level != "" {
		config.Logging.Level = strings.ToLower(level)
	}

	if code := os.Getenv("FXTREND_SERIES_CODE"); code != "" {
		config.Series.Code = code
	}

	if u := os.Getenv("FXTREND_EVDS_BASE_URL"); u != "" {
		config.Clients.EVDS.BaseURL = u
	}
	if v := os.Getenv("FXTREND_EVDS_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Clients.EVDS.RateLimit = n
		}
	}
	if v := os.Getenv("FXTREND_EVDS_TIMEOUT"); v != "" {
		config.Clients.EVDS.Timeout = v
	}

	if out := os.Getenv("FXTREND_CHART_OUTPUT"); out != "" {
		config.Chart.OutputPath = out
	}
}

// Validate checks struct constraints on the loaded configuration
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// ResolveAPIKey resolves an API key from environment or the config file fallback.
// There is no default: an unresolved key is a fatal configuration error.
func ResolveAPIKey(name string, fallback string) (string, error) {
	keyToEnvMapping := map[string][]string{
		"evds_api_key": {"TCMB_API_KEY", "FXTREND_EVDS_API_KEY"},
	}

	// Environment variables first (includes values loaded from the env file)
	if envVarNames, ok := keyToEnvMapping[name]; ok {
		for _, envVarName := range envVarNames {
			if envValue := strings.TrimSpace(os.Getenv(envVarName)); envValue != "" {
				return envValue, nil
			}
		}
	}

	if fallback = strings.TrimSpace(fallback); fallback != "" {
		return fallback, nil
	}

	if envVarNames, ok := keyToEnvMapping[name]; ok {
		return "", fmt.Errorf("%w: '%s' (set %s or clients.evds.api_key)", ErrMissingAPIKey, name, strings.Join(envVarNames, " or "))
	}
	return "", fmt.Errorf("%w: '%s'", ErrMissingAPIKey, name)
}
