package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds runtime settings. Values come from an optional YAML file,
// then environment variables override them.
type Config struct {
	DatabaseURL       string        `yaml:"database_url"`
	SQLitePath        string        `yaml:"sqlite_path"`
	OpenWeatherAPIKey string        `yaml:"openweather_api_key"`
	AirQualityAPIKey  string        `yaml:"air_quality_api_key"`
	OpenWeatherURL    string        `yaml:"openweather_base_url"`
	AirVisualURL      string        `yaml:"airvisual_base_url"`
	DefaultCity       string        `yaml:"default_city"`
	HTTPTimeout       time.Duration `yaml:"http_timeout"`
	Port              string        `yaml:"port"`
	Env               string        `yaml:"env"`
	LogLevel          string        `yaml:"log_level"`
}

const (
	defaultPort        = "8080"
	defaultEnv         = "development"
	defaultLogLevel    = "info"
	defaultCity        = "Manila"
	defaultHTTPTimeout = 10 * time.Second
	defaultConfigFile  = "config.yaml"
)

// Load reads .env, the optional YAML file named by CONFIG_FILE, and the environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using system environment")
	}

	cfg := &Config{}

	configFile := getEnv("CONFIG_FILE", defaultConfigFile)
	data, err := os.ReadFile(configFile)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// optional
	default:
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	overrideString(&cfg.DatabaseURL, "DATABASE_URL")
	overrideString(&cfg.SQLitePath, "SQLITE_PATH")
	overrideString(&cfg.OpenWeatherAPIKey, "OPENWEATHER_API_KEY")
	overrideString(&cfg.AirQualityAPIKey, "OPENAIR_QUALITY_API_KEY")
	overrideString(&cfg.OpenWeatherURL, "OPENWEATHER_BASE_URL")
	overrideString(&cfg.AirVisualURL, "AIRVISUAL_BASE_URL")
	overrideString(&cfg.DefaultCity, "DEFAULT_CITY")
	overrideString(&cfg.Port, "PORT")
	overrideString(&cfg.Env, "GO_ENV")
	overrideString(&cfg.LogLevel, "LOG_LEVEL")

	if v := os.Getenv("HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
		}
		cfg.HTTPTimeout = d
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// IsProduction reports whether GO_ENV is production
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// SlogLevel parses the configured level, defaulting to info
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c *Config) applyDefaults() {
	if c.Port == "" {
		c.Port = defaultPort
	}
	if c.Env == "" {
		c.Env = defaultEnv
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	if c.DefaultCity == "" {
		c.DefaultCity = defaultCity
	}
	if c.HTTPTimeout == 0 {
		c.HTTPTimeout = defaultHTTPTimeout
	}
}

func (c *Config) validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("port must be numeric, got %q", c.Port)
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("http timeout must be positive, got %s", c.HTTPTimeout)
	}
	return nil
}

func overrideString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
