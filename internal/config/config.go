// Package config loads runtime settings from the environment, an optional .env file
// and an optional YAML config file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata" // Location must resolve on hosts without a zoneinfo database

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. NETWORTH_HTTP_ADDR
const EnvPrefix = "NETWORTH"

// Store backends
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Config holds application configuration
type Config struct {
	GRPCAddr     string        `mapstructure:"grpc_addr"`
	HTTPAddr     string        `mapstructure:"http_addr"`
	APIToken     string        `mapstructure:"api_token"`
	LogLevel     string        `mapstructure:"log_level"`
	LogPretty    bool          `mapstructure:"log_pretty"`
	StoreBackend string        `mapstructure:"store_backend"`
	DataDir      string        `mapstructure:"data_dir"`
	DatabaseURL  string        `mapstructure:"database_url"`
	QuoteBaseURL string        `mapstructure:"quote_base_url"`
	QuoteTimeout time.Duration `mapstructure:"quote_timeout"`
	// Location is the time zone whose calendar day a snapshot is recorded under
	Location string `mapstructure:"location"`
}

var defaults = map[string]interface{}{
	"grpc_addr":      ":8080",
	"http_addr":      ":8081",
	"api_token":      "dev-token",
	"log_level":      "info",
	"log_pretty":     false,
	"store_backend":  BackendFile,
	"data_dir":       "./data",
	"database_url":   "",
	"quote_base_url": "https://query1.finance.yahoo.com",
	"quote_timeout":  "10s",
	"location":       "Australia/Sydney",
}

// Load reads configuration. Precedence: environment, then CONFIG_FILE, then defaults.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// unprefixed names kept for existing deployments
	_ = v.BindEnv("api_token", EnvPrefix+"_API_TOKEN", "API_TOKEN")
	_ = v.BindEnv("database_url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL")

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file failed (%s): %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))); err != nil {
		return nil, fmt.Errorf("parsing config failed: %w", err)
	}

	if cfg.StoreBackend == BackendPostgres && cfg.DatabaseURL == "" {
		cfg.DatabaseURL = postgresDSNFromEnv()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration is usable
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendFile, BackendSQLite:
		if c.DataDir == "" {
			return fmt.Errorf("data_dir is required for the %s store", c.StoreBackend)
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("database_url is required for the postgres store")
		}
	default:
		return fmt.Errorf("unknown store backend %q (want file, postgres or sqlite)", c.StoreBackend)
	}
	if c.QuoteTimeout <= 0 {
		return fmt.Errorf("quote_timeout must be positive")
	}
	if c.APIToken == "" {
		return fmt.Errorf("api_token cannot be empty")
	}
	if _, err := c.TimeLocation(); err != nil {
		return err
	}
	return nil
}

// TimeLocation resolves Location
func (c *Config) TimeLocation() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Location)
	if err != nil {
		return nil, fmt.Errorf("invalid location %q: %w", c.Location, err)
	}
	return loc, nil
}

// postgresDSNFromEnv builds a connection string from individual DB_* variables (Docker friendly)
func postgresDSNFromEnv() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_USER", "postgres"),
		getEnv("DB_PASSWORD", "postgres"),
		getEnv("DB_NAME", "networth"),
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
