// Package config loads service configuration from the environment, .env files
// and an optional .cardprices.yaml file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gorm.io/gorm/logger"

	"github.com/ajaypar09/Projects/internal/services"
)

// Config holds every setting the server and CLI pass to constructors
type Config struct {
	DBPath             string
	DBLogLevel         logger.LogLevel
	Port               string
	CORSAllowedOrigins []string

	LogLevel  string
	LogFormat string

	PriceChartingToken   string
	PriceChartingBaseURL string
	TCGplayerPublicKey   string
	TCGplayerPrivateKey  string
	TCGplayerBaseURL     string

	ProviderTimeout       time.Duration
	ProviderRatePerSecond float64
	ProviderCacheSize     int
	ProviderCacheTTL      time.Duration

	ResolverPoolLimit int

	// ConfigFile is the config file that was read, if any
	ConfigFile string
}

var defaults = map[string]any{
	"DB_PATH":                  "pokemon_cards.db",
	"DB_LOG_LEVEL":             "warn",
	"PORT":                     "8080",
	"CORS_ALLOWED_ORIGINS":     "",
	"LOG_LEVEL":                "info",
	"LOG_FORMAT":               "auto",
	"PRICECHARTING_TOKEN":      "",
	"PRICECHARTING_BASE_URL":   "",
	"TCGPLAYER_PUBLIC_KEY":     "",
	"TCGPLAYER_PRIVATE_KEY":    "",
	"TCGPLAYER_BASE_URL":       "",
	"PROVIDER_TIMEOUT":         "10s",
	"PROVIDER_RATE_PER_SECOND": 5.0,
	"PROVIDER_CACHE_SIZE":      256,
	"PROVIDER_CACHE_TTL":       "15m",
	"RESOLVER_POOL_LIMIT":      50,
}

// Load reads configuration in order of precedence:
// 1. Environment variables
// 2. .env and .env.local files
// 3. configFile, or .cardprices.yaml in the working or home directory
// 4. Defaults
func Load(configFile string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(".cardprices")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	dbLogLevel, err := parseDBLogLevel(v.GetString("DB_LOG_LEVEL"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DBPath:             v.GetString("DB_PATH"),
		DBLogLevel:         dbLogLevel,
		Port:               v.GetString("PORT"),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),

		LogLevel:  v.GetString("LOG_LEVEL"),
		LogFormat: v.GetString("LOG_FORMAT"),

		PriceChartingToken:   v.GetString("PRICECHARTING_TOKEN"),
		PriceChartingBaseURL: v.GetString("PRICECHARTING_BASE_URL"),
		TCGplayerPublicKey:   v.GetString("TCGPLAYER_PUBLIC_KEY"),
		TCGplayerPrivateKey:  v.GetString("TCGPLAYER_PRIVATE_KEY"),
		TCGplayerBaseURL:     v.GetString("TCGPLAYER_BASE_URL"),

		ProviderTimeout:       v.GetDuration("PROVIDER_TIMEOUT"),
		ProviderRatePerSecond: v.GetFloat64("PROVIDER_RATE_PER_SECOND"),
		ProviderCacheSize:     v.GetInt("PROVIDER_CACHE_SIZE"),
		ProviderCacheTTL:      v.GetDuration("PROVIDER_CACHE_TTL"),

		ResolverPoolLimit: v.GetInt("RESOLVER_POOL_LIMIT"),

		ConfigFile: v.ConfigFileUsed(),
	}

	if cfg.DBPath == "" {
		return nil, fmt.Errorf("DB_PATH must not be empty")
	}
	if cfg.ProviderTimeout <= 0 {
		return nil, fmt.Errorf("PROVIDER_TIMEOUT must be positive, got %q", v.GetString("PROVIDER_TIMEOUT"))
	}
	return cfg, nil
}

// ProviderSettings returns the price provider portion of the config
func (c *Config) ProviderSettings() services.ProviderSettings {
	return services.ProviderSettings{
		PriceChartingToken:   c.PriceChartingToken,
		PriceChartingBaseURL: c.PriceChartingBaseURL,
		TCGplayerPublicKey:   c.TCGplayerPublicKey,
		TCGplayerPrivateKey:  c.TCGplayerPrivateKey,
		TCGplayerBaseURL:     c.TCGplayerBaseURL,
		Timeout:              c.ProviderTimeout,
		RatePerSecond:        c.ProviderRatePerSecond,
		CacheSize:            c.ProviderCacheSize,
		CacheTTL:             c.ProviderCacheTTL,
	}
}

// loadEnvFiles loads .env then .env.local. Variables already set in the
// environment are never overridden.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}

func parseDBLogLevel(level string) (logger.LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "silent", "off", "none":
		return logger.Silent, nil
	case "error":
		return logger.Error, nil
	case "warn", "warning", "":
		return logger.Warn, nil
	case "info":
		return logger.Info, nil
	default:
		return 0, fmt.Errorf("invalid DB_LOG_LEVEL %q", level)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
