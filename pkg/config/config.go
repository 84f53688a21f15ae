// Package config loads application configuration from environment variables
// with sensible defaults. A .env file is autoloaded by the godotenv import in
// main; nothing here touches the filesystem.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	DatabaseURL      string
	GoogleMapsAPIKey string
	OpenAIAPIKey     string
	Port             string

	// Database performance settings
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime int // minutes
	DBConnMaxIdleTime int // minutes
	DBReadTimeout     time.Duration
	DBWriteTimeout    time.Duration

	// Opening-hours behaviour
	ClosingSoonMinutes int           // "closing soon" badge threshold
	HoursCacheTTL      time.Duration // per-place day-hours cache

	// Listing defaults
	ListingPageSize int

	// OpenAI client settings (hours suggestion assist; empty key disables it)
	OpenAIModel   string
	OpenAITimeout time.Duration

	// Web interface settings
	BasePath string

	// Environment & metrics
	Env            string // development, staging, production
	MetricsEnabled bool
	MetricsPath    string
	MetricsPort    string

	// Curator roster (IP -> curator id) for admin authentication
	CuratorsYAMLPath string
}

func Load() *Config {
	dbMaxOpenConns, _ := strconv.Atoi(getEnv("DB_MAX_OPEN_CONNS", "25"))
	dbMaxIdleConns, _ := strconv.Atoi(getEnv("DB_MAX_IDLE_CONNS", "10"))
	dbConnMaxLifetime, _ := strconv.Atoi(getEnv("DB_CONN_MAX_LIFETIME_MINUTES", "10"))
	dbConnMaxIdleTime, _ := strconv.Atoi(getEnv("DB_CONN_MAX_IDLE_TIME_MINUTES", "5"))
	dbReadTO, _ := time.ParseDuration(getEnv("DB_READ_TIMEOUT", "8s"))
	dbWriteTO, _ := time.ParseDuration(getEnv("DB_WRITE_TIMEOUT", "6s"))

	closingSoon, _ := strconv.Atoi(getEnv("CLOSING_SOON_MINUTES", "60"))
	if closingSoon < 0 {
		log.Printf("[Warning] CLOSING_SOON_MINUTES is negative (%d), using 0 to disable the badge", closingSoon)
		closingSoon = 0
	}
	hoursCacheTTL, _ := time.ParseDuration(getEnv("HOURS_CACHE_TTL", "2m"))
	pageSize, _ := strconv.Atoi(getEnv("LISTING_PAGE_SIZE", "50"))

	openAITimeoutSec, _ := strconv.Atoi(getEnv("OPENAI_REQUEST_TIMEOUT_SECONDS", "60"))

	env := strings.ToLower(getEnv("ENV", "development"))
	metricsDefault := env == "development" || env == "staging"
	metricsEnabled, _ := strconv.ParseBool(getEnv("METRICS_ENABLED", strconv.FormatBool(metricsDefault)))

	return &Config{
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		GoogleMapsAPIKey: getEnv("GOOGLE_MAPS_API_KEY", ""),
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		Port:             getEnv("PORT", "8080"),

		DBMaxOpenConns:    dbMaxOpenConns,
		DBMaxIdleConns:    dbMaxIdleConns,
		DBConnMaxLifetime: dbConnMaxLifetime,
		DBConnMaxIdleTime: dbConnMaxIdleTime,
		DBReadTimeout:     dbReadTO,
		DBWriteTimeout:    dbWriteTO,

		ClosingSoonMinutes: closingSoon,
		HoursCacheTTL:      hoursCacheTTL,
		ListingPageSize:    pageSize,

		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAITimeout: time.Duration(openAITimeoutSec) * time.Second,

		BasePath: getEnv("BASE_PATH", "/"),

		Env:            env,
		MetricsEnabled: metricsEnabled,
		MetricsPath:    getEnv("METRICS_PATH", "/metrics"),
		MetricsPort:    getEnv("METRICS_PORT", "8081"),

		CuratorsYAMLPath: getEnv("CURATORS_YAML_PATH", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
