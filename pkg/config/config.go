package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv   string
	LogLevel string
	UserID   string
	DeviceID string

	// Premium flow
	PremiumEnabled    bool
	ProductIDs        []string
	DefaultProductID  string
	PreferredBasePlan string

	// Billing gateway
	GatewayURL    string
	GatewayAPIKey string
	GatewayToken  string

	// Profile store
	DatabaseURL string
	SQLitePath  string

	// Tag service
	RedisURL string

	// Purchase event feed
	BrokerURL     string
	EventExchange string
	EventQueue    string

	// HTTP
	RequestTimeout time.Duration
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		UserID:   getEnv("PREMIUM_USER_ID", ""),
		DeviceID: getEnv("PREMIUM_DEVICE_ID", "local"),

		PremiumEnabled:    getBoolEnv("PREMIUM_ENABLED", true),
		ProductIDs:        getListEnv("PREMIUM_PRODUCT_IDS", []string{"premium.monthly", "premium.yearly"}),
		DefaultProductID:  getEnv("PREMIUM_DEFAULT_PRODUCT_ID", "premium.monthly"),
		PreferredBasePlan: getEnv("PREMIUM_PREFERRED_BASE_PLAN", "monthly"),

		GatewayURL:    getEnv("BILLING_GATEWAY_URL", ""),
		GatewayAPIKey: getEnv("BILLING_GATEWAY_API_KEY", ""),
		GatewayToken:  getEnv("PREMIUM_API_TOKEN", ""),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		SQLitePath:  getEnv("PREMIUM_SQLITE_PATH", defaultSQLitePath()),

		RedisURL: getEnv("REDIS_URL", ""),

		BrokerURL:     getEnv("RABBITMQ_URL", ""),
		EventExchange: getEnv("BILLING_EVENT_EXCHANGE", "billing.events"),
		EventQueue:    getEnv("BILLING_EVENT_QUEUE", "premium.purchases"),

		RequestTimeout: getDurationEnv("PREMIUM_REQUEST_TIMEOUT", 30*time.Second),
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	items := []string{}
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}

func defaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".premium/profiles.db"
	}
	return home + "/.premium/profiles.db"
}
