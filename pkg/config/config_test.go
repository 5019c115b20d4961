package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnvVars clears all premium-related environment variables.
func clearEnvVars() {
	envVars := []string{
		"APP_ENV", "LOG_LEVEL", "PREMIUM_USER_ID", "PREMIUM_DEVICE_ID",
		"PREMIUM_ENABLED", "PREMIUM_PRODUCT_IDS", "PREMIUM_DEFAULT_PRODUCT_ID",
		"PREMIUM_PREFERRED_BASE_PLAN", "PREMIUM_API_TOKEN",
		"BILLING_GATEWAY_URL", "BILLING_GATEWAY_API_KEY",
		"DATABASE_URL", "PREMIUM_SQLITE_PATH", "REDIS_URL",
		"RABBITMQ_URL", "BILLING_EVENT_EXCHANGE", "BILLING_EVENT_QUEUE",
		"PREMIUM_REQUEST_TIMEOUT",
	}
	for _, v := range envVars {
		os.Unsetenv(v)
	}
}

func TestLoad_DefaultValues(t *testing.T) {
	clearEnvVars()
	defer clearEnvVars()

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "", cfg.UserID)
	assert.Equal(t, "local", cfg.DeviceID)

	assert.True(t, cfg.PremiumEnabled)
	assert.Equal(t, []string{"premium.monthly", "premium.yearly"}, cfg.ProductIDs)
	assert.Equal(t, "premium.monthly", cfg.DefaultProductID)
	assert.Equal(t, "monthly", cfg.PreferredBasePlan)

	assert.Equal(t, "", cfg.GatewayURL)
	assert.Equal(t, "", cfg.DatabaseURL)
	assert.Contains(t, cfg.SQLitePath, ".premium/profiles.db")

	assert.Equal(t, "billing.events", cfg.EventExchange)
	assert.Equal(t, "premium.purchases", cfg.EventQueue)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
}

func TestLoad_WithCustomEnvVars(t *testing.T) {
	clearEnvVars()
	defer clearEnvVars()

	os.Setenv("APP_ENV", "production")
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("PREMIUM_ENABLED", "false")
	os.Setenv("PREMIUM_PRODUCT_IDS", "pro.monthly, pro.yearly")
	os.Setenv("PREMIUM_DEFAULT_PRODUCT_ID", "pro.yearly")
	os.Setenv("BILLING_GATEWAY_URL", "https://billing.example.com")
	os.Setenv("PREMIUM_REQUEST_TIMEOUT", "10s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.AppEnv)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.PremiumEnabled)
	assert.Equal(t, []string{"pro.monthly", "pro.yearly"}, cfg.ProductIDs)
	assert.Equal(t, "pro.yearly", cfg.DefaultProductID)
	assert.Equal(t, "https://billing.example.com", cfg.GatewayURL)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
}

func TestConfig_IsDevelopment(t *testing.T) {
	tests := []struct {
		appEnv   string
		expected bool
	}{
		{"development", true},
		{"production", false},
		{"staging", false},
	}

	for _, tt := range tests {
		t.Run(tt.appEnv, func(t *testing.T) {
			cfg := &Config{AppEnv: tt.appEnv}
			assert.Equal(t, tt.expected, cfg.IsDevelopment())
		})
	}
}

func TestConfig_IsProduction(t *testing.T) {
	cfg := &Config{AppEnv: "production"}
	assert.True(t, cfg.IsProduction())

	cfg = &Config{AppEnv: "development"}
	assert.False(t, cfg.IsProduction())
}

func TestGetEnv(t *testing.T) {
	value := getEnv("NON_EXISTENT_VAR", "default")
	assert.Equal(t, "default", value)

	os.Setenv("TEST_VAR", "custom")
	defer os.Unsetenv("TEST_VAR")
	value = getEnv("TEST_VAR", "default")
	assert.Equal(t, "custom", value)
}

func TestGetBoolEnv(t *testing.T) {
	value := getBoolEnv("NON_EXISTENT_BOOL", true)
	assert.True(t, value)

	os.Setenv("TEST_BOOL", "false")
	defer os.Unsetenv("TEST_BOOL")
	value = getBoolEnv("TEST_BOOL", true)
	assert.False(t, value)

	os.Setenv("TEST_INVALID_BOOL", "not-a-bool")
	defer os.Unsetenv("TEST_INVALID_BOOL")
	value = getBoolEnv("TEST_INVALID_BOOL", true)
	assert.True(t, value)
}

func TestGetDurationEnv(t *testing.T) {
	value := getDurationEnv("NON_EXISTENT_DUR", 5*time.Second)
	assert.Equal(t, 5*time.Second, value)

	os.Setenv("TEST_DUR", "10m")
	defer os.Unsetenv("TEST_DUR")
	value = getDurationEnv("TEST_DUR", 5*time.Second)
	assert.Equal(t, 10*time.Minute, value)
}

func TestGetListEnv(t *testing.T) {
	value := getListEnv("NON_EXISTENT_LIST", []string{"a"})
	assert.Equal(t, []string{"a"}, value)

	os.Setenv("TEST_LIST", "x, y ,z")
	defer os.Unsetenv("TEST_LIST")
	value = getListEnv("TEST_LIST", []string{"a"})
	assert.Equal(t, []string{"x", "y", "z"}, value)

	os.Setenv("TEST_LIST_BLANK", " , ,")
	defer os.Unsetenv("TEST_LIST_BLANK")
	value = getListEnv("TEST_LIST_BLANK", []string{"a"})
	assert.Equal(t, []string{"a"}, value)
}
