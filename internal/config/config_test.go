package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"APP_ENV":               "",
		"PORT":                  "",
		"CHECKOUT_STRICT_CODES": "",
		"CHECKOUT_MAX_ITEMS":    "",
		"OBS_ENABLE_TRACING":    "",
		"RATE_LIMIT":            "",
	})
	require.NoError(t, err)
	require.Equal(t, "development", cfg.AppEnv)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.False(t, cfg.StrictCodes)
	require.Equal(t, 1000, cfg.MaxItems)
	require.False(t, cfg.TracingEnabled)
	require.Empty(t, cfg.RateLimit)
	require.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"PORT":                  ":9090",
		"CHECKOUT_STRICT_CODES": "yes",
		"CHECKOUT_MAX_ITEMS":    "50",
		"CORS_ALLOWED_ORIGINS":  "https://a.example, ,https://b.example",
		"RATE_LIMIT":            "100-M",
		"HTTP_SHUTDOWN_TIMEOUT": "bogus",
		"OBS_ENABLE_PROMETHEUS": "off",
	})
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddr())
	require.True(t, cfg.StrictCodes)
	require.Equal(t, 50, cfg.MaxItems)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	require.Equal(t, "100-M", cfg.RateLimit)
	require.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	require.False(t, cfg.MetricsEnabled)
}

func TestLoadRejectsNegativeMaxItems(t *testing.T) {
	_, err := LoadForTests(map[string]string{"CHECKOUT_MAX_ITEMS": "-1"})
	require.Error(t, err)
}

func TestMustLoad(t *testing.T) {
	t.Setenv("CHECKOUT_MAX_ITEMS", "25")
	require.Equal(t, 25, MustLoad().MaxItems)

	t.Setenv("CHECKOUT_MAX_ITEMS", "-1")
	require.Panics(t, func() { MustLoad() })
}
