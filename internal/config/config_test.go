package config_test

import (
	"testing"
	"time"

	"github.com/UnknownOlympus/pinpoint/internal/config"
	"github.com/stretchr/testify/assert"
)

func Test_MustLoadFromEnv(t *testing.T) {
	t.Setenv("PINPOINT_ENV", "local")
	t.Setenv("PINPOINT_GEOCODER_INTERVAL", "1s")
	t.Setenv("PINPOINT_PROVIDER_KEY", "testAPIKey")
	t.Setenv("PINPOINT_CORS_ORIGINS", "http://localhost:5173, https://review.example.org")
	t.Setenv("DB_HOST", "testHost")
	t.Setenv("DB_PORT", "12345")
	t.Setenv("DB_USERNAME", "admin")
	t.Setenv("DB_PASSWORD", "adminpass")
	t.Setenv("DB_NAME", "testName")

	cfg := config.MustLoad()

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "testHost", cfg.Database.Host)
	assert.Equal(t, "12345", cfg.Database.Port)
	assert.Equal(t, "admin", cfg.Database.User)
	assert.Equal(t, "adminpass", cfg.Database.Password)
	assert.Equal(t, "testName", cfg.Database.Name)
	assert.Equal(t, "require", cfg.Database.SSLMode)
	assert.Equal(t, time.Second, cfg.Geocoder.Interval)
	assert.Equal(t, "google", cfg.Geocoder.ProviderType)
	assert.Equal(t, "mx", cfg.Geocoder.Region)
	assert.Equal(t, "testAPIKey", cfg.Geocoder.APIKey)
	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "static", cfg.StaticDir)
	assert.Equal(t, []string{"http://localhost:5173", "https://review.example.org"}, cfg.CORSOrigins)
}

func TestMustLoad_IntervalFloor(t *testing.T) {
	t.Setenv("PINPOINT_GEOCODER_INTERVAL", "10ms")

	cfg := config.MustLoad()

	assert.Equal(t, config.MinGeocodeInterval, cfg.Geocoder.Interval)
}

func TestMustLoad_IntervalError(t *testing.T) {
	t.Setenv("PINPOINT_GEOCODER_INTERVAL", "error_value")

	assert.PanicsWithValue(t, "failed to parse geocoder interval from configuration", func() {
		config.MustLoad()
	})
}

func TestMustLoad_PortError(t *testing.T) {
	t.Setenv("PINPOINT_HTTP_PORT", "error_value")

	assert.PanicsWithValue(t, "failed to parse port for review API from configuration", func() {
		config.MustLoad()
	})
}
