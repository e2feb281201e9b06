package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// MinGeocodeInterval is the smallest delay allowed between two geocoding requests.
const MinGeocodeInterval = 150 * time.Millisecond

// Config holds the configuration settings for the review API and the reconciliation commands.
//
// Fields:
// - Env: The current environment (e.g., local, development, production).
// - Port: The port the review API listens on.
// - StaticDir: Directory holding the reviewer UI (index.html and assets).
// - CORSOrigins: Origins allowed to call the review API.
// - Geocoder: Settings for the external geocoding provider.
// - Database: Configuration settings for the PostgreSQL database.
type Config struct {
	Env         string         `yaml:"env"`          // Env is the current environment: local, development, production.
	Port        int            `yaml:"http.port"`    // Port is the review API port.
	StaticDir   string         `yaml:"http.static"`  // StaticDir is served at / and /static/.
	CORSOrigins []string       `yaml:"http.origins"` // CORSOrigins lists allowed origins, "*" allows all.
	Geocoder    GeocoderConfig `yaml:"geocoder"`     // Geocoder holds the geocoding provider configuration.
	Database    PostgresConfig `yaml:"postgres"`     // Database holds the postgres database configuration.
}

// GeocoderConfig configures the external address-resolution service.
type GeocoderConfig struct {
	ProviderType string        `yaml:"provider.type"` // ProviderType selects google or nominatim.
	APIKey       string        `yaml:"api_key"`       // APIKey is required by the Google provider.
	Interval     time.Duration `yaml:"interval"`      // Interval is the minimum delay between requests.
	Region       string        `yaml:"region"`        // Region biases results towards a country code.
	AddrPrefix   string        `yaml:"addr_prefix"`   // AddrPrefix is prepended to every query.
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string `yaml:"host"`     // Host is the database server address.
	Port     string `yaml:"port"`     // Port is the database server port.
	User     string `yaml:"user"`     // User is the database user.
	Password string `yaml:"password"` // Password is the database user's password.
	Name     string `yaml:"db_name"`  // Name is the name of the database.
	SSLMode  string `yaml:"sslmode"`  // SSLMode is passed through to the connection string.
}

// MustLoad reads .env (when present) and the process environment and returns a Config.
// It panics when a value cannot be parsed.
func MustLoad() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PINPOINT_ENV", "production")
	v.SetDefault("PINPOINT_HTTP_PORT", "8000")
	v.SetDefault("PINPOINT_STATIC_DIR", "static")
	v.SetDefault("PINPOINT_CORS_ORIGINS", "*")
	v.SetDefault("PINPOINT_PROVIDER_TYPE", "google")
	v.SetDefault("PINPOINT_GEOCODER_INTERVAL", "200ms")
	v.SetDefault("PINPOINT_GEOCODER_REGION", "mx")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "require")

	interval, err := time.ParseDuration(v.GetString("PINPOINT_GEOCODER_INTERVAL"))
	if err != nil {
		panic("failed to parse geocoder interval from configuration")
	}
	if interval < MinGeocodeInterval {
		interval = MinGeocodeInterval
	}

	port, err := strconv.Atoi(v.GetString("PINPOINT_HTTP_PORT"))
	if err != nil {
		panic("failed to parse port for review API from configuration")
	}

	return &Config{
		Env:         v.GetString("PINPOINT_ENV"),
		Port:        port,
		StaticDir:   v.GetString("PINPOINT_STATIC_DIR"),
		CORSOrigins: splitList(v.GetString("PINPOINT_CORS_ORIGINS")),
		Geocoder: GeocoderConfig{
			ProviderType: v.GetString("PINPOINT_PROVIDER_TYPE"),
			APIKey:       v.GetString("PINPOINT_PROVIDER_KEY"),
			Interval:     interval,
			Region:       v.GetString("PINPOINT_GEOCODER_REGION"),
			AddrPrefix:   v.GetString("PINPOINT_ADDRESS_PREFIX"),
		},
		Database: PostgresConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USERNAME"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
	}
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
