package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"APP_PORT", "BACKEND_TYPE", "BACKEND_BASE_URL", "REFRESH_INTERVAL", "DEFAULT_PAGE_SIZE", "APP_TIMEZONE", "APP_LOCALE", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, BackendHTTP, cfg.Backend.Type)
	assert.Equal(t, "http://localhost:3000/api", cfg.Backend.BaseURL)
	assert.Equal(t, 2*time.Minute, cfg.Dashboard.RefreshInterval)
	assert.Equal(t, 20, cfg.Dashboard.DefaultPageSize)
	assert.Equal(t, language.French, cfg.Language())
	assert.Empty(t, cfg.App.CORSAllowedOrigins)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_PORT", "9090")
	t.Setenv("APP_TIMEZONE", "Europe/Paris")
	t.Setenv("BACKEND_TYPE", "POSTGRES")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("REFRESH_INTERVAL", "30s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, BackendPostgres, cfg.Backend.Type)
	assert.Equal(t, 30*time.Second, cfg.Dashboard.RefreshInterval)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.App.CORSAllowedOrigins)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Paris", loc.String())
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Setenv("APP_PORT", "http")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("APP_PORT", "8080")
	t.Setenv("REFRESH_INTERVAL", "often")
	_, err = Load()
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			App:       AppConfig{Port: 8080, Timezone: "UTC", Locale: "fr"},
			Backend:   BackendConfig{Type: BackendHTTP, BaseURL: "http://localhost:3000/api", Timeout: time.Second},
			Dashboard: DashboardConfig{RefreshInterval: time.Minute, SessionIdleTimeout: time.Minute, DefaultPageSize: 20},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.App.Port = 0 }},
		{"bad timezone", func(c *Config) { c.App.Timezone = "Mars/Olympus" }},
		{"relative base url", func(c *Config) { c.Backend.BaseURL = "/api" }},
		{"unknown backend", func(c *Config) { c.Backend.Type = "grpc" }},
		{"postgres without password", func(c *Config) { c.Backend.Type = BackendPostgres }},
		{"page size too large", func(c *Config) { c.Dashboard.DefaultPageSize = 500 }},
		{"no refresh interval", func(c *Config) { c.Dashboard.RefreshInterval = 0 }},
	}

	base := valid()
	require.NoError(t, base.Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestConfig_SlogLevel(t *testing.T) {
	c := Config{App: AppConfig{LogLevel: "debug"}}
	assert.Equal(t, slog.LevelDebug, c.SlogLevel())

	c.App.LogLevel = "loud"
	assert.Equal(t, slog.LevelInfo, c.SlogLevel())
}

func TestConfig_DatabaseURL(t *testing.T) {
	c := Config{Database: DatabaseConfig{User: "app", Password: "p@ss", Host: "db", Port: 5432, Name: "attendance", SSLMode: "disable"}}
	assert.Equal(t, "postgres://app:p%40ss@db:5432/attendance?sslmode=disable", c.DatabaseURL())
}
