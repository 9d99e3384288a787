package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencampus/campus/internal/config"
)

const validSecret = "0123456789abcdef0123456789abcdef"

// setRequired sets the minimum environment for Load to succeed.
func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("CAMPUS_JWT_SECRET", validSecret)
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "campus", cfg.Database.User)
	assert.Equal(t, "campus_dev", cfg.Database.DBName)
	assert.Equal(t, 25, cfg.Database.MaxConns)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 12*time.Hour, cfg.JWT.TokenTTL)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 30*time.Second, cfg.Usage.FlushInterval)
	assert.Equal(t, 7, cfg.Usage.WindowDays)
	assert.Empty(t, cfg.Google.ClientID)
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("CAMPUS_JWT_SECRET", "")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CAMPUS_JWT_SECRET is required")
}

func TestLoadRejectsShortJWTSecret(t *testing.T) {
	t.Setenv("CAMPUS_JWT_SECRET", "too-short")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 32 characters")
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("CAMPUS_DB_HOST", "db.internal")
	t.Setenv("CAMPUS_DB_PORT", "5433")
	t.Setenv("CAMPUS_JWT_TOKEN_TTL", "45m")
	t.Setenv("CAMPUS_CORS_ORIGINS", "https://north.campus.example, https://south.campus.example")
	t.Setenv("CAMPUS_USAGE_WINDOW_DAYS", "14")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, 45*time.Minute, cfg.JWT.TokenTTL)
	assert.Equal(t, []string{"https://north.campus.example", "https://south.campus.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 14, cfg.Usage.WindowDays)
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "bad_int", key: "CAMPUS_DB_PORT", value: "not-a-port"},
		{name: "bad_duration", key: "CAMPUS_JWT_TOKEN_TTL", value: "forever"},
		{name: "bad_bool", key: "CAMPUS_SELF_HOSTED", value: "yep"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.value)

			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadRejectsOutOfBoundsValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "port_zero", key: "CAMPUS_DB_PORT", value: "0"},
		{name: "port_too_big", key: "CAMPUS_DB_PORT", value: "70000"},
		{name: "max_conns_zero", key: "CAMPUS_DB_MAX_CONNS", value: "0"},
		{name: "negative_ttl", key: "CAMPUS_JWT_TOKEN_TTL", value: "-1h"},
		{name: "zero_flush", key: "CAMPUS_USAGE_FLUSH_INTERVAL", value: "0s"},
		{name: "zero_window", key: "CAMPUS_USAGE_WINDOW_DAYS", value: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.value)

			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}

func TestDatabaseDSN(t *testing.T) {
	t.Parallel()

	db := config.DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "campus",
		Password: "hunter2",
		DBName:   "campus_prod",
		SSLMode:  "require",
	}

	assert.Equal(t,
		"host=db.internal port=5433 user=campus password=hunter2 dbname=campus_prod sslmode=require",
		db.DSN(),
	)
}
