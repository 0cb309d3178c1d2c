package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, StoreDriverPostgres, cfg.StoreDriver)
	assert.Equal(t, []string{"2"}, cfg.HomePrefixes)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.False(t, cfg.RecordRejected)
	assert.Equal(t, 15*time.Second, cfg.ShutdownTimeout)
	assert.Contains(t, cfg.DatabaseDSN, "dbname=bank_db")
	assert.Contains(t, cfg.DatabaseDSN, "sslmode=disable")
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("HOME_CARD_PREFIXES", "2200, 2202 ,")
	t.Setenv("RECORD_REJECTED_TRANSFERS", "true")
	t.Setenv("DB_MAX_OPEN_CONNS", "8")
	t.Setenv("DB_MAX_IDLE_CONNS", "4")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, StoreDriverMemory, cfg.StoreDriver)
	assert.Equal(t, []string{"2200", "2202"}, cfg.HomePrefixes)
	assert.True(t, cfg.RecordRejected)
	assert.Equal(t, 8, cfg.DBMaxOpenConns)
	assert.Equal(t, 4, cfg.DBMaxIdleConns)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "unknown driver", key: "STORE_DRIVER", value: "mysql"},
		{name: "non numeric prefix", key: "HOME_CARD_PREFIXES", value: "22a"},
		{name: "bad bool", key: "RECORD_REJECTED_TRANSFERS", value: "maybe"},
		{name: "bad duration", key: "SHUTDOWN_TIMEOUT", value: "soon"},
		{name: "idle above open", key: "DB_MAX_IDLE_CONNS", value: "99"},
		{name: "bad level", key: "LOG_LEVEL", value: "trace"},
		{name: "channel id without key", key: "CHANNEL_ID", value: "app"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestNormalizeConnectionString(t *testing.T) {
	got := normalizeConnectionString("Host=db;Port=5433;Database=bank;Username=app;Password=secret;CommandTimeout=10")
	assert.Equal(t, "host=db port=5433 dbname=bank user=app password=secret statement_timeout=10s sslmode=disable", got)

	url := "postgres://app:secret@db:5432/bank?sslmode=require"
	assert.Equal(t, url, normalizeConnectionString(url))

	assert.Equal(t, "host=db sslmode=require", normalizeConnectionString("Host=db;SSLMode=require"))
}
