package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 13, cfg.ForecastWeeks)
	assert.Equal(t, 12, cfg.LookbackWeeks)
	assert.Equal(t, 500, cfg.InsertBatchSize)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.True(t, cfg.StartingCashBalance.IsZero())
	assert.Empty(t, cfg.RedisAddr)
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Setenv("STARTING_CASH_BALANCE", "250000.50")
	t.Setenv("FORECAST_WEEKS", "26")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("CACHE_TTL", "15m")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.True(t, decimal.RequireFromString("250000.50").Equal(cfg.StartingCashBalance))
	assert.Equal(t, 26, cfg.ForecastWeeks)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 15*time.Minute, cfg.CacheTTL)
}

func TestNewConfigErrors(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"balance not decimal", "STARTING_CASH_BALANCE", "lots"},
		{"weeks not integer", "FORECAST_WEEKS", "thirteen"},
		{"negative weeks", "FORECAST_WEEKS", "-1"},
		{"zero lookback", "LOOKBACK_WEEKS", "0"},
		{"empty db", "DB_CONN", ""},
		{"bad ttl", "CACHE_TTL", "soon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := NewConfig()
			assert.Error(t, err)
		})
	}
}
