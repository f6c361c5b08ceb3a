package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/inventory-ledger/config"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"HTTP_PORT", "STORE_DRIVER", "BACKUP_INTERVAL", "LOW_STOCK_THRESHOLD", "ALLOWED_ORIGINS", "TIMEZONE"} {
		t.Setenv(k, "")
	}

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, config.DriverSQLite, cfg.StoreDriver)
	assert.Equal(t, 7*24*time.Hour, cfg.BackupInterval)
	assert.Equal(t, 5.0, cfg.LowStockThreshold)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "JSON")
	t.Setenv("BACKUP_INTERVAL", "3600")
	t.Setenv("LOW_STOCK_THRESHOLD", "2.5")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("TIMEZONE", "UTC")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.DriverJSON, cfg.StoreDriver)
	assert.Equal(t, time.Hour, cfg.BackupInterval)
	assert.Equal(t, 2.5, cfg.LowStockThreshold)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}

func TestLoad_InvalidDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("TIMEZONE", "")
	_, err := config.Load()
	assert.Error(t, err)
}
