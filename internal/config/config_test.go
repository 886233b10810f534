package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	require.Equal(t, "mysql", cfg.Database.Driver)
	require.True(t, cfg.Claims.RequireNonce)
	require.Equal(t, 3*time.Second, cfg.Claims.NonceCooldown)
	require.Equal(t, "TS Pass", cfg.Claims.AppName)
	require.True(t, cfg.Claims.UsesRedis())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", ":memory:")
	t.Setenv("CLAIMS_LIMITER", "memory")
	t.Setenv("CLAIMS_REQUIRE_NONCE", "false")
	t.Setenv("CLAIMS_NONCE_COOLDOWN", "10s")

	cfg, err := Load()
	require.NoError(t, err)
	require.False(t, cfg.Claims.UsesRedis())
	require.False(t, cfg.Claims.RequireNonce)

	pool := cfg.Database.Pool()
	require.Equal(t, "sqlite", pool.Driver)
	require.Equal(t, ":memory:", pool.DSN())
	require.Equal(t, "localhost:6379", cfg.Redis.Client().Addr())
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	_, err := Load()
	require.ErrorContains(t, err, "DB_DRIVER")

	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("CLAIMS_LIMITER", "etcd")
	_, err = Load()
	require.ErrorContains(t, err, "CLAIMS_LIMITER")
}
