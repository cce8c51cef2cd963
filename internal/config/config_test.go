package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 20*time.Second, cfg.PageCacheTTL)
	assert.Equal(t, 3*time.Second, cfg.DBQueryTimeout)
	assert.Empty(t, cfg.RedisURL)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "9091")
	t.Setenv("DB_DRIVER", "pgx")
	t.Setenv("PAGE_CACHE_TTL", "1m")
	t.Setenv("REDIS_URL", "redis://localhost:6379/1")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9091, cfg.Port)
	assert.Equal(t, "pgx", cfg.DBDriver)
	assert.Equal(t, time.Minute, cfg.PageCacheTTL)
	assert.Equal(t, "redis://localhost:6379/1", cfg.RedisURL)
}

func TestLoad_RejectsDefaultSecretInProduction(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("APP_ENV", "production")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestValidate(t *testing.T) {
	valid := Config{
		Port: 8000, DBDriver: "postgres", DBDSN: "postgres://x", DBQueryTimeout: time.Second,
		PageCacheTTL: time.Second, TokenTTL: time.Hour, JWTSecret: "s",
	}
	require.NoError(t, valid.Validate())

	bad := valid
	bad.DBDriver = "mysql"
	assert.Error(t, bad.Validate())

	bad = valid
	bad.PageCacheTTL = 0
	assert.Error(t, bad.Validate())
}
