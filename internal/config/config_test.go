package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PORT", "DATABASE_URL", "DB_MAX_CONNS", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "GIN_MODE", "CACHE_TTL"} {
		t.Setenv(k, "")
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 5, cfg.DBMaxConns)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, "release", cfg.GinMode)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.False(t, cfg.UsePostgres())
	assert.False(t, cfg.UseRedis())
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/users?sslmode=disable")
	t.Setenv("DB_MAX_CONNS", "12")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 12, cfg.DBMaxConns)
	assert.Equal(t, 0, cfg.RedisDB, "invalid ints fall back to the default")
	assert.True(t, cfg.UsePostgres())
	assert.True(t, cfg.UseRedis())
}

func TestLoad_ReadsDotEnv(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("PORT")
	os.Unsetenv("REDIS_ADDR")
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PORT=7070\nREDIS_ADDR=cache:6379\n"), 0o600))
	chdir(t, dir)
	t.Cleanup(func() {
		os.Unsetenv("PORT")
		os.Unsetenv("REDIS_ADDR")
	})

	cfg := Load()
	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, "cache:6379", cfg.RedisAddr)
}

func TestLoad_CacheTTL(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	tests := []struct {
		value    string
		expected time.Duration
	}{
		{value: "90s", expected: 90 * time.Second},
		{value: "0", expected: 10 * time.Minute},
		{value: "-1m", expected: 10 * time.Minute},
		{value: "soon", expected: 10 * time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("CACHE_TTL", tt.value)
			assert.Equal(t, tt.expected, Load().CacheTTL)
		})
	}
}
