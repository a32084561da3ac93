package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupMap(m map[string]string) lookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := applyEnv(&cfg, lookupMap(map[string]string{
		"DB_DRIVER":       "sqlite",
		"REDIS_HOST":      "cache",
		"PAGE_SIZE":       "5",
		"INDEX_CACHE_TTL": "30",
		"CORS_ORIGINS":    "http://a.example, http://b.example,",
		"JWT_SECRET":      "s3cret",
	}))
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr())
	assert.Equal(t, 5, cfg.PageSize)
	assert.Equal(t, 30*time.Second, cfg.IndexCacheTTL)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.CORSOrigins)
	assert.NoError(t, cfg.Validate())
}

func TestApplyEnv_BadValues(t *testing.T) {
	cfg := Default()
	err := applyEnv(&cfg, lookupMap(map[string]string{"PAGE_SIZE": "ten"}))
	assert.ErrorContains(t, err, "PAGE_SIZE")

	cfg = Default()
	err = applyEnv(&cfg, lookupMap(map[string]string{"INDEX_CACHE_TTL": "soon"}))
	assert.ErrorContains(t, err, "INDEX_CACHE_TTL")
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 10, cfg.PageSize)
	assert.Equal(t, 20*time.Second, cfg.IndexCacheTTL)
	assert.Equal(t, "/auth/login/", cfg.LoginURL)

	// No secret configured.
	assert.Error(t, cfg.Validate())
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "yatube.yaml")
	err := os.WriteFile(path, []byte(`
http_port: "9000"
jwt_secret: from-file
page_size: 3
database:
  driver: sqlite
  sqlite_path: /tmp/test.db
`), 0o600)
	require.NoError(t, err)

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PAGE_SIZE", "7")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.HTTPPort)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, 7, cfg.PageSize)
	assert.Equal(t, "/tmp/test.db", cfg.Database.SQLitePath)
}
