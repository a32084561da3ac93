package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yatube/internal/cache"
	"yatube/internal/config"
	"yatube/internal/logging"
	"yatube/internal/media"
	"yatube/internal/messaging"
)

func sqliteConfig(t *testing.T) config.Config {
	cfg := config.Default()
	cfg.JWTSecret = "secret"
	cfg.Database.Driver = "sqlite"
	cfg.Database.SQLitePath = filepath.Join(t.TempDir(), "yatube.db")
	return cfg
}

func TestOpen_InProcessFallbacks(t *testing.T) {
	a, err := Open(context.Background(), sqliteConfig(t), logging.Discard())
	require.NoError(t, err)
	defer a.Close()

	assert.IsType(t, &cache.Memory{}, a.Cache)
	assert.IsType(t, &media.Memory{}, a.Media)
	assert.IsType(t, messaging.Nop{}, a.Events)

	srv, err := a.Web()
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOpen_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := sqliteConfig(t)
	cfg.Redis.Host = mr.Host()
	cfg.Redis.Port = mr.Port()

	a, err := Open(context.Background(), cfg, logging.Discard())
	require.NoError(t, err)
	defer a.Close()
	assert.IsType(t, &cache.Redis{}, a.Cache)
}

func TestOpen_BadDriver(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.Database.Driver = "oracle"
	_, err := Open(context.Background(), cfg, logging.Discard())
	assert.Error(t, err)
}
