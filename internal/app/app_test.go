package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("LOG_MODE", "test")
	t.Setenv("QUIZ_POOL_PATH", filepath.Join(dir, "quizs.json"))
	t.Setenv("SQLITE_PATH", filepath.Join(dir, "memoquiz.db"))
	t.Setenv("MEMORIES_DIR", filepath.Join(dir, "memories"))
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("REDIS_ADDR", "")
	cfg, err := configFrom(viper.New())
	require.NoError(t, err)
	return cfg
}

func TestNewWithConfigWiresRoutes(t *testing.T) {
	cfg := testConfig(t)
	a, err := NewWithConfig(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(a.Close)

	for _, target := range []string{"/healthcheck", "/readyz", "/quiz/pool/stats", "/metrics"} {
		rec := httptest.NewRecorder()
		a.Server.Engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusOK, rec.Code, target)
	}
}

func TestSessionWithoutGeneratorDegrades(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(filepath.Join(cfg.MemoriesDir, "m1", "texts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.MemoriesDir, "m1", "texts", "a.txt"), []byte("A day at the lake."), 0o644))

	a, err := NewWithConfig(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(a.Close)

	rec := httptest.NewRecorder()
	a.Server.Engine.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/quiz/session?count=2", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"degraded":true`)
	assert.Contains(t, rec.Body.String(), "generation_upstream")
}
