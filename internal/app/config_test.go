package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	cfg, err := configFrom(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StoreFile, cfg.QuizStore)
	assert.Equal(t, "data/quizs.json", cfg.QuizPoolPath)
	assert.Equal(t, 5, cfg.DefaultSessionSize)
	assert.Equal(t, 50, cfg.MaxSessionSize)
	assert.InDelta(t, 0.2, cfg.ExplorationRate, 1e-9)
	assert.Equal(t, 0, cfg.RefillAttempts)
	assert.Equal(t, 60*time.Second, cfg.GenerationTimeout)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAIModel)
	assert.True(t, cfg.PoolDiagnostics)
	assert.Empty(t, cfg.RedisAddr)
}

func TestConfigEnvOverrides(t *testing.T) {
	t.Setenv("QUIZ_EXPLORATION_RATE", "0.75")
	t.Setenv("QUIZ_STORE", "SQLite")
	t.Setenv("QUIZ_REFILL_ATTEMPTS", "3")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := configFrom(viper.New())
	require.NoError(t, err)
	assert.InDelta(t, 0.75, cfg.ExplorationRate, 1e-9)
	assert.Equal(t, StoreSQLite, cfg.QuizStore)
	assert.Equal(t, 3, cfg.RefillAttempts)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestConfigValidate(t *testing.T) {
	cases := map[string]map[string]string{
		"epsilon too high":     {"QUIZ_EXPLORATION_RATE": "1.5"},
		"epsilon negative":     {"QUIZ_EXPLORATION_RATE": "-0.1"},
		"unknown store":        {"QUIZ_STORE": "s3"},
		"postgres without dsn": {"QUIZ_STORE": "postgres"},
		"zero default size":    {"QUIZ_DEFAULT_SESSION_SIZE": "0"},
		"default above max":    {"QUIZ_DEFAULT_SESSION_SIZE": "60"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := configFrom(viper.New())
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigReadsYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "memoquiz.yaml"), []byte("quiz_default_session_size: 7\nport: \"9090\"\n"), 0o644))
	t.Setenv("MEMOQUIZ_CONFIG_DIR", dir)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.DefaultSessionSize)
}
