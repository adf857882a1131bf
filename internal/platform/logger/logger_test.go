package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeKVsRedactsSecretKeys(t *testing.T) {
	t.Setenv("LOG_REDACTION_ENABLED", "true")

	got := sanitizeKVs([]interface{}{"OPENAI_API_KEY", "sk-123", "path", "/quiz/session", "dangling"})
	require.Len(t, got, 5)
	assert.Equal(t, "[REDACTED]", got[1])
	assert.Equal(t, "/quiz/session", got[3])
	assert.Equal(t, "dangling", got[4])
}

func TestNewTestModeIsNop(t *testing.T) {
	log, err := New("test")
	require.NoError(t, err)
	log.Info("discarded", "k", "v")
	log.With("service", "x").Warn("also discarded")
}
