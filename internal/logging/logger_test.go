package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	l, err := New("production", "debug")
	require.NoError(t, err)
	assert.True(t, l.SugaredLogger.Desugar().Core().Enabled(zapcore.DebugLevel))

	l, err = New("dev", "")
	require.NoError(t, err)
	assert.False(t, l.SugaredLogger.Desugar().Core().Enabled(zapcore.DebugLevel))

	_, err = New("dev", "loud")
	assert.Error(t, err)
}

func TestRedactsSecrets(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := FromZap(zap.New(core))

	l.Info("configured gateway", "model", "gemini-2.5-flash", "api_key", "sk-secret")
	l.With("Authorization", "Bearer x").Warn("request")

	entries := logs.All()
	require.Len(t, entries, 2)

	fields := entries[0].ContextMap()
	assert.Equal(t, "gemini-2.5-flash", fields["model"])
	assert.Equal(t, "[REDACTED]", fields["api_key"])

	assert.Equal(t, "[REDACTED]", entries[1].ContextMap()["Authorization"])
}

func TestRedact_DoesNotMutateInput(t *testing.T) {
	kv := []interface{}{"token", "abc", "odd"}
	out := redact(kv)

	assert.Equal(t, "abc", kv[1])
	assert.Equal(t, []interface{}{"token", "[REDACTED]", "odd"}, out)
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Info("ignored", "k", 1)
	l.Sync()
}
