package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	prev := base
	Use(zap.New(core))
	t.Cleanup(func() { Use(prev) })
	return logs
}

func TestInfo_WritesFields(t *testing.T) {
	logs := observe(t)

	Info("artwork created", Fields{"artwork_id": "a1", "price_cents": 1200})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.InfoLevel, entry.Level)
	assert.Equal(t, "artwork created", entry.Message)
	assert.Equal(t, "a1", entry.ContextMap()["artwork_id"])
}

func TestError_AttachesError(t *testing.T) {
	logs := observe(t)

	Error("gemini call failed", errors.New("boom"), Fields{"model": "gemini-2.5-flash-image"})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	assert.Equal(t, "boom", entry.ContextMap()["error"])
}

func TestWarn_NilFields(t *testing.T) {
	logs := observe(t)

	Warn("no fields", nil)

	assert.Equal(t, 1, logs.FilterMessage("no fields").Len())
}
