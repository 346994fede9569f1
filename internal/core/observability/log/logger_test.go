package log

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		"":        LevelInfo,
		"INFO":    LevelInfo,
		"warning": LevelWarn,
		" error ": LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestLoggerFieldsAndLevel(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := Wrap(zap.New(core), LevelDebug)

	l.With(String("component", "track")).Info("spawned",
		Int("active", 3),
		Float64("z", 95.5),
		Bool("dropped", false),
		Err(errors.New("boom")),
		Err(nil),
	)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "spawned", entry.Message)
	ctx := entry.ContextMap()
	assert.Equal(t, "track", ctx["component"])
	assert.Equal(t, int64(3), ctx["active"])
	assert.Equal(t, 95.5, ctx["z"])
	assert.Equal(t, "boom", ctx["error"])

	l.SetLevel(LevelWarn)
	assert.Equal(t, LevelWarn, l.GetLevel())
}

func TestProvideFallsBackToNop(t *testing.T) {
	assert.NotNil(t, Provide())
	NewNop().Error("discarded")
}
