package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/hoverrun/internal/core/events/bus"
)

func TestStateTransitions(t *testing.T) {
	events := bus.New()
	var seen []string
	_, err := events.SubscribeAll(func(e bus.Event) error {
		seen = append(seen, e.Type())
		return nil
	})
	require.NoError(t, err)

	s := NewState(nil, events)
	hooks := 0
	s.OnGameOver(func() { hooks++ })

	assert.False(t, s.MovementSuspended())
	assert.True(t, s.TogglePause())
	assert.True(t, s.MovementSuspended())
	assert.False(t, s.Pause(), "already paused")
	assert.True(t, s.TogglePause())
	assert.False(t, s.Resume(), "not paused")

	assert.True(t, s.TriggerGameOver())
	assert.False(t, s.TriggerGameOver())
	assert.Equal(t, 1, hooks)
	assert.False(t, s.Resume())
	assert.True(t, s.MovementSuspended())

	s.Reset()
	assert.Equal(t, PhaseRunning, s.Phase())
	assert.Equal(t, []string{bus.SessionPaused, bus.SessionResumed, bus.SessionGameOver}, seen)
}

func TestScoreKeepsHigh(t *testing.T) {
	events := bus.New()
	highs := 0
	_, err := events.Subscribe(bus.HighScoreChanged, func(bus.Event) error {
		highs++
		return nil
	})
	require.NoError(t, err)

	s := NewScore(nil, events)
	s.Add(10)
	s.Add(10)
	assert.Equal(t, 20, s.Current())
	assert.Equal(t, 2, highs)

	s.Reset()
	s.Add(10)
	assert.Equal(t, 10, s.Current())
	assert.Equal(t, 20, s.High())
	assert.Equal(t, 2, highs)

	s.Add(15)
	s.EndGame()
	assert.Equal(t, 25, s.High())
}
