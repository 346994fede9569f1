package session

import (
	"github.com/zeusync/hoverrun/internal/core/events/bus"
	"github.com/zeusync/hoverrun/internal/core/observability/log"
)

// Phase is the coarse session state.
type Phase uint8

const (
	PhaseRunning Phase = iota
	PhasePaused
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhasePaused:
		return "paused"
	case PhaseGameOver:
		return "game_over"
	default:
		return "running"
	}
}

// State owns pause and game-over. Game over is terminal until Reset; pause
// requests are ignored once the game is over.
type State struct {
	paused   bool
	gameOver bool

	onGameOver []func()
	logger     log.Log
	bus        bus.EventBus
}

func NewState(logger log.Log, events bus.EventBus) *State {
	if logger == nil {
		logger = log.NewNop()
	}
	return &State{logger: logger.Named("state"), bus: events}
}

// OnGameOver registers a hook run once per game over, in registration order.
func (s *State) OnGameOver(fn func()) {
	s.onGameOver = append(s.onGameOver, fn)
}

func (s *State) Phase() Phase {
	switch {
	case s.gameOver:
		return PhaseGameOver
	case s.paused:
		return PhasePaused
	default:
		return PhaseRunning
	}
}

func (s *State) Paused() bool { return s.paused }

func (s *State) GameOver() bool { return s.gameOver }

// MovementSuspended is the gate the vehicle controller checks every tick.
func (s *State) MovementSuspended() bool { return s.paused || s.gameOver }

// Pause reports whether the state changed.
func (s *State) Pause() bool {
	if s.gameOver || s.paused {
		return false
	}
	s.paused = true
	s.logger.Info("game paused")
	s.publish(bus.SessionPaused)
	return true
}

func (s *State) Resume() bool {
	if s.gameOver || !s.paused {
		return false
	}
	s.paused = false
	s.logger.Info("game resumed")
	s.publish(bus.SessionResumed)
	return true
}

func (s *State) TogglePause() bool {
	if s.gameOver {
		return false
	}
	if s.paused {
		return s.Resume()
	}
	return s.Pause()
}

// TriggerGameOver ends the run. Only the first call has any effect.
func (s *State) TriggerGameOver() bool {
	if s.gameOver {
		return false
	}
	s.gameOver = true
	s.paused = false
	s.logger.Info("game over")
	for _, fn := range s.onGameOver {
		fn()
	}
	s.publish(bus.SessionGameOver)
	return true
}

// Reset returns to running for a new run.
func (s *State) Reset() {
	s.paused = false
	s.gameOver = false
}

func (s *State) publish(eventType string) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(bus.NewEvent(eventType, "session", s.Phase().String())); err != nil {
		s.logger.Warn("state handlers failed", log.String("event", eventType), log.Err(err))
	}
}
