package session

import (
	"github.com/zeusync/hoverrun/internal/core/events/bus"
	"github.com/zeusync/hoverrun/internal/core/observability/log"
)

// ScoreChange is the payload of bus.ScoreChanged and bus.HighScoreChanged.
type ScoreChange struct {
	Score int `json:"score"`
	Delta int `json:"delta"`
}

// Score keeps the current run score and the best score seen by this process.
type Score struct {
	current int
	high    int

	logger log.Log
	bus    bus.EventBus
}

func NewScore(logger log.Log, events bus.EventBus) *Score {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Score{logger: logger.Named("score"), bus: events}
}

func (s *Score) Current() int { return s.current }

func (s *Score) High() int { return s.high }

func (s *Score) Add(points int) {
	s.current += points
	s.publish(bus.ScoreChanged, ScoreChange{Score: s.current, Delta: points})
	if s.current > s.high {
		s.high = s.current
		s.publish(bus.HighScoreChanged, ScoreChange{Score: s.high, Delta: points})
	}
	s.logger.Debug("score", log.Int("score", s.current), log.Int("high", s.high))
}

// Reset zeroes the current score; the high score is kept.
func (s *Score) Reset() {
	s.current = 0
	s.publish(bus.ScoreChanged, ScoreChange{})
}

// EndGame settles the high score at the end of a run.
func (s *Score) EndGame() {
	if s.current > s.high {
		s.high = s.current
	}
	s.logger.Info("run finished", log.Int("score", s.current), log.Int("high", s.high))
}

func (s *Score) publish(eventType string, change ScoreChange) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(bus.NewEvent(eventType, "score", change)); err != nil {
		s.logger.Warn("score handlers failed", log.Err(err))
	}
}
