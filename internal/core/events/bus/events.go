package bus

import "errors"

var (
	ErrEmptyEventType = errors.New("event type is required")
	ErrNilHandler     = errors.New("event handler is nil")
)

// Event types published by the simulation core.
const (
	SegmentSpawned = "segment.spawned"
	SegmentDeleted = "segment.deleted"
	SegmentDropped = "segment.dropped"

	VehicleBounced = "vehicle.bounced"

	ScoreChanged     = "score.changed"
	HighScoreChanged = "score.high"

	SessionPaused    = "session.paused"
	SessionResumed   = "session.resumed"
	SessionGameOver  = "session.game_over"
	SessionRestarted = "session.restarted"
)
