package vehicle

// BouncePhase is the hover-suppression state of the vehicle.
type BouncePhase uint8

const (
	PhaseGrounded BouncePhase = iota
	PhaseBouncing
)

func (p BouncePhase) String() string {
	if p == PhaseBouncing {
		return "bouncing"
	}
	return "grounded"
}

// BounceState is Grounded or Bouncing(elapsed). Hover force is suppressed
// while Bouncing.
type BounceState struct {
	phase   BouncePhase
	elapsed float64
}

func (s BounceState) Phase() BouncePhase { return s.phase }

func (s BounceState) Bouncing() bool { return s.phase == PhaseBouncing }

// Elapsed is the time spent in the current bounce, zero when grounded.
func (s BounceState) Elapsed() float64 { return s.elapsed }

// Start enters Bouncing with a fresh timer, also when already bouncing.
func (s *BounceState) Start() {
	s.phase = PhaseBouncing
	s.elapsed = 0
}

// Advance accumulates dt and returns to Grounded once window is reached.
func (s *BounceState) Advance(dt, window float64) {
	if s.phase != PhaseBouncing {
		return
	}
	s.elapsed += dt
	if s.elapsed >= window {
		s.Reset()
	}
}

func (s *BounceState) Reset() {
	s.phase = PhaseGrounded
	s.elapsed = 0
}
