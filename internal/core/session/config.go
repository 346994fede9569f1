package session

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

var ErrInvalidConfig = errors.New("invalid session configuration")

type AutopilotConfig struct {
	Enabled   bool    `json:"enabled" yaml:"enabled"`
	LaneWidth float64 `json:"lane_width" yaml:"lane_width"`
	Lookahead float64 `json:"lookahead" yaml:"lookahead"`
}

type Config struct {
	TickRate int `json:"tick_rate" yaml:"tick_rate"`
	// Steer is the fixed steering axis used when the autopilot is off.
	Steer     float64         `json:"steer" yaml:"steer"`
	Autopilot AutopilotConfig `json:"autopilot" yaml:"autopilot"`
	// Origin is where the first segment is centered.
	Origin mgl64.Vec3 `json:"origin" yaml:"origin"`
	// SpawnHeight places the vehicle above Origin at the start of a run.
	SpawnHeight float64 `json:"spawn_height" yaml:"spawn_height"`
	GemValue    int     `json:"gem_value" yaml:"gem_value"`
}

func DefaultConfig() Config {
	return Config{
		TickRate: 60,
		Autopilot: AutopilotConfig{
			Enabled:   true,
			LaneWidth: 6,
			Lookahead: 60,
		},
		SpawnHeight: 2.5,
		GemValue:    10,
	}
}

// TickDelta is the fixed simulation step in seconds.
func (c Config) TickDelta() float64 {
	return 1 / float64(c.TickRate)
}

func (c Config) Validate() error {
	switch {
	case c.TickRate <= 0:
		return fmt.Errorf("%w: tick_rate must be positive", ErrInvalidConfig)
	case c.Steer < -1 || c.Steer > 1:
		return fmt.Errorf("%w: steer must be in [-1, 1]", ErrInvalidConfig)
	case c.Autopilot.Enabled && (c.Autopilot.LaneWidth <= 0 || c.Autopilot.Lookahead <= 0):
		return fmt.Errorf("%w: autopilot lane_width and lookahead must be positive", ErrInvalidConfig)
	case c.GemValue < 0:
		return fmt.Errorf("%w: gem_value must not be negative", ErrInvalidConfig)
	}
	return nil
}
