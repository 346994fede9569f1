package track

import (
	"errors"
	"fmt"
)

var ErrInvalidConfig = errors.New("invalid track configuration")

type Config struct {
	MaxActiveRoads int     `json:"max_active_roads" yaml:"max_active_roads"`
	OverlapAmount  float64 `json:"overlap_amount" yaml:"overlap_amount"`
	// DefaultLength is used when no piece of an archetype is large enough
	// to be measured.
	DefaultLength    float64     `json:"default_length" yaml:"default_length"`
	MeasureThreshold float64     `json:"measure_threshold" yaml:"measure_threshold"`
	DeleteMargin     float64     `json:"delete_margin" yaml:"delete_margin"`
	Archetypes       []Archetype `json:"archetypes" yaml:"archetypes"`
}

func DefaultConfig() Config {
	return Config{
		MaxActiveRoads:   5,
		OverlapAmount:    5,
		DefaultLength:    100,
		MeasureThreshold: 10,
		DeleteMargin:     50,
	}
}

// Validate checks the numeric settings. An empty archetype set is allowed:
// spawn requests are then logged and dropped.
func (c Config) Validate() error {
	switch {
	case c.MaxActiveRoads <= 0:
		return fmt.Errorf("%w: max_active_roads must be positive", ErrInvalidConfig)
	case c.DefaultLength <= 0:
		return fmt.Errorf("%w: default_length must be positive", ErrInvalidConfig)
	case c.OverlapAmount < 0 || c.OverlapAmount >= c.DefaultLength:
		return fmt.Errorf("%w: overlap_amount must be in [0, default_length)", ErrInvalidConfig)
	case c.MeasureThreshold < 0:
		return fmt.Errorf("%w: measure_threshold must not be negative", ErrInvalidConfig)
	case c.DeleteMargin < 0:
		return fmt.Errorf("%w: delete_margin must not be negative", ErrInvalidConfig)
	}
	for i, a := range c.Archetypes {
		if a.Name == "" {
			return fmt.Errorf("%w: archetype %d has no name", ErrInvalidConfig, i)
		}
	}
	return nil
}
