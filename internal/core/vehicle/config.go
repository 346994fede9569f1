package vehicle

import (
	"errors"
	"fmt"

	"github.com/zeusync/hoverrun/internal/core/physics"
)

var ErrInvalidConfig = errors.New("invalid vehicle configuration")

// Config holds every tunable of the hover controller.
type Config struct {
	ForwardSpeed float64 `json:"forward_speed" yaml:"forward_speed"`
	StrafeSpeed  float64 `json:"strafe_speed" yaml:"strafe_speed"`

	HoverHeight    float64 `json:"hover_height" yaml:"hover_height"`
	HoverForce     float64 `json:"hover_force" yaml:"hover_force"`
	HoverDamping   float64 `json:"hover_damping" yaml:"hover_damping"`
	FallMultiplier float64 `json:"fall_multiplier" yaml:"fall_multiplier"`

	// MaxBankAngle is in degrees.
	MaxBankAngle float64 `json:"max_bank_angle" yaml:"max_bank_angle"`
	BankSpeed    float64 `json:"bank_speed" yaml:"bank_speed"`

	GroundCheckDistance float64 `json:"ground_check_distance" yaml:"ground_check_distance"`
	// GroundCheckOffset is how far below the body origin the ground ray starts.
	GroundCheckOffset float64 `json:"ground_check_offset" yaml:"ground_check_offset"`
	// GroundLayers lists the categories treated as ground. Empty means every layer.
	GroundLayers []physics.Category `json:"ground_layers" yaml:"ground_layers"`

	BounceForce       float64 `json:"bounce_force" yaml:"bounce_force"`
	MinBounceVelocity float64 `json:"min_bounce_velocity" yaml:"min_bounce_velocity"`
	EnableBouncing    bool    `json:"enable_bouncing" yaml:"enable_bouncing"`
	// BounceWindow is the hover suppression time after a bounce, in seconds.
	BounceWindow float64 `json:"bounce_window" yaml:"bounce_window"`

	MaxFallSpeed   float64 `json:"max_fall_speed" yaml:"max_fall_speed"`
	EnableFastFall bool    `json:"enable_fast_fall" yaml:"enable_fast_fall"`
	// FastFallScale multiplies FallMultiplier into the extra downward force.
	FastFallScale float64 `json:"fast_fall_scale" yaml:"fast_fall_scale"`

	Mass        float64    `json:"mass" yaml:"mass"`
	HalfExtents [3]float64 `json:"half_extents" yaml:"half_extents"`
	// Baseline yaw and pitch in degrees; banking only changes roll.
	BaselineYaw   float64 `json:"baseline_yaw" yaml:"baseline_yaw"`
	BaselinePitch float64 `json:"baseline_pitch" yaml:"baseline_pitch"`
}

func DefaultConfig() Config {
	return Config{
		ForwardSpeed:        250,
		StrafeSpeed:         200,
		HoverHeight:         2,
		HoverForce:          500,
		HoverDamping:        50,
		FallMultiplier:      5,
		MaxBankAngle:        45,
		BankSpeed:           5,
		GroundCheckDistance: 10,
		GroundCheckOffset:   0.5,
		GroundLayers:        []physics.Category{physics.CategoryGround},
		BounceForce:         100,
		MinBounceVelocity:   2,
		EnableBouncing:      true,
		BounceWindow:        0.5,
		MaxFallSpeed:        50,
		EnableFastFall:      true,
		FastFallScale:       100,
		Mass:                1,
		HalfExtents:         [3]float64{1, 0.5, 2},
	}
}

// GroundMask converts GroundLayers into a layer mask.
func (c Config) GroundMask() physics.LayerMask {
	if len(c.GroundLayers) == 0 {
		return physics.AllLayers
	}
	return physics.MaskOfCategories(c.GroundLayers...)
}

func (c Config) Validate() error {
	switch {
	case c.HoverHeight <= 0:
		return fmt.Errorf("%w: hover_height must be positive", ErrInvalidConfig)
	case c.MaxBankAngle < 0:
		return fmt.Errorf("%w: max_bank_angle must not be negative", ErrInvalidConfig)
	case c.BankSpeed < 0:
		return fmt.Errorf("%w: bank_speed must not be negative", ErrInvalidConfig)
	case c.GroundCheckDistance <= 0:
		return fmt.Errorf("%w: ground_check_distance must be positive", ErrInvalidConfig)
	case c.MaxFallSpeed <= 0:
		return fmt.Errorf("%w: max_fall_speed must be positive", ErrInvalidConfig)
	case c.BounceWindow < 0:
		return fmt.Errorf("%w: bounce_window must not be negative", ErrInvalidConfig)
	case c.Mass <= 0:
		return fmt.Errorf("%w: mass must be positive", ErrInvalidConfig)
	}
	for i, h := range c.HalfExtents {
		if h <= 0 {
			return fmt.Errorf("%w: half_extents[%d] must be positive", ErrInvalidConfig, i)
		}
	}
	return nil
}
