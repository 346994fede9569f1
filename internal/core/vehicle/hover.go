package vehicle

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// HoverForce is the spring-damper force pulling the vehicle toward
// hoverHeight above the surface.
func HoverForce(hoverHeight, surfaceDistance, hoverForce, damping, verticalVelocity float64) float64 {
	return (hoverHeight-surfaceDistance)*hoverForce - verticalVelocity*damping
}

// InHoverRange reports whether the surface is close enough for the spring to act.
func InHoverRange(hoverHeight, surfaceDistance float64) bool {
	return surfaceDistance <= 2*hoverHeight
}

// TargetBank maps a steering axis in [-1,1] to a roll angle in degrees.
// Steering right banks the vehicle to a negative roll.
func TargetBank(steer, maxBank float64) float64 {
	return -mgl64.Clamp(steer, -1, 1) * maxBank
}

// SmoothBank moves current toward target at rate per second.
func SmoothBank(current, target, rate, dt float64) float64 {
	return current + (target-current)*math.Min(1, math.Max(0, dt*rate))
}
