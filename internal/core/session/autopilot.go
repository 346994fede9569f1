package session

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/hoverrun/internal/core/physics"
)

// Steering produces the steering axis for the next tick.
type Steering interface {
	Steer(position mgl64.Vec3) float64
}

// FixedSteer always returns the same axis value.
type FixedSteer float64

func (f FixedSteer) Steer(mgl64.Vec3) float64 { return mgl64.Clamp(float64(f), -1, 1) }

// Autopilot looks down three lanes for obstacles and steers toward the lane
// whose first obstacle is farthest away.
type Autopilot struct {
	rays      physics.RayQuery
	laneWidth float64
	lookahead float64
}

func NewAutopilot(rays physics.RayQuery, laneWidth, lookahead float64) *Autopilot {
	return &Autopilot{rays: rays, laneWidth: laneWidth, lookahead: lookahead}
}

// Clearance is the free distance ahead in the lane at x, capped at lookahead.
func (a *Autopilot) Clearance(position mgl64.Vec3, x float64) float64 {
	origin := mgl64.Vec3{x, position.Y(), position.Z()}
	hit, ok := a.rays.CastRay(origin, physics.Forward, a.lookahead, physics.MaskOfCategories(physics.CategoryObstacle))
	if !ok {
		return a.lookahead
	}
	return hit.Distance
}

func (a *Autopilot) Steer(position mgl64.Vec3) float64 {
	if a.laneWidth <= 0 {
		return 0
	}
	target := position.X()
	best := -1.0
	bestShift := math.Inf(1)
	for _, lane := range [...]float64{-1, 0, 1} {
		x := lane * a.laneWidth
		free := a.Clearance(position, x)
		shift := math.Abs(x - position.X())
		if free > best || (free == best && shift < bestShift) {
			best, bestShift, target = free, shift, x
		}
	}
	return mgl64.Clamp((target-position.X())/a.laneWidth, -1, 1)
}
