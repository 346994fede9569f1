package physics

import "github.com/go-gl/mathgl/mgl64"

// Hit describes the nearest surface found by a ray query.
type Hit struct {
	Point      mgl64.Vec3
	Normal     mgl64.Vec3
	Distance   float64
	ColliderID string
	Category   Category
}

// RayQuery is the narrow surface the vehicle controller needs from the
// physics engine.
type RayQuery interface {
	CastRay(origin, direction mgl64.Vec3, maxDistance float64, mask LayerMask) (Hit, bool)
}
