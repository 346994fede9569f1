package physics

import "github.com/go-gl/mathgl/mgl64"

// World axes. Forward progress along the track is +Z.
var (
	Up      = mgl64.Vec3{0, 1, 0}
	Down    = mgl64.Vec3{0, -1, 0}
	Forward = mgl64.Vec3{0, 0, 1}
	Right   = mgl64.Vec3{1, 0, 0}
)

// WithY returns v with its vertical component replaced.
func WithY(v mgl64.Vec3, y float64) mgl64.Vec3 {
	return mgl64.Vec3{v.X(), y, v.Z()}
}

// Lerp interpolates between a and b with t clamped to [0,1].
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*mgl64.Clamp(t, 0, 1)
}
