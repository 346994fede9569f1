package track

import "github.com/go-gl/mathgl/mgl64"

// Locator is anything with a world position; the vehicle controller is one.
type Locator interface {
	Position() mgl64.Vec3
}

// VehicleRef is a shared handle segments read the vehicle position through.
// An unbound ref is the "not yet available" state and yields no position.
type VehicleRef struct {
	target Locator
}

func (r *VehicleRef) Bind(l Locator) { r.target = l }

func (r *VehicleRef) Unbind() { r.target = nil }

func (r *VehicleRef) Available() bool { return r != nil && r.target != nil }

// Position returns the vehicle position, or false while unbound.
func (r *VehicleRef) Position() (mgl64.Vec3, bool) {
	if !r.Available() {
		return mgl64.Vec3{}, false
	}
	return r.target.Position(), true
}
