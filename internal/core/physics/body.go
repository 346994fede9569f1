package physics

import "github.com/go-gl/mathgl/mgl64"

// ForceMode selects how AddForce changes velocity.
type ForceMode uint8

const (
	// ForceModeForce applies force/mass over dt.
	ForceModeForce ForceMode = iota
	// ForceModeAcceleration applies acceleration over dt, ignoring mass.
	ForceModeAcceleration
	// ForceModeVelocityChange adds the vector to velocity directly.
	ForceModeVelocityChange
)

// Constraints freezes rotation axes.
type Constraints uint8

const (
	FreezeRotationX Constraints = 1 << iota
	FreezeRotationY
	FreezeRotationZ
)

// CollisionDetection selects how the world resolves fast bodies.
type CollisionDetection uint8

const (
	CollisionDiscrete CollisionDetection = iota
	// CollisionContinuous sweeps the body between steps so thin geometry
	// cannot be skipped.
	CollisionContinuous
)

// Body is the single dynamic rigid body the world simulates.
type Body struct {
	Position        mgl64.Vec3
	Rotation        mgl64.Quat
	Velocity        mgl64.Vec3
	AngularVelocity mgl64.Vec3
	HalfExtents     mgl64.Vec3
	Mass            float64
	UseGravity      bool
	Constraints     Constraints
	Detection       CollisionDetection
	Category        Category
}

// NewBody returns a unit-mass box body with gravity enabled.
func NewBody(position, halfExtents mgl64.Vec3) *Body {
	return &Body{
		Position:    position,
		Rotation:    mgl64.QuatIdent(),
		HalfExtents: halfExtents,
		Mass:        1,
		UseGravity:  true,
		Category:    CategoryPlayer,
	}
}

// Bounds is the world-space box of the body.
func (b *Body) Bounds() AABB {
	return BoxAt(b.Position, b.HalfExtents)
}

// AddForce changes velocity immediately for a step of length dt.
func (b *Body) AddForce(f mgl64.Vec3, mode ForceMode, dt float64) {
	switch mode {
	case ForceModeForce:
		mass := b.Mass
		if mass <= 0 {
			mass = 1
		}
		b.Velocity = b.Velocity.Add(f.Mul(dt / mass))
	case ForceModeAcceleration:
		b.Velocity = b.Velocity.Add(f.Mul(dt))
	case ForceModeVelocityChange:
		b.Velocity = b.Velocity.Add(f)
	}
}

// Stop zeroes linear and angular velocity.
func (b *Body) Stop() {
	b.Velocity = mgl64.Vec3{}
	b.AngularVelocity = mgl64.Vec3{}
}

func (b *Body) applyConstraints() {
	if b.Constraints&FreezeRotationX != 0 {
		b.AngularVelocity[0] = 0
	}
	if b.Constraints&FreezeRotationY != 0 {
		b.AngularVelocity[1] = 0
	}
	if b.Constraints&FreezeRotationZ != 0 {
		b.AngularVelocity[2] = 0
	}
}
