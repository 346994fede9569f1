package vehicle

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/hoverrun/internal/core/events/bus"
	"github.com/zeusync/hoverrun/internal/core/physics"
)

// flatGround answers every downward query with a surface at height y,
// honouring the mask like the real world does.
type flatGround struct {
	y       float64
	present bool
	calls   int
	mask    physics.LayerMask
}

func (g *flatGround) CastRay(origin, _ mgl64.Vec3, maxDistance float64, mask physics.LayerMask) (physics.Hit, bool) {
	g.calls++
	g.mask = mask
	if !g.present || !mask.Contains(physics.LayerGround) {
		return physics.Hit{}, false
	}
	d := origin.Y() - g.y
	if d < 0 || d > maxDistance {
		return physics.Hit{}, false
	}
	return physics.Hit{Distance: d, Normal: physics.Up, Category: physics.CategoryGround}, true
}

func newTestController(t *testing.T, ground *flatGround, opts ...Option) *Controller {
	t.Helper()
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	c := New(cfg, nil, ground, opts...)
	return c
}

func TestHoverForceScenario(t *testing.T) {
	assert.Equal(t, 500.0, HoverForce(2, 1, 500, 50, 0))
	assert.Equal(t, -250.0, HoverForce(2, 2, 500, 50, 5))
	assert.True(t, InHoverRange(2, 4))
	assert.False(t, InHoverRange(2, 4.01))
}

func TestNewCreatesConstrainedBody(t *testing.T) {
	c := newTestController(t, &flatGround{})
	b := c.Body()
	require.NotNil(t, b)
	assert.Equal(t, physics.FreezeRotationX|physics.FreezeRotationY, b.Constraints)
	assert.Equal(t, physics.CollisionContinuous, b.Detection)
	assert.True(t, c.MovementEnabled())
}

func TestNewKeepsProvidedBody(t *testing.T) {
	b := physics.NewBody(mgl64.Vec3{0, 3, 0}, mgl64.Vec3{1, 1, 1})
	c := New(DefaultConfig(), b, &flatGround{})
	assert.Same(t, b, c.Body())
	assert.Equal(t, physics.CollisionDiscrete, b.Detection)
}

func TestBounceFiresWhenFallingFastEnough(t *testing.T) {
	events := bus.New()
	var got []Bounce
	_, err := events.Subscribe(bus.VehicleBounced, func(e bus.Event) error {
		got = append(got, e.Data().(Bounce))
		return nil
	})
	require.NoError(t, err)

	c := newTestController(t, &flatGround{}, WithEventBus(events))
	c.Body().Velocity = mgl64.Vec3{0, -5, 250}

	assert.True(t, c.OnSolidContact(physics.Up, physics.CategoryGround))
	assert.Equal(t, 100.0, c.Velocity().Y())
	assert.True(t, c.JustBounced())
	assert.Equal(t, PhaseBouncing, c.BounceState().Phase())
	require.Len(t, got, 1)
	assert.Equal(t, -5.0, got[0].ImpactVelocity)
}

func TestNoBounceWhenSlow(t *testing.T) {
	c := newTestController(t, &flatGround{})
	c.Body().Velocity = mgl64.Vec3{0, -1, 0}

	assert.False(t, c.OnSolidContact(physics.Up, physics.CategoryGround))
	assert.Equal(t, -1.0, c.Velocity().Y())
	assert.False(t, c.JustBounced())

	c.Body().Velocity[1] = -2
	assert.False(t, c.OnSolidContact(physics.Up, physics.CategoryGround), "threshold is strict")
}

func TestBounceIgnoresNonGroundAndDisabled(t *testing.T) {
	c := newTestController(t, &flatGround{})
	c.Body().Velocity[1] = -20
	assert.False(t, c.OnSolidContact(physics.Up, physics.CategoryObstacle))

	c.SetBounceSettings(80, 2, false)
	assert.False(t, c.OnSolidContact(physics.Up, physics.CategoryGround))

	c.SetBounceSettings(80, 2, true)
	assert.True(t, c.OnSolidContact(physics.Up, physics.CategoryGround))
	assert.Equal(t, 80.0, c.Velocity().Y())
}

func TestBounceWindowSuppressesHover(t *testing.T) {
	ground := &flatGround{y: 0, present: true}
	c := newTestController(t, ground)
	c.Body().Position = mgl64.Vec3{0, 1.5, 0} // surface 1 below the probe
	c.Body().Velocity[1] = -10
	require.True(t, c.OnSolidContact(physics.Up, physics.CategoryGround))

	c.Advance(0.125, 0)
	assert.Equal(t, 100.0, c.Velocity().Y(), "no hover force while bouncing")
	assert.True(t, c.JustBounced())

	for i := 0; i < 3; i++ {
		c.Body().Velocity[1] = 0
		c.Advance(0.125, 0)
	}
	assert.False(t, c.JustBounced(), "window of 0.5s elapsed")

	c.Body().Velocity[1] = 0
	c.Advance(0.125, 0)
	assert.InDelta(t, 62.5, c.Velocity().Y(), 1e-9, "hover resumes: 500 * 0.125")
}

func TestAdvanceHoverAndMovement(t *testing.T) {
	ground := &flatGround{y: 0, present: true}
	c := newTestController(t, ground)
	c.Body().Position = mgl64.Vec3{0, 1.5, 0}

	c.Advance(0.02, 0)

	assert.True(t, c.Grounded())
	assert.InDelta(t, 1.0, c.SurfaceDistance(), 1e-9)
	assert.Equal(t, physics.MaskOfCategories(physics.CategoryGround), ground.mask)
	assert.InDelta(t, 10.0, c.Velocity().Y(), 1e-9)
	assert.InDelta(t, 250.0, c.Velocity().Z(), 1e-9)
	assert.InDelta(t, 0.0, c.Velocity().X(), 1e-9)
}

func TestAdvanceFreeFallWithoutGround(t *testing.T) {
	c := newTestController(t, &flatGround{}, WithGravity(mgl64.Vec3{0, -10, 0}))

	c.Advance(0.01, 0)

	assert.False(t, c.Grounded())
	// gravity*5*dt, then fast fall 5*100*dt/mass
	assert.InDelta(t, -0.5-5.0, c.Velocity().Y(), 1e-9)
}

func TestVerticalVelocityClamped(t *testing.T) {
	c := newTestController(t, &flatGround{})
	c.Body().Velocity[1] = -49
	for i := 0; i < 200; i++ {
		c.Advance(1.0/60, 0)
		require.GreaterOrEqual(t, c.Velocity().Y(), -c.Config().MaxFallSpeed)
	}
	assert.Equal(t, -50.0, c.Velocity().Y())
}

func TestBankClampedAndSmoothed(t *testing.T) {
	c := newTestController(t, &flatGround{y: 0, present: true})
	c.Body().Position = mgl64.Vec3{0, 2.5, 0}

	c.Advance(0.1, 1)
	assert.InDelta(t, -22.5, c.Bank(), 1e-9, "half way at bankSpeed*dt = 0.5")

	for _, steer := range []float64{1, 1, 1, -1, 3, -3, 0.5} {
		for i := 0; i < 30; i++ {
			c.Advance(0.5, steer)
			require.LessOrEqual(t, math.Abs(c.Bank()), 45.0)
		}
	}
	assert.InDelta(t, -22.5, c.Bank(), 1e-6)

	c.ResetBanking()
	assert.Zero(t, c.Bank())
	assert.True(t, c.Body().Rotation.ApproxEqual(mgl64.QuatIdent()))
}

func TestBankRollsAroundForwardOnly(t *testing.T) {
	c := newTestController(t, &flatGround{})
	for i := 0; i < 100; i++ {
		c.Advance(0.1, -1)
	}
	fwd := c.Body().Rotation.Rotate(physics.Forward)
	assert.InDelta(t, 1.0, fwd.Z(), 1e-9, "yaw and pitch untouched")
	assert.InDelta(t, 45.0, c.Bank(), 1e-6)
}

func TestGatedAdvanceLeavesVelocity(t *testing.T) {
	suspended := true
	ground := &flatGround{present: true}
	c := newTestController(t, ground, WithGate(GateFunc(func() bool { return suspended })))
	v := mgl64.Vec3{1, -3, 7}
	c.Body().Velocity = v

	c.Advance(0.1, 1)
	assert.Equal(t, v, c.Velocity())
	assert.Zero(t, ground.calls)
	assert.Zero(t, c.Bank())

	suspended = false
	c.DisableMovement()
	c.Advance(0.1, 1)
	assert.Equal(t, v, c.Velocity())

	c.EnableMovement()
	c.Advance(0.1, 1)
	assert.NotEqual(t, v, c.Velocity())
}

func TestStopPlayerAndReset(t *testing.T) {
	c := newTestController(t, &flatGround{})
	c.Body().Velocity = mgl64.Vec3{3, 4, 5}
	c.Body().AngularVelocity = mgl64.Vec3{0, 0, 2}
	c.StopPlayer()
	assert.Equal(t, mgl64.Vec3{}, c.Velocity())
	assert.Equal(t, mgl64.Vec3{}, c.Body().AngularVelocity)

	c.DisableMovement()
	c.Reset(mgl64.Vec3{0, 3, 0})
	assert.True(t, c.MovementEnabled())
	assert.Equal(t, mgl64.Vec3{0, 3, 0}, c.Position())
}

func TestSetHoverSettings(t *testing.T) {
	c := newTestController(t, &flatGround{y: 0, present: true})
	c.SetHoverSettings(3, 100, 0, 5)
	c.Body().Position = mgl64.Vec3{0, 1.5, 0}
	c.Advance(0.1, 0)
	assert.InDelta(t, 20.0, c.Velocity().Y(), 1e-9, "(3-1)*100*0.1")
}

func TestBounceStateMachine(t *testing.T) {
	var s BounceState
	s.Advance(1, 0.5)
	assert.Equal(t, PhaseGrounded, s.Phase())

	s.Start()
	s.Advance(0.3, 0.5)
	assert.True(t, s.Bouncing())
	assert.InDelta(t, 0.3, s.Elapsed(), 1e-12)

	s.Start()
	assert.Zero(t, s.Elapsed(), "restart resets timer")
	s.Advance(0.5, 0.5)
	assert.False(t, s.Bouncing())
	assert.Equal(t, "grounded", s.Phase().String())
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxFallSpeed = 0
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg = DefaultConfig()
	cfg.HalfExtents[2] = 0
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg = DefaultConfig()
	cfg.GroundLayers = nil
	assert.Equal(t, physics.AllLayers, cfg.GroundMask())
}
