package vehicle

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/hoverrun/internal/core/events/bus"
	"github.com/zeusync/hoverrun/internal/core/observability/log"
	"github.com/zeusync/hoverrun/internal/core/physics"
)

// Gate suspends the controller while it reports true (paused or game over).
type Gate interface {
	MovementSuspended() bool
}

// GateFunc adapts a function to Gate.
type GateFunc func() bool

func (f GateFunc) MovementSuspended() bool { return f() }

// Bounce is the payload of bus.VehicleBounced.
type Bounce struct {
	ImpactVelocity float64    `json:"impact_velocity"`
	Velocity       float64    `json:"velocity"`
	Normal         mgl64.Vec3 `json:"normal"`
}

type Option func(*Controller)

func WithGravity(g mgl64.Vec3) Option {
	return func(c *Controller) { c.gravity = g }
}

func WithGate(g Gate) Option {
	return func(c *Controller) { c.gate = g }
}

func WithLogger(l log.Log) Option {
	return func(c *Controller) { c.logger = l }
}

func WithEventBus(b bus.EventBus) Option {
	return func(c *Controller) { c.bus = b }
}

// Controller drives the single hover vehicle body. It is the only writer of
// the body state outside the physics step.
type Controller struct {
	cfg     Config
	body    *physics.Body
	rays    physics.RayQuery
	gravity mgl64.Vec3
	gate    Gate
	logger  log.Log
	bus     bus.EventBus

	grounded        bool
	surfaceDistance float64
	bank            float64
	baseline        mgl64.Quat
	bounce          BounceState
	movementEnabled bool
}

// New builds a controller. A nil body is replaced by one locked to roll-only
// rotation with continuous collision detection.
func New(cfg Config, body *physics.Body, rays physics.RayQuery, opts ...Option) *Controller {
	if body == nil {
		h := cfg.HalfExtents
		body = physics.NewBody(mgl64.Vec3{}, mgl64.Vec3{h[0], h[1], h[2]})
		body.Constraints = physics.FreezeRotationX | physics.FreezeRotationY
		body.Detection = physics.CollisionContinuous
	}
	if cfg.Mass > 0 {
		body.Mass = cfg.Mass
	}
	c := &Controller{
		cfg:             cfg,
		body:            body,
		rays:            rays,
		gravity:         mgl64.Vec3{0, -9.81, 0},
		logger:          log.NewNop(),
		movementEnabled: true,
		baseline: mgl64.QuatRotate(mgl64.DegToRad(cfg.BaselineYaw), physics.Up).
			Mul(mgl64.QuatRotate(mgl64.DegToRad(cfg.BaselinePitch), physics.Right)),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.Named("vehicle")
	c.body.Rotation = c.orientation()
	return c
}

func (c *Controller) Body() *physics.Body { return c.body }

func (c *Controller) Config() Config { return c.cfg }

func (c *Controller) Position() mgl64.Vec3 { return c.body.Position }

func (c *Controller) Velocity() mgl64.Vec3 { return c.body.Velocity }

// Grounded is the result of the last ground query.
func (c *Controller) Grounded() bool { return c.grounded }

// SurfaceDistance is the last ground hit distance, meaningful only when Grounded.
func (c *Controller) SurfaceDistance() float64 { return c.surfaceDistance }

// Bank is the current roll angle in degrees.
func (c *Controller) Bank() float64 { return c.bank }

func (c *Controller) BounceState() BounceState { return c.bounce }

func (c *Controller) JustBounced() bool { return c.bounce.Bouncing() }

func (c *Controller) MovementEnabled() bool { return c.movementEnabled }

func (c *Controller) suspended() bool {
	if !c.movementEnabled {
		return true
	}
	return c.gate != nil && c.gate.MovementSuspended()
}

// Advance runs one controller tick. When suspended the body is left exactly
// as it is.
func (c *Controller) Advance(dt, steer float64) {
	if dt <= 0 || c.suspended() {
		return
	}
	steer = mgl64.Clamp(steer, -1, 1)
	b := c.body

	c.senseGround()

	move := b.Rotation.Rotate(physics.Forward).Mul(c.cfg.ForwardSpeed).
		Add(b.Rotation.Rotate(physics.Right).Mul(steer * c.cfg.StrafeSpeed))
	b.Velocity = mgl64.Vec3{move.X(), b.Velocity.Y(), move.Z()}

	if !c.bounce.Bouncing() {
		c.hover(dt)
	}

	if c.cfg.EnableFastFall && !c.grounded && b.Velocity.Y() < 0 {
		b.AddForce(physics.Down.Mul(c.cfg.FallMultiplier*c.cfg.FastFallScale), physics.ForceModeForce, dt)
	}
	if b.Velocity.Y() < -c.cfg.MaxFallSpeed {
		b.Velocity[1] = -c.cfg.MaxFallSpeed
	}

	c.bank = SmoothBank(c.bank, TargetBank(steer, c.cfg.MaxBankAngle), c.cfg.BankSpeed, dt)
	c.bank = mgl64.Clamp(c.bank, -c.cfg.MaxBankAngle, c.cfg.MaxBankAngle)
	b.Rotation = c.orientation()

	c.bounce.Advance(dt, c.cfg.BounceWindow)
}

func (c *Controller) senseGround() {
	c.grounded = false
	c.surfaceDistance = 0
	if c.rays == nil {
		return
	}
	origin := c.body.Position.Add(physics.Down.Mul(c.cfg.GroundCheckOffset))
	hit, ok := c.rays.CastRay(origin, physics.Down, c.cfg.GroundCheckDistance, c.cfg.GroundMask())
	if !ok {
		return
	}
	c.grounded = true
	c.surfaceDistance = hit.Distance
}

func (c *Controller) hover(dt float64) {
	b := c.body
	switch {
	case c.grounded && InHoverRange(c.cfg.HoverHeight, c.surfaceDistance):
		f := HoverForce(c.cfg.HoverHeight, c.surfaceDistance, c.cfg.HoverForce, c.cfg.HoverDamping, b.Velocity.Y())
		b.AddForce(physics.Up.Mul(f), physics.ForceModeForce, dt)
	case !c.grounded:
		// Off the track: free fall.
		b.AddForce(c.gravity.Mul(c.cfg.FallMultiplier), physics.ForceModeAcceleration, dt)
	}
}

func (c *Controller) orientation() mgl64.Quat {
	return c.baseline.Mul(mgl64.QuatRotate(mgl64.DegToRad(c.bank), physics.Forward)).Normalize()
}

// OnSolidContact reacts to the start of a solid contact. Falling onto ground
// faster than MinBounceVelocity relaunches the vehicle at BounceForce and
// suppresses hovering for BounceWindow. It reports whether a bounce fired.
func (c *Controller) OnSolidContact(normal mgl64.Vec3, other physics.Category) bool {
	if !c.cfg.EnableBouncing {
		return false
	}
	if !c.cfg.GroundMask().Contains(other.Layer()) {
		return false
	}
	vy := c.body.Velocity.Y()
	if vy >= -c.cfg.MinBounceVelocity {
		return false
	}
	c.body.Velocity[1] = c.cfg.BounceForce
	c.bounce.Start()

	c.logger.Debug("bounce",
		log.Float64("impact_velocity", vy),
		log.Float64("velocity", c.cfg.BounceForce),
	)
	if c.bus != nil {
		evt := bus.NewEvent(bus.VehicleBounced, "vehicle", Bounce{
			ImpactVelocity: vy,
			Velocity:       c.cfg.BounceForce,
			Normal:         normal,
		})
		if err := c.bus.Publish(evt); err != nil {
			c.logger.Warn("bounce handlers failed", log.Err(err))
		}
	}
	return true
}

// OnTriggerEnter only classifies what the vehicle flew through. Obstacle and
// pickup consequences belong to the session.
func (c *Controller) OnTriggerEnter(other physics.Category) {
	switch other {
	case physics.CategoryObstacle:
		c.logger.Debug("hit obstacle")
	case physics.CategoryGem:
		c.logger.Debug("collected gem")
	}
}

// StopPlayer zeroes linear and angular velocity.
func (c *Controller) StopPlayer() {
	c.body.Stop()
}

func (c *Controller) DisableMovement() {
	c.movementEnabled = false
}

func (c *Controller) EnableMovement() {
	c.movementEnabled = true
}

func (c *Controller) SetBounceSettings(force, minVelocity float64, enabled bool) {
	c.cfg.BounceForce = force
	c.cfg.MinBounceVelocity = minVelocity
	c.cfg.EnableBouncing = enabled
}

func (c *Controller) SetHoverSettings(height, force, damping, fallMultiplier float64) {
	c.cfg.HoverHeight = height
	c.cfg.HoverForce = force
	c.cfg.HoverDamping = damping
	c.cfg.FallMultiplier = fallMultiplier
}

// ResetBanking snaps the roll back to the baseline orientation.
func (c *Controller) ResetBanking() {
	c.bank = 0
	c.body.Rotation = c.orientation()
}

// Reset places the vehicle at position with no motion, level and grounded.
func (c *Controller) Reset(position mgl64.Vec3) {
	c.body.Position = position
	c.body.Stop()
	c.bounce.Reset()
	c.grounded = false
	c.surfaceDistance = 0
	c.ResetBanking()
	c.movementEnabled = true
}
