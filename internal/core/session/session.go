package session

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/zeusync/hoverrun/internal/core/events/bus"
	"github.com/zeusync/hoverrun/internal/core/observability/log"
	"github.com/zeusync/hoverrun/internal/core/physics"
	"github.com/zeusync/hoverrun/internal/core/systems"
	"github.com/zeusync/hoverrun/internal/core/track"
	"github.com/zeusync/hoverrun/internal/core/vehicle"
)

var ErrMissingDependency = errors.New("session dependency is missing")

const (
	SystemVehicle = "vehicle"
	SystemPhysics = "physics"
	SystemTrack   = "track"
)

// Deps are the components a session is assembled from. Exactly one of each
// exists per session.
type Deps struct {
	World   *physics.World
	Vehicle *vehicle.Controller
	Track   *track.Manager
	State   *State
	Score   *Score
	Logger  log.Log
	Events  bus.EventBus
}

// Session is the top-level loop. It owns every component and is not safe
// for concurrent use.
type Session struct {
	id  string
	cfg Config

	world   *physics.World
	vehicle *vehicle.Controller
	track   *track.Manager
	state   *State
	score   *Score
	steer   Steering
	systems *systems.Manager
	router  *contactRouter

	logger log.Log
	events bus.EventBus

	tick    uint64
	lastErr error
	digest  *xxhash.Digest
	scratch []byte
}

func New(cfg Config, d Deps) (*Session, error) {
	if d.World == nil || d.Vehicle == nil || d.Track == nil || d.State == nil || d.Score == nil {
		return nil, ErrMissingDependency
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if d.Logger == nil {
		d.Logger = log.NewNop()
	}

	s := &Session{
		id:      uuid.NewString(),
		cfg:     cfg,
		world:   d.World,
		vehicle: d.Vehicle,
		track:   d.Track,
		state:   d.State,
		score:   d.Score,
		systems: systems.NewManager(),
		events:  d.Events,
		digest:  xxhash.New(),
		scratch: make([]byte, 0, 64),
	}
	s.logger = d.Logger.Named("session").With(log.String("session", s.id))

	if cfg.Autopilot.Enabled {
		s.steer = NewAutopilot(d.World, cfg.Autopilot.LaneWidth, cfg.Autopilot.Lookahead)
	} else {
		s.steer = FixedSteer(cfg.Steer)
	}

	s.router = &contactRouter{
		world:    d.World,
		vehicle:  d.Vehicle,
		state:    d.State,
		score:    d.Score,
		gemValue: cfg.GemValue,
		logger:   s.logger,
	}
	d.Track.AddObserver(&colliderSync{world: d.World})
	d.Track.BindVehicle(d.Vehicle)
	d.State.OnGameOver(func() {
		d.Vehicle.StopPlayer()
		d.Vehicle.DisableMovement()
		d.Score.EndGame()
	})

	err := errors.Join(
		s.systems.RegisterSystem(systems.Func{SystemName: SystemVehicle, SystemPriority: systems.PriorityHigh, Fn: s.advanceVehicle}),
		s.systems.RegisterSystem(systems.Func{SystemName: SystemPhysics, SystemPriority: systems.PriorityNormal, Fn: s.stepWorld}),
		s.systems.RegisterSystem(systems.Func{SystemName: SystemTrack, SystemPriority: systems.PriorityLow, Fn: d.Track.Update}),
	)
	if err != nil {
		return nil, fmt.Errorf("register systems: %w", err)
	}
	s.systems.OnSystemError(func(name string, err error) {
		s.logger.Error("system failed", log.String("system", name), log.Err(err))
	})
	return s, nil
}

func (s *Session) ID() string { return s.id }

func (s *Session) Config() Config { return s.cfg }

func (s *Session) Vehicle() *vehicle.Controller { return s.vehicle }

func (s *Session) Track() *track.Manager { return s.track }

func (s *Session) World() *physics.World { return s.world }

func (s *Session) State() *State { return s.state }

func (s *Session) Score() *Score { return s.score }

func (s *Session) Systems() *systems.Manager { return s.systems }

// Ticks is the number of simulated ticks in the current run.
func (s *Session) Ticks() uint64 { return s.tick }

// LastError is the most recent system failure of the current run.
func (s *Session) LastError() error { return s.lastErr }

// Start places the vehicle and streams in the first segment.
func (s *Session) Start() {
	s.vehicle.Reset(s.spawnPoint())
	s.world.SetBody(s.vehicle.Body())
	s.track.SpawnSegment(s.cfg.Origin)
	s.logger.Info("session started",
		log.Float64("origin_z", s.cfg.Origin.Z()),
		log.Bool("autopilot", s.cfg.Autopilot.Enabled),
	)
}

// Restart clears the track and begins a new run. The high score survives.
func (s *Session) Restart() {
	s.track.ClearAll()
	s.score.Reset()
	s.state.Reset()
	s.tick = 0
	s.lastErr = nil
	s.digest.Reset()
	s.Start()
	s.publish(bus.SessionRestarted, s.id)
}

// Tick advances the simulation by dt. While paused or over, nothing moves.
func (s *Session) Tick(dt float64) error {
	if s.state.MovementSuspended() {
		return nil
	}
	err := s.systems.Update(dt)
	s.tick++
	s.record()
	if err != nil {
		s.lastErr = err
	}
	return err
}

func (s *Session) advanceVehicle(dt float64) error {
	s.vehicle.Advance(dt, s.steer.Steer(s.vehicle.Position()))
	return nil
}

func (s *Session) stepWorld(dt float64) error {
	s.world.Step(dt, s.router)
	return nil
}

func (s *Session) spawnPoint() mgl64.Vec3 {
	return s.cfg.Origin.Add(physics.Up.Mul(s.cfg.SpawnHeight))
}

// record folds this tick's vehicle state into the run digest.
func (s *Session) record() {
	b := s.scratch[:0]
	b = binary.LittleEndian.AppendUint64(b, s.tick)
	for _, v := range s.vehicle.Position() {
		b = binary.LittleEndian.AppendUint64(b, math.Float64bits(v))
	}
	for _, v := range s.vehicle.Velocity() {
		b = binary.LittleEndian.AppendUint64(b, math.Float64bits(v))
	}
	b = binary.LittleEndian.AppendUint64(b, math.Float64bits(s.vehicle.Bank()))
	_, _ = s.digest.Write(b)
	s.scratch = b
}

// Digest fingerprints every tick of the current run. Two runs with the same
// configuration produce the same value.
func (s *Session) Digest() uint64 {
	return s.digest.Sum64()
}

func (s *Session) publish(eventType string, data any) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(bus.NewEvent(eventType, "session", data)); err != nil {
		s.logger.Warn("session handlers failed", log.String("event", eventType), log.Err(err))
	}
}
