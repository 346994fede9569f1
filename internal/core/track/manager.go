package track

import (
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/zeusync/hoverrun/internal/core/events/bus"
	"github.com/zeusync/hoverrun/internal/core/observability/log"
	"github.com/zeusync/hoverrun/pkg/sequence"
)

var _ Spawner = (*Manager)(nil)

// Observer is told about segment lifecycle, e.g. to register colliders.
type Observer interface {
	OnSegmentSpawned(*Segment)
	OnSegmentDestroyed(*Segment)
}

// Stats are diagnostic counters. Dropped requests are never reported as
// errors.
type Stats struct {
	Spawned uint64 `json:"spawned"`
	Dropped uint64 `json:"dropped"`
	Deleted uint64 `json:"deleted"`
	Pruned  uint64 `json:"pruned"`
	Active  int    `json:"active"`
}

// SegmentInfo is the payload of the segment.* events.
type SegmentInfo struct {
	ID        string     `json:"id"`
	Archetype string     `json:"archetype"`
	Center    mgl64.Vec3 `json:"center"`
	Length    float64    `json:"length"`
}

// DropInfo is the payload of bus.SegmentDropped.
type DropInfo struct {
	Position mgl64.Vec3 `json:"position"`
	Reason   string     `json:"reason"`
	Active   int        `json:"active"`
}

const (
	DropCapReached  = "cap_reached"
	DropNoArchetype = "no_archetype"
)

type Option func(*Manager)

func WithLogger(l log.Log) Option {
	return func(m *Manager) { m.logger = l }
}

func WithEventBus(b bus.EventBus) Option {
	return func(m *Manager) { m.bus = b }
}

func WithObserver(o Observer) Option {
	return func(m *Manager) { m.observers = append(m.observers, o) }
}

// Manager owns the bounded list of live segments. Segments only reach it
// through SpawnSegment; the list is mutated nowhere else.
type Manager struct {
	cfg       Config
	logger    log.Log
	bus       bus.EventBus
	observers []Observer

	vehicle   *VehicleRef
	active    []*Segment
	lastIndex int
	lengths   []float64
	stats     Stats
}

func NewManager(cfg Config, opts ...Option) *Manager {
	m := &Manager{
		cfg:       cfg,
		logger:    log.NewNop(),
		vehicle:   &VehicleRef{},
		lastIndex: -1,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.Named("track")

	m.lengths = make([]float64, len(cfg.Archetypes))
	for i, a := range cfg.Archetypes {
		m.lengths[i] = MeasureLength(a.Pieces, cfg.MeasureThreshold, cfg.DefaultLength)
	}
	if len(cfg.Archetypes) == 0 {
		m.logger.Error("no segment archetypes configured")
	}
	return m
}

func (m *Manager) AddObserver(o Observer) {
	m.observers = append(m.observers, o)
}

// BindVehicle makes the vehicle visible to every segment, present and future.
func (m *Manager) BindVehicle(l Locator) {
	m.vehicle.Bind(l)
}

func (m *Manager) Vehicle() *VehicleRef { return m.vehicle }

func (m *Manager) Config() Config { return m.cfg }

// Len is the size of the tracked list, destroyed entries awaiting prune
// included.
func (m *Manager) Len() int { return len(m.active) }

// Active returns the live segments in spawn order.
func (m *Manager) Active() []*Segment {
	return sequence.From(m.active).Filter(alive).Collect()
}

func (m *Manager) Stats() Stats {
	s := m.stats
	s.Active = sequence.From(m.active).Filter(alive).Count()
	return s
}

// SpawnSegment instantiates the next archetype at position. When the cap is
// reached or no archetype exists the request is dropped; the caller is not
// told.
func (m *Manager) SpawnSegment(position mgl64.Vec3) {
	if len(m.active) >= m.cfg.MaxActiveRoads {
		m.drop(position, DropCapReached)
		return
	}
	idx, ok := m.nextArchetype()
	if !ok {
		m.logger.Error("no segment archetype available to spawn")
		m.drop(position, DropNoArchetype)
		return
	}

	arch := m.cfg.Archetypes[idx]
	seg := &Segment{
		id:        uuid.NewString(),
		archetype: arch.Name,
		center:    position,
		length:    m.lengths[idx],
		overlap:   m.cfg.OverlapAmount,
		margin:    m.cfg.DeleteMargin,
		pieces:    slices.Clone(arch.Pieces),
		spawner:   m,
		vehicle:   m.vehicle,
		onDestroy: m.segmentDestroyed,
	}
	m.active = append(m.active, seg)
	m.stats.Spawned++

	m.logger.Debug("segment spawned",
		log.String("id", seg.id),
		log.String("archetype", seg.archetype),
		log.Float64("z", position.Z()),
		log.Int("active", len(m.active)),
	)
	for _, o := range m.observers {
		o.OnSegmentSpawned(seg)
	}
	m.publish(bus.SegmentSpawned, info(seg))

	m.prune()
}

func (m *Manager) nextArchetype() (int, bool) {
	if len(m.cfg.Archetypes) == 0 {
		return 0, false
	}
	m.lastIndex = (m.lastIndex + 1) % len(m.cfg.Archetypes)
	return m.lastIndex, true
}

func (m *Manager) drop(position mgl64.Vec3, reason string) {
	m.stats.Dropped++
	m.logger.Debug("segment request dropped",
		log.String("reason", reason),
		log.Int("active", len(m.active)),
		log.Int("max", m.cfg.MaxActiveRoads),
	)
	m.publish(bus.SegmentDropped, DropInfo{Position: position, Reason: reason, Active: len(m.active)})
}

// Update ticks every tracked segment, then prunes destroyed ones.
func (m *Manager) Update(dt float64) error {
	for _, s := range slices.Clone(m.active) {
		s.Update(dt)
	}
	m.prune()
	return nil
}

// ClearAll destroys every tracked segment and empties the list. Archetype
// rotation continues where it left off.
func (m *Manager) ClearAll() {
	for _, s := range m.active {
		s.Destroy()
	}
	m.active = nil
	m.logger.Debug("cleared all segments")
}

func (m *Manager) prune() {
	before := len(m.active)
	m.active = sequence.From(m.active).Filter(alive).Collect()
	m.stats.Pruned += uint64(before - len(m.active))
}

func (m *Manager) segmentDestroyed(s *Segment) {
	m.stats.Deleted++
	m.logger.Debug("segment deleted", log.String("id", s.id), log.Float64("z", s.center.Z()))
	for _, o := range m.observers {
		o.OnSegmentDestroyed(s)
	}
	m.publish(bus.SegmentDeleted, info(s))
}

func (m *Manager) publish(eventType string, data any) {
	if m.bus == nil {
		return
	}
	if err := m.bus.Publish(bus.NewEvent(eventType, "track", data)); err != nil {
		m.logger.Warn("segment event handlers failed", log.String("event", eventType), log.Err(err))
	}
}

func alive(s *Segment) bool { return !s.destroyed }

func info(s *Segment) SegmentInfo {
	return SegmentInfo{ID: s.id, Archetype: s.archetype, Center: s.center, Length: s.length}
}
