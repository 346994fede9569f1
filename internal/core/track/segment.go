package track

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/hoverrun/internal/core/physics"
)

// SpawnPhase records whether a segment has already requested its successor.
type SpawnPhase uint8

const (
	SpawnIdle SpawnPhase = iota
	SpawnTriggered
)

func (p SpawnPhase) String() string {
	if p == SpawnTriggered {
		return "triggered"
	}
	return "idle"
}

// Spawner accepts requests for the next segment. Requests may be dropped.
type Spawner interface {
	SpawnSegment(position mgl64.Vec3)
}

// Segment is one live piece of streamed track. Its length is fixed at
// creation.
type Segment struct {
	id        string
	archetype string
	center    mgl64.Vec3
	length    float64
	overlap   float64
	margin    float64
	pieces    []Piece

	phase     SpawnPhase
	destroyed bool

	spawner   Spawner
	vehicle   *VehicleRef
	onDestroy func(*Segment)
}

func (s *Segment) ID() string { return s.id }

func (s *Segment) Archetype() string { return s.archetype }

func (s *Segment) Center() mgl64.Vec3 { return s.center }

func (s *Segment) Length() float64 { return s.length }

func (s *Segment) Overlap() float64 { return s.overlap }

func (s *Segment) Phase() SpawnPhase { return s.phase }

func (s *Segment) Destroyed() bool { return s.destroyed }

// Pieces returns the geometry translated to world space.
func (s *Segment) Pieces() []Piece {
	out := make([]Piece, len(s.pieces))
	for i, p := range s.pieces {
		p.Center = p.Center.Add(s.center)
		out[i] = p
	}
	return out
}

// ShouldSpawnNext reports whether a vehicle at forward coordinate z has
// passed the segment midpoint. It is false for good once the segment has
// triggered.
func (s *Segment) ShouldSpawnNext(z float64) bool {
	if s.phase != SpawnIdle {
		return false
	}
	end := s.center.Z() + s.length/2
	return end-z < s.length/2
}

// ShouldDelete reports whether z is more than the safety margin past the
// trailing extent.
func (s *Segment) ShouldDelete(z float64) bool {
	start := s.center.Z() - s.length/2
	return z > start+s.length+s.margin
}

// NextPosition is where the successor goes, overlapping this segment.
func (s *Segment) NextPosition() mgl64.Vec3 {
	return s.center.Add(physics.Forward.Mul(s.length - s.overlap))
}

// Update runs the spawn and delete checks against the bound vehicle. With no
// vehicle bound it does nothing.
func (s *Segment) Update(float64) {
	if s.destroyed {
		return
	}
	pos, ok := s.vehicle.Position()
	if !ok {
		return
	}
	z := pos.Z()
	if s.ShouldSpawnNext(z) {
		s.phase = SpawnTriggered
		if s.spawner != nil {
			s.spawner.SpawnSegment(s.NextPosition())
		}
	}
	if s.ShouldDelete(z) {
		s.Destroy()
	}
}

// Destroy marks the segment dead and runs the destroy hook once. The
// owning manager drops it from its list on the next prune.
func (s *Segment) Destroy() {
	if s.destroyed {
		return
	}
	s.destroyed = true
	if s.onDestroy != nil {
		s.onDestroy(s)
	}
}
