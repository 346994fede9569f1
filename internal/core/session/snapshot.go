package session

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/hoverrun/internal/core/track"
	"github.com/zeusync/hoverrun/pkg/sequence"
)

type VehicleSnapshot struct {
	Position        mgl64.Vec3 `json:"position"`
	Velocity        mgl64.Vec3 `json:"velocity"`
	Bank            float64    `json:"bank"`
	Grounded        bool       `json:"grounded"`
	SurfaceDistance float64    `json:"surface_distance"`
	Bouncing        bool       `json:"bouncing"`
	MovementEnabled bool       `json:"movement_enabled"`
}

type SegmentSnapshot struct {
	ID        string     `json:"id"`
	Archetype string     `json:"archetype"`
	Center    mgl64.Vec3 `json:"center"`
	Length    float64    `json:"length"`
	Phase     string     `json:"phase"`
}

// Snapshot is a read-only view of the session at the end of a tick.
type Snapshot struct {
	Session   string            `json:"session"`
	Tick      uint64            `json:"tick"`
	Phase     string            `json:"phase"`
	Vehicle   VehicleSnapshot   `json:"vehicle"`
	Segments  []SegmentSnapshot `json:"segments"`
	Score     int               `json:"score"`
	HighScore int               `json:"high_score"`
	Track     track.Stats       `json:"track"`
	Colliders int               `json:"colliders"`
	Digest    string            `json:"digest"`
}

func (s *Session) Snapshot() Snapshot {
	v := s.vehicle
	return Snapshot{
		Session: s.id,
		Tick:    s.tick,
		Phase:   s.state.Phase().String(),
		Vehicle: VehicleSnapshot{
			Position:        v.Position(),
			Velocity:        v.Velocity(),
			Bank:            v.Bank(),
			Grounded:        v.Grounded(),
			SurfaceDistance: v.SurfaceDistance(),
			Bouncing:        v.JustBounced(),
			MovementEnabled: v.MovementEnabled(),
		},
		Segments: sequence.ToArray(sequence.From(s.track.Active()), func(seg *track.Segment) SegmentSnapshot {
			return SegmentSnapshot{
				ID:        seg.ID(),
				Archetype: seg.Archetype(),
				Center:    seg.Center(),
				Length:    seg.Length(),
				Phase:     seg.Phase().String(),
			}
		}),
		Score:     s.score.Current(),
		HighScore: s.score.High(),
		Track:     s.track.Stats(),
		Colliders: s.world.Len(),
		Digest:    fmt.Sprintf("%016x", s.Digest()),
	}
}
