package track

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/hoverrun/internal/core/physics"
)

// Piece is one box of segment geometry, positioned relative to the segment
// center.
type Piece struct {
	Name        string           `json:"name" yaml:"name"`
	Category    physics.Category `json:"category" yaml:"category"`
	Center      mgl64.Vec3       `json:"center" yaml:"center"`
	HalfExtents mgl64.Vec3       `json:"half_extents" yaml:"half_extents"`
	// Trigger pieces (pickups, obstacles) report overlaps instead of blocking.
	Trigger bool `json:"trigger" yaml:"trigger"`
}

// Bounds returns the local box of the piece.
func (p Piece) Bounds() physics.AABB {
	return physics.BoxAt(p.Center, p.HalfExtents)
}

// Archetype is a template segments are instantiated from.
type Archetype struct {
	Name   string  `json:"name" yaml:"name"`
	Pieces []Piece `json:"pieces" yaml:"pieces"`
}

// MeasureLength returns the forward extent of the union of every piece whose
// diagonal exceeds threshold. Small props are ignored so they cannot skew the
// measurement. When nothing qualifies fallback is returned.
func MeasureLength(pieces []Piece, threshold, fallback float64) float64 {
	var (
		total physics.AABB
		found bool
	)
	for _, p := range pieces {
		b := p.Bounds()
		if b.Size().Len() <= threshold {
			continue
		}
		if !found {
			total, found = b, true
			continue
		}
		total = total.Union(b)
	}
	if !found {
		return fallback
	}
	return total.Size().Z()
}
