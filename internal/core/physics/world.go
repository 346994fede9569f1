package physics

import (
	"fmt"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
)

// Collider is a static box in the world.
type Collider struct {
	ID       string
	Owner    string
	Name     string
	Category Category
	Bounds   AABB
	// Trigger colliders report overlaps but never push the body.
	Trigger bool
	Enabled bool
}

// Contact is delivered when the body starts touching a collider.
type Contact struct {
	ColliderID string
	Owner      string
	Name       string
	Category   Category
	Normal     mgl64.Vec3
	Point      mgl64.Vec3
}

// ContactHandler receives enter events from World.Step. Both callbacks run
// synchronously inside the step.
type ContactHandler interface {
	OnContactEnter(Contact)
	OnTriggerEnter(Contact)
}

// World is a minimal box world: static colliders plus one dynamic body.
// Colliders keep insertion order so queries are deterministic.
type World struct {
	gravity   mgl64.Vec3
	body      *Body
	colliders []*Collider
	nextID    uint64
	touching  map[string]struct{}
	inside    map[string]struct{}
}

func NewWorld(gravity mgl64.Vec3) *World {
	return &World{
		gravity:  gravity,
		touching: make(map[string]struct{}),
		inside:   make(map[string]struct{}),
	}
}

func (w *World) Gravity() mgl64.Vec3 { return w.gravity }

func (w *World) Body() *Body { return w.body }

// SetBody replaces the simulated body and forgets contact state.
func (w *World) SetBody(b *Body) {
	w.body = b
	clear(w.touching)
	clear(w.inside)
}

// AddCollider registers c and returns its assigned ID.
func (w *World) AddCollider(c Collider) string {
	w.nextID++
	c.ID = fmt.Sprintf("col-%d", w.nextID)
	c.Enabled = true
	w.colliders = append(w.colliders, &c)
	return c.ID
}

func (w *World) Collider(id string) (Collider, bool) {
	for _, c := range w.colliders {
		if c.ID == id {
			return *c, true
		}
	}
	return Collider{}, false
}

// Len reports the number of registered colliders.
func (w *World) Len() int { return len(w.colliders) }

// SetEnabled toggles a collider without removing it.
func (w *World) SetEnabled(id string, enabled bool) bool {
	for _, c := range w.colliders {
		if c.ID == id {
			c.Enabled = enabled
			return true
		}
	}
	return false
}

func (w *World) RemoveCollider(id string) bool {
	return w.removeWhere(func(c *Collider) bool { return c.ID == id }) > 0
}

// RemoveOwner drops every collider registered by owner.
func (w *World) RemoveOwner(owner string) int {
	return w.removeWhere(func(c *Collider) bool { return c.Owner == owner })
}

func (w *World) removeWhere(match func(*Collider) bool) int {
	kept := w.colliders[:0]
	removed := 0
	for _, c := range w.colliders {
		if match(c) {
			delete(w.touching, c.ID)
			delete(w.inside, c.ID)
			removed++
			continue
		}
		kept = append(kept, c)
	}
	for i := len(kept); i < len(w.colliders); i++ {
		w.colliders[i] = nil
	}
	w.colliders = kept
	return removed
}

// CastRay returns the nearest enabled collider on a layer in mask.
func (w *World) CastRay(origin, direction mgl64.Vec3, maxDistance float64, mask LayerMask) (Hit, bool) {
	if direction.Len() == 0 || maxDistance <= 0 {
		return Hit{}, false
	}
	dir := direction.Normalize()
	best := Hit{Distance: math.Inf(1)}
	found := false
	for _, c := range w.colliders {
		if !c.Enabled || !mask.Contains(c.Category.Layer()) {
			continue
		}
		dist, normal, ok := c.Bounds.IntersectRay(origin, dir, maxDistance)
		if !ok || dist >= best.Distance {
			continue
		}
		best = Hit{
			Point:      origin.Add(dir.Mul(dist)),
			Normal:     normal,
			Distance:   dist,
			ColliderID: c.ID,
			Category:   c.Category,
		}
		found = true
	}
	return best, found
}

// Step integrates the body by dt, lands it on solid colliders it reaches from
// above and reports contact and trigger enter events to h.
func (w *World) Step(dt float64, h ContactHandler) {
	b := w.body
	if b == nil || dt <= 0 {
		return
	}

	if b.UseGravity {
		b.Velocity = b.Velocity.Add(w.gravity.Mul(dt))
	}
	b.applyConstraints()
	if spin := b.AngularVelocity.Len(); spin > 0 {
		b.Rotation = mgl64.QuatRotate(spin*dt, b.AngularVelocity.Mul(1/spin)).Mul(b.Rotation).Normalize()
	}

	prev := b.Position
	next := prev.Add(b.Velocity.Mul(dt))
	half := b.HalfExtents
	prevBottom := prev.Y() - half.Y()

	var landed []*Collider
	for _, c := range w.colliders {
		if !c.Enabled || c.Trigger {
			continue
		}
		box := BoxAt(next, half)
		top := c.Bounds.Max.Y()
		if !box.OverlapsXZ(c.Bounds) {
			continue
		}
		nextBottom := next.Y() - half.Y()
		switch b.Detection {
		case CollisionContinuous:
			// Swept along the vertical axis: crossing the top face counts
			// even when the end position is already below the collider.
			if prevBottom < top-1e-9 || nextBottom > top {
				continue
			}
		default:
			if !box.Overlaps(c.Bounds) || prevBottom < top-1e-9 {
				continue
			}
		}
		next[1] = top + half.Y()
		landed = append(landed, c)
	}

	b.Position = next

	contacted := make(map[string]struct{}, len(landed))
	for _, c := range landed {
		contacted[c.ID] = struct{}{}
		if _, already := w.touching[c.ID]; already {
			continue
		}
		if h != nil {
			h.OnContactEnter(Contact{
				ColliderID: c.ID,
				Owner:      c.Owner,
				Name:       c.Name,
				Category:   c.Category,
				Normal:     Up,
				Point:      mgl64.Vec3{next.X(), c.Bounds.Max.Y(), next.Z()},
			})
		}
	}
	w.touching = contacted
	if len(landed) > 0 && b.Velocity.Y() < 0 {
		b.Velocity[1] = 0
	}

	sweep := BoxAt(b.Position, half)
	if b.Detection == CollisionContinuous {
		sweep = sweep.Union(BoxAt(prev, half))
	}
	overlapping := make(map[string]struct{})
	// Handlers may remove colliders (collected pickups) while we iterate.
	for _, c := range slices.Clone(w.colliders) {
		if !c.Enabled || !c.Trigger || !sweep.Overlaps(c.Bounds) {
			continue
		}
		overlapping[c.ID] = struct{}{}
		if _, already := w.inside[c.ID]; already {
			continue
		}
		if h != nil {
			w.inside[c.ID] = struct{}{}
			h.OnTriggerEnter(Contact{
				ColliderID: c.ID,
				Owner:      c.Owner,
				Name:       c.Name,
				Category:   c.Category,
				Point:      b.Position,
			})
		}
	}
	for id := range overlapping {
		if _, ok := w.Collider(id); !ok {
			delete(overlapping, id)
		}
	}
	w.inside = overlapping
}
