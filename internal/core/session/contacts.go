package session

import (
	"github.com/zeusync/hoverrun/internal/core/observability/log"
	"github.com/zeusync/hoverrun/internal/core/physics"
	"github.com/zeusync/hoverrun/internal/core/track"
	"github.com/zeusync/hoverrun/internal/core/vehicle"
)

var (
	_ physics.ContactHandler = (*contactRouter)(nil)
	_ track.Observer         = (*colliderSync)(nil)
)

// contactRouter delivers world contacts to the vehicle and plays the
// obstacle and gem collaborators.
type contactRouter struct {
	world    *physics.World
	vehicle  *vehicle.Controller
	state    *State
	score    *Score
	gemValue int
	logger   log.Log
}

func (r *contactRouter) OnContactEnter(c physics.Contact) {
	r.vehicle.OnSolidContact(c.Normal, c.Category)
}

func (r *contactRouter) OnTriggerEnter(c physics.Contact) {
	r.vehicle.OnTriggerEnter(c.Category)
	if r.state.MovementSuspended() {
		return
	}
	switch c.Category {
	case physics.CategoryObstacle:
		// Disabled, not removed: one hit per obstacle.
		r.world.SetEnabled(c.ColliderID, false)
		r.logger.Info("obstacle hit", log.String("collider", c.ColliderID), log.String("name", c.Name))
		r.state.TriggerGameOver()
	case physics.CategoryGem:
		r.world.RemoveCollider(c.ColliderID)
		r.score.Add(r.gemValue)
	}
}

// colliderSync mirrors segment geometry into the physics world.
type colliderSync struct {
	world *physics.World
}

func (s *colliderSync) OnSegmentSpawned(seg *track.Segment) {
	for _, p := range seg.Pieces() {
		s.world.AddCollider(physics.Collider{
			Owner:    seg.ID(),
			Name:     p.Name,
			Category: p.Category,
			Bounds:   p.Bounds(),
			Trigger:  p.Trigger,
		})
	}
}

func (s *colliderSync) OnSegmentDestroyed(seg *track.Segment) {
	s.world.RemoveOwner(seg.ID())
}
