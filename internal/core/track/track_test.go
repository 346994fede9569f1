package track

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/hoverrun/internal/core/events/bus"
	"github.com/zeusync/hoverrun/internal/core/physics"
)

type fakeVehicle struct{ pos mgl64.Vec3 }

func (v *fakeVehicle) Position() mgl64.Vec3 { return v.pos }

type recordingSpawner struct{ requests []mgl64.Vec3 }

func (r *recordingSpawner) SpawnSegment(p mgl64.Vec3) { r.requests = append(r.requests, p) }

type recordingObserver struct {
	spawned   []string
	destroyed []string
}

func (o *recordingObserver) OnSegmentSpawned(s *Segment)   { o.spawned = append(o.spawned, s.Archetype()) }
func (o *recordingObserver) OnSegmentDestroyed(s *Segment) { o.destroyed = append(o.destroyed, s.ID()) }

func road(name string) Archetype {
	return Archetype{
		Name: name,
		Pieces: []Piece{
			{Name: "road", Category: physics.CategoryGround, Center: mgl64.Vec3{0, -0.5, 0}, HalfExtents: mgl64.Vec3{10, 0.5, 50}},
			{Name: "gem", Category: physics.CategoryGem, Center: mgl64.Vec3{0, 1, 60}, HalfExtents: mgl64.Vec3{0.5, 0.5, 0.5}, Trigger: true},
		},
	}
}

func testConfig(archetypes ...Archetype) Config {
	cfg := DefaultConfig()
	cfg.Archetypes = archetypes
	return cfg
}

func newTestSegment(center mgl64.Vec3, length float64, ref *VehicleRef, sp Spawner) *Segment {
	return &Segment{
		id:      "seg",
		center:  center,
		length:  length,
		overlap: 5,
		margin:  50,
		spawner: sp,
		vehicle: ref,
	}
}

func TestMeasureLengthIgnoresSmallPieces(t *testing.T) {
	assert.InDelta(t, 100.0, MeasureLength(road("a").Pieces, 10, 42), 1e-9)

	small := []Piece{{HalfExtents: mgl64.Vec3{1, 1, 1}}}
	assert.Equal(t, 42.0, MeasureLength(small, 10, 42), "nothing qualifies keeps the default")

	two := []Piece{
		{HalfExtents: mgl64.Vec3{10, 0.5, 50}},
		{Center: mgl64.Vec3{0, 0, 80}, HalfExtents: mgl64.Vec3{10, 0.5, 30}},
	}
	assert.InDelta(t, 160.0, MeasureLength(two, 10, 0), 1e-9)
}

func TestShouldSpawnNextAtMidpoint(t *testing.T) {
	s := newTestSegment(mgl64.Vec3{0, 0, 50}, 100, nil, nil)

	assert.False(t, s.ShouldSpawnNext(0))
	assert.False(t, s.ShouldSpawnNext(50), "strictly past the midpoint")
	assert.True(t, s.ShouldSpawnNext(50.01))
}

func TestSpawnTriggersOnce(t *testing.T) {
	v := &fakeVehicle{}
	ref := &VehicleRef{}
	ref.Bind(v)
	sp := &recordingSpawner{}
	s := newTestSegment(mgl64.Vec3{0, 0, 50}, 100, ref, sp)

	for _, z := range []float64{0, 40, 60, 70, 120} {
		v.pos = mgl64.Vec3{0, 2, z}
		s.Update(0.016)
	}

	require.Len(t, sp.requests, 1)
	assert.Equal(t, mgl64.Vec3{0, 0, 145}, sp.requests[0])
	assert.Equal(t, SpawnTriggered, s.Phase())
	assert.False(t, s.ShouldSpawnNext(60))
}

func TestShouldDeleteAfterMargin(t *testing.T) {
	s := newTestSegment(mgl64.Vec3{0, 0, 50}, 100, nil, nil)
	assert.False(t, s.ShouldDelete(150))
	assert.True(t, s.ShouldDelete(150.5))
}

func TestDeleteIndependentOfSpawn(t *testing.T) {
	v := &fakeVehicle{pos: mgl64.Vec3{0, 0, 500}}
	ref := &VehicleRef{}
	ref.Bind(v)
	sp := &recordingSpawner{}
	destroyed := 0
	s := newTestSegment(mgl64.Vec3{0, 0, 50}, 100, ref, sp)
	s.onDestroy = func(*Segment) { destroyed++ }

	s.Update(0.016)
	assert.True(t, s.Destroyed())
	assert.Len(t, sp.requests, 1, "a jump past both thresholds does both")

	s.Update(0.016)
	s.Destroy()
	assert.Equal(t, 1, destroyed)
	assert.Len(t, sp.requests, 1)
}

func TestUnboundVehicleMakesNoDecision(t *testing.T) {
	sp := &recordingSpawner{}
	ref := &VehicleRef{}
	s := newTestSegment(mgl64.Vec3{}, 100, ref, sp)

	s.Update(0.016)
	assert.Empty(t, sp.requests)
	assert.False(t, s.Destroyed())

	var nilRef *VehicleRef
	_, ok := nilRef.Position()
	assert.False(t, ok)
}

func TestCapDropsSixthRequest(t *testing.T) {
	events := bus.New()
	var drops []DropInfo
	_, err := events.Subscribe(bus.SegmentDropped, func(e bus.Event) error {
		drops = append(drops, e.Data().(DropInfo))
		return nil
	})
	require.NoError(t, err)

	m := NewManager(testConfig(road("a")), WithEventBus(events))
	for i := 0; i < 6; i++ {
		m.SpawnSegment(mgl64.Vec3{0, 0, float64(i) * 95})
		require.LessOrEqual(t, m.Len(), 5)
	}

	assert.Equal(t, 5, m.Len())
	st := m.Stats()
	assert.Equal(t, uint64(5), st.Spawned)
	assert.Equal(t, uint64(1), st.Dropped)
	require.Len(t, drops, 1)
	assert.Equal(t, DropCapReached, drops[0].Reason)
}

func TestRoundRobinArchetypes(t *testing.T) {
	obs := &recordingObserver{}
	cfg := testConfig(road("a"), road("b"), road("c"))
	cfg.MaxActiveRoads = 10
	m := NewManager(cfg, WithObserver(obs))

	for i := 0; i < 7; i++ {
		m.SpawnSegment(mgl64.Vec3{0, 0, float64(i) * 95})
	}
	assert.Equal(t, []string{"a", "b", "c", "a", "b", "c", "a"}, obs.spawned)
}

func TestNoArchetypesDropsRequests(t *testing.T) {
	m := NewManager(testConfig())
	m.SpawnSegment(mgl64.Vec3{})
	assert.Zero(t, m.Len())
	assert.Equal(t, uint64(1), m.Stats().Dropped)
}

func TestManagerStreamsAlongVehicle(t *testing.T) {
	obs := &recordingObserver{}
	m := NewManager(testConfig(road("a"), road("b")), WithObserver(obs))
	v := &fakeVehicle{}
	m.SpawnSegment(mgl64.Vec3{})
	m.BindVehicle(v)

	for z := 0.0; z <= 1000; z += 5 {
		v.pos = mgl64.Vec3{0, 2, z}
		require.NoError(t, m.Update(0.02))
		require.LessOrEqual(t, m.Len(), 5)
	}

	active := m.Active()
	require.NotEmpty(t, active)
	for _, s := range active {
		assert.False(t, s.Destroyed())
		assert.InDelta(t, 100.0, s.Length(), 1e-9)
	}
	last := active[len(active)-1]
	assert.Greater(t, last.Center().Z()+last.Length()/2, 1000.0, "track stays ahead of the vehicle")
	assert.NotEmpty(t, obs.destroyed)
	st := m.Stats()
	assert.Equal(t, st.Deleted, st.Pruned)
	assert.Equal(t, len(active), st.Active)
}

func TestClearAll(t *testing.T) {
	obs := &recordingObserver{}
	m := NewManager(testConfig(road("a")), WithObserver(obs))
	m.SpawnSegment(mgl64.Vec3{})
	m.SpawnSegment(mgl64.Vec3{0, 0, 95})
	segs := m.Active()

	m.ClearAll()

	assert.Zero(t, m.Len())
	assert.Len(t, obs.destroyed, 2)
	for _, s := range segs {
		assert.True(t, s.Destroyed())
	}
}

func TestExternallyDestroyedSegmentsArePruned(t *testing.T) {
	m := NewManager(testConfig(road("a")))
	m.SpawnSegment(mgl64.Vec3{})
	m.SpawnSegment(mgl64.Vec3{0, 0, 95})
	m.Active()[0].Destroy()

	assert.Equal(t, 2, m.Len(), "still tracked until the next prune")
	require.NoError(t, m.Update(0.02))
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, uint64(1), m.Stats().Pruned)
}

func TestSegmentPiecesInWorldSpace(t *testing.T) {
	m := NewManager(testConfig(road("a")))
	m.SpawnSegment(mgl64.Vec3{0, 0, 95})
	pieces := m.Active()[0].Pieces()
	require.Len(t, pieces, 2)
	assert.Equal(t, mgl64.Vec3{0, -0.5, 95}, pieces[0].Center)
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.MaxActiveRoads = 0
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg = DefaultConfig()
	cfg.Archetypes = []Archetype{{}}
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}
