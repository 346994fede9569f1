package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/hoverrun/internal/core/physics"
	"github.com/zeusync/hoverrun/internal/core/track"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, 250.0, c.Vehicle.ForwardSpeed)
	assert.Equal(t, 5, c.Track.MaxActiveRoads)
	assert.Equal(t, 5.0, c.Track.OverlapAmount)
	assert.Len(t, c.Track.Archetypes, 3)
	for _, a := range c.Track.Archetypes {
		assert.InDelta(t, 100.0, track.MeasureLength(a.Pieces, c.Track.MeasureThreshold, 0), 1e-9, a.Name)
	}
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	src := `
log:
  level: debug
session:
  tick_rate: 120
  autopilot:
    enabled: false
  steer: 0.5
vehicle:
  hover_height: 3
  ground_layers: [Ground, Obstacle]
track:
  max_active_roads: 7
  archetypes:
    - name: wide
      pieces:
        - name: road
          category: Ground
          center: [0, -0.5, 0]
          half_extents: [20, 0.5, 75]
server:
  enabled: true
  write_timeout: 250ms
`
	c, err := LoadYAML(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, 120, c.Session.TickRate)
	assert.False(t, c.Session.Autopilot.Enabled)
	assert.Equal(t, 6.0, c.Session.Autopilot.LaneWidth, "untouched keys keep defaults")
	assert.Equal(t, 3.0, c.Vehicle.HoverHeight)
	assert.Equal(t, 500.0, c.Vehicle.HoverForce)
	assert.Equal(t, []physics.Category{physics.CategoryGround, physics.CategoryObstacle}, c.Vehicle.GroundLayers)
	assert.Equal(t, 7, c.Track.MaxActiveRoads)
	require.Len(t, c.Track.Archetypes, 1)
	assert.Equal(t, mgl64.Vec3{20, 0.5, 75}, c.Track.Archetypes[0].Pieces[0].HalfExtents)
	assert.Equal(t, 250*time.Millisecond, c.Server.WriteTimeout)
	assert.Equal(t, "127.0.0.1:8080", c.Server.Listen)
}

func TestLoadYAMLRejectsUnknownAndInvalid(t *testing.T) {
	_, err := LoadYAML(strings.NewReader("vehicle:\n  warp_drive: true\n"))
	assert.Error(t, err)

	_, err = LoadYAML(strings.NewReader("track:\n  max_active_roads: 0\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorIs(t, err, track.ErrInvalidConfig)

	_, err = LoadYAML(strings.NewReader("log:\n  level: loud\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestEmptyArchetypesAreAllowed(t *testing.T) {
	c, err := LoadYAML(strings.NewReader("track:\n  archetypes: []\n"))
	require.NoError(t, err)
	assert.Empty(t, c.Track.Archetypes)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()

	yml := filepath.Join(dir, "run.yaml")
	require.NoError(t, os.WriteFile(yml, []byte("session:\n  gem_value: 25\n"), 0o600))
	c, err := Load(yml)
	require.NoError(t, err)
	assert.Equal(t, 25, c.Session.GemValue)

	js := filepath.Join(dir, "run.json")
	require.NoError(t, os.WriteFile(js, []byte(`{"track":{"overlap_amount":2}}`), 0o600))
	c, err = Load(js)
	require.NoError(t, err)
	assert.Equal(t, 2.0, c.Track.OverlapAmount)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	c, err = Load(empty)
	require.NoError(t, err)
	assert.Equal(t, Default().Session, c.Session)
}
