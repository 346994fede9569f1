package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/hoverrun/internal/core/observability/log"
	"github.com/zeusync/hoverrun/internal/core/physics"
	"github.com/zeusync/hoverrun/internal/core/session"
	"github.com/zeusync/hoverrun/internal/core/track"
	"github.com/zeusync/hoverrun/internal/core/vehicle"
	"github.com/zeusync/hoverrun/internal/server"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type LogConfig struct {
	Level string `json:"level" yaml:"level"`
}

type PhysicsConfig struct {
	Gravity mgl64.Vec3 `json:"gravity" yaml:"gravity"`
}

// Config is the whole runtime configuration of a hoverrun process.
type Config struct {
	Log     LogConfig      `json:"log" yaml:"log"`
	Session session.Config `json:"session" yaml:"session"`
	Vehicle vehicle.Config `json:"vehicle" yaml:"vehicle"`
	Physics PhysicsConfig  `json:"physics" yaml:"physics"`
	Track   track.Config   `json:"track" yaml:"track"`
	Server  server.Config  `json:"server" yaml:"server"`
}

func Default() *Config {
	tr := track.DefaultConfig()
	tr.Archetypes = DefaultArchetypes()
	return &Config{
		Log:     LogConfig{Level: "info"},
		Session: session.DefaultConfig(),
		Vehicle: vehicle.DefaultConfig(),
		Physics: PhysicsConfig{Gravity: mgl64.Vec3{0, -9.81, 0}},
		Track:   tr,
		Server:  server.DefaultConfig(),
	}
}

// Load reads path as JSON when it has a .json extension and as YAML
// otherwise. Missing keys keep their defaults.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = f.Close() }()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return LoadJSON(f)
	}
	return LoadYAML(f)
}

// LoadYAML decodes YAML over the defaults. Unknown keys are rejected.
func LoadYAML(r io.Reader) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode yaml config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadJSON decodes JSON over the defaults. Unknown keys are rejected.
func LoadJSON(r io.Reader) (*Config, error) {
	c := Default()
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode json config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %w", ErrInvalidConfig, err)
	}
	if err := c.Session.Validate(); err != nil {
		return fmt.Errorf("%w: session: %w", ErrInvalidConfig, err)
	}
	if err := c.Vehicle.Validate(); err != nil {
		return fmt.Errorf("%w: vehicle: %w", ErrInvalidConfig, err)
	}
	if err := c.Track.Validate(); err != nil {
		return fmt.Errorf("%w: track: %w", ErrInvalidConfig, err)
	}
	if c.Server.Enabled {
		if err := c.Server.Validate(); err != nil {
			return fmt.Errorf("%w: server: %w", ErrInvalidConfig, err)
		}
	}
	return nil
}

// DefaultArchetypes is a small rotation: a plain road, a gem run and a
// slalom that needs a lane change.
func DefaultArchetypes() []track.Archetype {
	road := track.Piece{
		Name:        "road",
		Category:    physics.CategoryGround,
		Center:      mgl64.Vec3{0, -0.5, 0},
		HalfExtents: mgl64.Vec3{10, 0.5, 50},
	}
	gem := func(x, z float64) track.Piece {
		return track.Piece{
			Name:        "gem",
			Category:    physics.CategoryGem,
			Center:      mgl64.Vec3{x, 2.5, z},
			HalfExtents: mgl64.Vec3{0.5, 0.5, 0.5},
			Trigger:     true,
		}
	}
	crate := func(x, z float64) track.Piece {
		return track.Piece{
			Name:        "crate",
			Category:    physics.CategoryObstacle,
			Center:      mgl64.Vec3{x, 1.5, z},
			HalfExtents: mgl64.Vec3{1.5, 1.5, 1.5},
			Trigger:     true,
		}
	}
	return []track.Archetype{
		{Name: "straight", Pieces: []track.Piece{road}},
		{Name: "gems", Pieces: []track.Piece{road, gem(0, -20), gem(0, 0), gem(0, 20)}},
		{Name: "slalom", Pieces: []track.Piece{road, crate(0, 25), crate(6, -15), gem(-6, 15), gem(-6, 25), gem(-6, 35)}},
	}
}
