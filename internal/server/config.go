package server

import (
	"fmt"
	"strings"
	"time"
)

// Config holds spectator server configuration
type Config struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Listen  string `json:"listen" yaml:"listen"`
	Path    string `json:"path" yaml:"path"`
	// BroadcastEvery sends a snapshot every N ticks.
	BroadcastEvery int           `json:"broadcast_every" yaml:"broadcast_every"`
	WriteTimeout   time.Duration `json:"write_timeout" yaml:"write_timeout"`
	// ClientBuffer is how many frames may queue per spectator before new
	// frames are dropped for it.
	ClientBuffer int `json:"client_buffer" yaml:"client_buffer"`
}

func DefaultConfig() Config {
	return Config{
		Listen:         "127.0.0.1:8080",
		Path:           "/ws",
		BroadcastEvery: 6,
		WriteTimeout:   time.Second,
		ClientBuffer:   16,
	}
}

func (c Config) Validate() error {
	switch {
	case c.Listen == "":
		return fmt.Errorf("%w: listen is required", ErrInvalidConfig)
	case !strings.HasPrefix(c.Path, "/"):
		return fmt.Errorf("%w: path must start with /", ErrInvalidConfig)
	case c.BroadcastEvery <= 0:
		return fmt.Errorf("%w: broadcast_every must be positive", ErrInvalidConfig)
	case c.WriteTimeout <= 0:
		return fmt.Errorf("%w: write_timeout must be positive", ErrInvalidConfig)
	case c.ClientBuffer <= 0:
		return fmt.Errorf("%w: client_buffer must be positive", ErrInvalidConfig)
	}
	return nil
}
