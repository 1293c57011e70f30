// Package config holds the tunable constants of the router, the lane layout and the
// renderers, with TOML file overrides.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Router tunes route synthesis and repair.
type Router struct {
	MinStartLength float64 `toml:"min_start_length"` // Minimum stub leaving an endpoint
	MinLength      float64 `toml:"min_length"`       // Minimum perpendicular jog
	GridSize       float64 `toml:"grid_size"`        // Interior points snap to this grid after repair
	VisibleMargin  float64 `toml:"visible_margin"`   // Projection repair must keep x at or beyond this
	MaxSteps       int     `toml:"max_steps"`        // Walk budget before the dog-leg fallback
	CacheSize      int     `toml:"cache_size"`       // Memoized routes, zero disables the cache
}

// Layout tunes the dependency lane packer.
type Layout struct {
	GraphMargin  float64 `toml:"graph_margin"`
	GraphSpacing float64 `toml:"graph_spacing"`
	SafeMargin   float64 `toml:"safe_margin"`
	RowHeight    float64 `toml:"row_height"`
}

// Render tunes the drawing sinks.
type Render struct {
	CellSize       float64 `toml:"cell_size"` // Scene units per text cell
	PNGScale       float64 `toml:"png_scale"`
	PNGPadding     float64 `toml:"png_padding"`
	JunctionRadius float64 `toml:"junction_radius"`
}

// Config is the complete configuration.
type Config struct {
	Router Router `toml:"router"`
	Layout Layout `toml:"layout"`
	Render Render `toml:"render"`
}

// ErrInvalid is returned when a loaded configuration fails validation.
var ErrInvalid = errors.New("invalid configuration")

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Router: Router{
			MinStartLength: 20,
			MinLength:      10,
			GridSize:       10,
			VisibleMargin:  10,
			MaxSteps:       32,
			CacheSize:      256,
		},
		Layout: Layout{
			GraphMargin:  40,
			GraphSpacing: 10,
			SafeMargin:   2,
			RowHeight:    20,
		},
		Render: Render{
			CellSize:       10,
			PNGScale:       2,
			PNGPadding:     20,
			JunctionRadius: 5,
		},
	}
}

// Load reads a TOML file on top of the defaults. Keys absent from the file keep their
// default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := Parse(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML into cfg and validates the result.
func Parse(data []byte, cfg *Config) error {
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	return cfg.Validate()
}

// Validate checks that every length is usable.
func (c Config) Validate() error {
	switch {
	case c.Router.MinStartLength <= 0:
		return fmt.Errorf("%w: router.min_start_length must be positive", ErrInvalid)
	case c.Router.MinLength <= 0:
		return fmt.Errorf("%w: router.min_length must be positive", ErrInvalid)
	case c.Router.GridSize < 0:
		return fmt.Errorf("%w: router.grid_size must not be negative", ErrInvalid)
	case c.Router.MaxSteps <= 0:
		return fmt.Errorf("%w: router.max_steps must be positive", ErrInvalid)
	case c.Router.CacheSize < 0:
		return fmt.Errorf("%w: router.cache_size must not be negative", ErrInvalid)
	case c.Layout.GraphSpacing <= 0:
		return fmt.Errorf("%w: layout.graph_spacing must be positive", ErrInvalid)
	case c.Layout.SafeMargin < 0:
		return fmt.Errorf("%w: layout.safe_margin must not be negative", ErrInvalid)
	case c.Render.CellSize <= 0:
		return fmt.Errorf("%w: render.cell_size must be positive", ErrInvalid)
	}
	return nil
}

// Marshal encodes cfg as TOML.
func Marshal(cfg Config) ([]byte, error) {
	return toml.Marshal(cfg)
}
