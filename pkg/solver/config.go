package solver

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/graphdrift/graphdrift/pkg/errors"
)

// MaxDimsCap is the capacity of every position vector. Annealing may use
// fewer dimensions than this, never more.
const MaxDimsCap = 10

// epsilon guards distance normalization so coincident points and zero
// length edges never divide by zero.
const epsilon = 1e-3

// Config is the immutable set of tunable scalars for one solver run.
// The zero value is not usable; start from [DefaultConfig].
type Config struct {
	// MaxDims is the dimensionality ceiling. Annealing phases run at
	// MaxDims-1 down to 3 active dimensions.
	MaxDims int `toml:"max_dims"`

	// EdgeStrength scales the spring force on edges.
	EdgeStrength float64 `toml:"edge_strength"`
	// EdgeRestLength is the distance edges relax toward.
	EdgeRestLength float64 `toml:"edge_rest_length"`

	// RepelStrength caps the pairwise repulsion push.
	RepelStrength float64 `toml:"repel_strength"`
	// RepelDistance is the radius inside which nodes repel.
	RepelDistance float64 `toml:"repel_distance"`

	// HierarchyStrength is the constant vertical nudge separating edge
	// parents from children.
	HierarchyStrength float64 `toml:"hierarchy_strength"`
	// HierarchyDistance is the vertical separation below which the nudge
	// applies.
	HierarchyDistance float64 `toml:"hierarchy_distance"`

	// OuterIters is the number of frames emitted per annealing phase.
	OuterIters int `toml:"outer_iters"`
	// InnerIters is the number of relaxation steps per frame.
	InnerIters int `toml:"inner_iters"`

	// CompressRange and StretchRange clamp the edge color ramps: an edge
	// compressed (stretched) by this fraction of the rest length maps to
	// the fully compressed (stretched) color.
	CompressRange float64 `toml:"compress_range"`
	StretchRange  float64 `toml:"stretch_range"`

	// Seed selects the random source for initial positions. Zero means a
	// fresh seed per run: layouts are then not reproducible, which is the
	// documented default.
	Seed uint64 `toml:"seed"`

	// Workers sets the worker count for the pairwise repulsion pass.
	// Values below 2 keep the serial reference path.
	Workers int `toml:"workers"`
}

// DefaultConfig returns the reference tuning.
func DefaultConfig() Config {
	return Config{
		MaxDims:           MaxDimsCap,
		EdgeStrength:      0.1,
		EdgeRestLength:    1.0,
		RepelStrength:     0.5,
		RepelDistance:     2.0,
		HierarchyStrength: 0.01,
		HierarchyDistance: 0.5,
		OuterIters:        40,
		InnerIters:        10,
		CompressRange:     0.5,
		StretchRange:      2.0,
	}
}

// Validate checks the configuration and returns an INVALID_CONFIG error
// describing the first violation.
func (c Config) Validate() error {
	switch {
	case c.MaxDims < 4:
		return errors.New(errors.ErrCodeInvalidConfig, "max_dims must be at least 4, got %d", c.MaxDims)
	case c.MaxDims > MaxDimsCap:
		return errors.New(errors.ErrCodeInvalidConfig, "max_dims must be at most %d, got %d", MaxDimsCap, c.MaxDims)
	case c.OuterIters <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "outer_iters must be positive, got %d", c.OuterIters)
	case c.InnerIters <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "inner_iters must be positive, got %d", c.InnerIters)
	case c.EdgeRestLength <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "edge_rest_length must be positive, got %g", c.EdgeRestLength)
	case c.EdgeStrength < 0 || c.RepelStrength < 0 || c.HierarchyStrength < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "force strengths must not be negative")
	case c.RepelDistance < 0 || c.HierarchyDistance < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "force distances must not be negative")
	case c.CompressRange <= 0 || c.StretchRange <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "color ramp ranges must be positive")
	case c.Workers < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "workers must not be negative, got %d", c.Workers)
	}
	return nil
}

// LoadConfigFile reads a TOML configuration file on top of the defaults.
// Keys absent from the file keep their default values.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
