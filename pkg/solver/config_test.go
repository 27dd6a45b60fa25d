package solver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/graphdrift/graphdrift/pkg/errors"
)

func TestDefaultConfig_Valid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		wantOK bool
	}{
		{"max dims floor", func(c *Config) { c.MaxDims = 3 }, false},
		{"max dims at floor+1", func(c *Config) { c.MaxDims = 4 }, true},
		{"max dims over cap", func(c *Config) { c.MaxDims = MaxDimsCap + 1 }, false},
		{"zero outer iters", func(c *Config) { c.OuterIters = 0 }, false},
		{"zero inner iters", func(c *Config) { c.InnerIters = 0 }, false},
		{"zero rest length", func(c *Config) { c.EdgeRestLength = 0 }, false},
		{"negative edge strength", func(c *Config) { c.EdgeStrength = -0.1 }, false},
		{"negative repel distance", func(c *Config) { c.RepelDistance = -1 }, false},
		{"zero stretch range", func(c *Config) { c.StretchRange = 0 }, false},
		{"negative workers", func(c *Config) { c.Workers = -1 }, false},
		{"zero strengths allowed", func(c *Config) { c.EdgeStrength, c.RepelStrength, c.HierarchyStrength = 0, 0, 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantOK && err != nil {
				t.Fatalf("Validate() = %v, want nil", err)
			}
			if !tt.wantOK {
				if !errors.Is(err, errors.ErrCodeInvalidConfig) {
					t.Fatalf("Validate() = %v, want code %s", err, errors.ErrCodeInvalidConfig)
				}
			}
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "layout.toml")
	content := `
max_dims = 6
edge_strength = 0.2
seed = 99
workers = 4
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile() error = %v", err)
	}
	if cfg.MaxDims != 6 || cfg.EdgeStrength != 0.2 || cfg.Seed != 99 || cfg.Workers != 4 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	// Keys absent from the file keep their defaults.
	if cfg.EdgeRestLength != DefaultConfig().EdgeRestLength {
		t.Errorf("EdgeRestLength = %g, want default %g", cfg.EdgeRestLength, DefaultConfig().EdgeRestLength)
	}
}

func TestLoadConfigFile_Missing(t *testing.T) {
	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "absent.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Fatalf("LoadConfigFile() error = %v, want code %s", err, errors.ErrCodeFileNotFound)
	}
}

func TestLoadConfigFile_BadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.toml")
	if err := os.WriteFile(path, []byte("max_dims = ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfigFile(path); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Fatalf("LoadConfigFile() error = %v, want code %s", err, errors.ErrCodeInvalidConfig)
	}
}

func TestLoadConfigFile_InvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid.toml")
	if err := os.WriteFile(path, []byte("max_dims = 99"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfigFile(path); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Fatalf("LoadConfigFile() error = %v, want code %s", err, errors.ErrCodeInvalidConfig)
	}
}
