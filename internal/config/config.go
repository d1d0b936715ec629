// Package config loads run configuration from a YAML file and FILTERED_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"filtered/internal/particles"
	"filtered/internal/storage"
)

const EnvPrefix = "FILTERED_"

var ErrInvalidConfig = errors.New("invalid config")

// Config holds everything needed to run a simulation.
type Config struct {
	RunID            string              `yaml:"run_id" env:"RUN_ID"`
	Steps            int                 `yaml:"steps" env:"STEPS"`
	Seed             int64               `yaml:"seed" env:"SEED"`
	Supercells       particles.DataSpace `yaml:"supercells"`
	SupercellSize    particles.DataSpace `yaml:"supercell_size"`
	ParticlesPerCell int                 `yaml:"particles_per_cell" env:"PARTICLES_PER_CELL"`
	// DeadRatio is the fraction of seeded particles marked invalid.
	DeadRatio   float64       `yaml:"dead_ratio" env:"DEAD_RATIO"`
	Workers     uint32        `yaml:"workers" env:"WORKERS"`
	Concurrency int           `yaml:"concurrency" env:"CONCURRENCY"`
	Region      particles.Box `yaml:"region"`
	// Drift moves the region by this many cells per step.
	Drift     [3]float64    `yaml:"drift"`
	Pipelines []string      `yaml:"pipelines" env:"PIPELINES" envSeparator:","`
	Store     StoreConfig   `yaml:"store" envPrefix:"STORE_"`
	Logging   LoggingConfig `yaml:"logging" envPrefix:"LOG_"`
}

type StoreConfig struct {
	Kind string `yaml:"kind" env:"KIND"`
	Path string `yaml:"path" env:"PATH"`
}

type LoggingConfig struct {
	Level string `yaml:"level" env:"LEVEL"`
	JSON  bool   `yaml:"json" env:"JSON"`
}

func Default() Config {
	return Config{
		Steps:            4,
		Seed:             1,
		Supercells:       particles.DataSpace{X: 4, Y: 4, Z: 2},
		SupercellSize:    particles.DataSpace{X: 4, Y: 4, Z: 4},
		ParticlesPerCell: 2,
		DeadRatio:        0.1,
		Workers:          4,
		Concurrency:      8,
		Region: particles.Box{
			Min: [3]float64{4, 4, 0},
			Max: [3]float64{12, 12, 8},
		},
		Drift:     [3]float64{0.5, 0, 0},
		Pipelines: []string{"electrons/insideRegion_depositCharge", "ions/insideRegion_depositCharge"},
		Store: StoreConfig{
			Kind: storage.DefaultStoreKind(),
			Path: "filtered.db",
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads path on top of Default, applies environment overrides and
// validates the result. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := ApplyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overrides cfg with the FILTERED_* variables that are set.
func ApplyEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func (c Config) Validate() error {
	switch {
	case c.Steps <= 0:
		return fmt.Errorf("%w: steps must be > 0", ErrInvalidConfig)
	case c.Workers == 0:
		return fmt.Errorf("%w: workers must be > 0", ErrInvalidConfig)
	case c.Concurrency <= 0:
		return fmt.Errorf("%w: concurrency must be > 0", ErrInvalidConfig)
	case c.ParticlesPerCell < 0:
		return fmt.Errorf("%w: particles_per_cell must be >= 0", ErrInvalidConfig)
	case !c.Supercells.Positive():
		return fmt.Errorf("%w: supercells must be positive, got %s", ErrInvalidConfig, c.Supercells)
	case !c.SupercellSize.Positive():
		return fmt.Errorf("%w: supercell_size must be positive, got %s", ErrInvalidConfig, c.SupercellSize)
	case c.DeadRatio < 0 || c.DeadRatio > 1:
		return fmt.Errorf("%w: dead_ratio must be in [0,1]", ErrInvalidConfig)
	case c.Region.Empty():
		return fmt.Errorf("%w: region is empty", ErrInvalidConfig)
	case len(c.Pipelines) == 0:
		return fmt.Errorf("%w: at least one pipeline is required", ErrInvalidConfig)
	}
	switch c.Store.Kind {
	case storage.KindMemory:
	case storage.KindSQLite:
		if c.Store.Path == "" {
			return fmt.Errorf("%w: store.path is required for sqlite", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unsupported store kind %q", ErrInvalidConfig, c.Store.Kind)
	}
	return nil
}
