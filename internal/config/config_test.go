package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filtered/internal/particles"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "filtered.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadYAMLOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
steps: 10
seed: 99
workers: 8
supercells: {x: 2, y: 2, z: 2}
region:
  min: [0, 0, 0]
  max: [4, 4, 4]
pipelines:
  - electrons/all_depositCharge
store:
  kind: sqlite
  path: runs.db
logging:
  level: debug
  json: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Steps)
	assert.Equal(t, int64(99), cfg.Seed)
	assert.Equal(t, uint32(8), cfg.Workers)
	assert.Equal(t, particles.DataSpace{X: 2, Y: 2, Z: 2}, cfg.Supercells)
	assert.Equal(t, Default().SupercellSize, cfg.SupercellSize)
	assert.Equal(t, [3]float64{4, 4, 4}, cfg.Region.Max)
	assert.Equal(t, []string{"electrons/all_depositCharge"}, cfg.Pipelines)
	assert.Equal(t, StoreConfig{Kind: "sqlite", Path: "runs.db"}, cfg.Store)
	assert.Equal(t, LoggingConfig{Level: "debug", JSON: true}, cfg.Logging)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "steps: 10\nworkers: 8\n")
	t.Setenv("FILTERED_STEPS", "3")
	t.Setenv("FILTERED_PIPELINES", "electrons/all_depositCharge,ions/insideRegion_depositCharge")
	t.Setenv("FILTERED_STORE_KIND", "sqlite")
	t.Setenv("FILTERED_STORE_PATH", "env.db")
	t.Setenv("FILTERED_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Steps)
	assert.Equal(t, uint32(8), cfg.Workers)
	assert.Equal(t, []string{"electrons/all_depositCharge", "ions/insideRegion_depositCharge"}, cfg.Pipelines)
	assert.Equal(t, "sqlite", cfg.Store.Kind)
	assert.Equal(t, "env.db", cfg.Store.Path)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "steps: [1"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "steps: 0\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	t.Setenv("FILTERED_WORKERS", "many")
	_, err = Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "steps", mutate: func(c *Config) { c.Steps = 0 }},
		{name: "workers", mutate: func(c *Config) { c.Workers = 0 }},
		{name: "concurrency", mutate: func(c *Config) { c.Concurrency = 0 }},
		{name: "particles", mutate: func(c *Config) { c.ParticlesPerCell = -1 }},
		{name: "supercells", mutate: func(c *Config) { c.Supercells.Y = 0 }},
		{name: "supercell size", mutate: func(c *Config) { c.SupercellSize.Z = -2 }},
		{name: "dead ratio", mutate: func(c *Config) { c.DeadRatio = 1.5 }},
		{name: "region", mutate: func(c *Config) { c.Region.Max[0] = c.Region.Min[0] }},
		{name: "pipelines", mutate: func(c *Config) { c.Pipelines = nil }},
		{name: "store kind", mutate: func(c *Config) { c.Store.Kind = "postgres" }},
		{name: "sqlite path", mutate: func(c *Config) { c.Store = StoreConfig{Kind: "sqlite"} }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}
