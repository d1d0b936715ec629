package simulation

import (
	"fmt"
	"math/rand"

	"filtered/internal/fields"
	"filtered/internal/particles"
)

// Environment is the simulated state shared by the pipelines of one run.
type Environment struct {
	Electrons *particles.Domain[particles.Electron]
	Ions      *particles.Domain[particles.Ion]
	// Charge is the charge density deposited during the current step.
	Charge *fields.Grid
	Region particles.Box
	Drift  [3]float64
}

type EnvironmentParams struct {
	Seed             int64
	Supercells       particles.DataSpace
	SupercellSize    particles.DataSpace
	ParticlesPerCell int
	DeadRatio        float64
	Region           particles.Box
	Drift            [3]float64
}

// NewEnvironment seeds both species from params.Seed; equal params produce equal
// environments.
func NewEnvironment(params EnvironmentParams) (*Environment, error) {
	electrons, err := particles.NewDomain[particles.Electron](params.Supercells, params.SupercellSize)
	if err != nil {
		return nil, fmt.Errorf("electron domain: %w", err)
	}
	ions, err := particles.NewDomain[particles.Ion](params.Supercells, params.SupercellSize)
	if err != nil {
		return nil, fmt.Errorf("ion domain: %w", err)
	}
	size := electrons.GridSize()
	grid, err := fields.NewGrid(size.X, size.Y, size.Z)
	if err != nil {
		return nil, fmt.Errorf("charge grid: %w", err)
	}

	rng := rand.New(rand.NewSource(params.Seed))
	electrons.Seed(rng, params.ParticlesPerCell, params.DeadRatio, particles.NewElectron)
	ions.Seed(rng, params.ParticlesPerCell, params.DeadRatio, particles.NewIon)

	return &Environment{
		Electrons: electrons,
		Ions:      ions,
		Charge:    grid,
		Region:    params.Region,
		Drift:     params.Drift,
	}, nil
}
