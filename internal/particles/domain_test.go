package particles

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataSpaceArithmetic(t *testing.T) {
	a := DataSpace{X: 1, Y: 2, Z: 3}
	b := DataSpace{X: 4, Y: 5, Z: 6}

	assert.Equal(t, DataSpace{X: 5, Y: 7, Z: 9}, a.Add(b))
	assert.Equal(t, DataSpace{X: 4, Y: 10, Z: 18}, a.Mul(b))
	assert.Equal(t, 6, a.Product())
	assert.True(t, a.Positive())
	assert.False(t, DataSpace{X: 1}.Positive())
	assert.Equal(t, "(1,2,3)", a.String())
	assert.Equal(t, [3]float64{1, 2, 3}, a.Float())
}

func TestCellOfFloorsNegativePositions(t *testing.T) {
	assert.Equal(t, DataSpace{X: 0, Y: 1, Z: 3}, CellOf([3]float64{0.2, 1.99, 3}))
	assert.Equal(t, DataSpace{X: -1, Y: -2, Z: 0}, CellOf([3]float64{-0.5, -1.5, 0}))
}

func TestSpeciesCharge(t *testing.T) {
	e := NewElectron(Particle{Weight: 2, Alive: true})
	ion := NewIon(Particle{Weight: 3})

	assert.Equal(t, -1.0, e.Charge())
	assert.Equal(t, 1.0, ion.Charge())
	ion.ChargeState = 3
	assert.Equal(t, 3.0, ion.Charge())
	assert.True(t, e.Valid())
	assert.False(t, ion.Valid())
	assert.Equal(t, 2.0, e.Weighting())
}

func TestNewDomainValidation(t *testing.T) {
	_, err := NewDomain[Electron](DataSpace{X: 0, Y: 1, Z: 1}, DataSpace{X: 4, Y: 4, Z: 4})
	require.ErrorIs(t, err, ErrInvalidDomain)
	_, err = NewDomain[Electron](DataSpace{X: 1, Y: 1, Z: 1}, DataSpace{X: 4, Y: -4, Z: 4})
	require.ErrorIs(t, err, ErrInvalidDomain)
}

func TestNewDomainSupercellOffsets(t *testing.T) {
	d, err := NewDomain[Ion](DataSpace{X: 2, Y: 1, Z: 2}, DataSpace{X: 4, Y: 4, Z: 2})
	require.NoError(t, err)

	cells := d.Supercells()
	require.Len(t, cells, 4)
	assert.Equal(t, DataSpace{X: 0, Y: 0, Z: 0}, cells[0].Offset)
	assert.Equal(t, DataSpace{X: 4, Y: 0, Z: 0}, cells[1].Offset)
	assert.Equal(t, DataSpace{X: 0, Y: 0, Z: 2}, cells[2].Offset)
	assert.Equal(t, DataSpace{X: 4, Y: 0, Z: 2}, cells[3].Offset)
	assert.Equal(t, DataSpace{X: 8, Y: 4, Z: 4}, d.GridSize())
	assert.Equal(t, DataSpace{X: 4, Y: 4, Z: 2}, d.SupercellSize())
}

func TestDomainSeedIsDeterministic(t *testing.T) {
	seed := func() *Domain[Electron] {
		d, err := NewDomain[Electron](DataSpace{X: 2, Y: 2, Z: 1}, DataSpace{X: 2, Y: 2, Z: 2})
		require.NoError(t, err)
		d.Seed(rand.New(rand.NewSource(42)), 3, 0.25, NewElectron)
		return d
	}

	a, b := seed(), seed()
	assert.Equal(t, 4*8*3, a.NumParticles())
	assert.Equal(t, a.Supercells(), b.Supercells())

	dead := 0
	for _, sc := range a.Supercells() {
		for _, p := range sc.Particles {
			pos := p.Position()
			assert.True(t, pos[0] >= 0 && pos[0] < 2)
			assert.True(t, pos[1] >= 0 && pos[1] < 2)
			assert.True(t, pos[2] >= 0 && pos[2] < 2)
			if !p.Valid() {
				dead++
			}
		}
	}
	assert.Positive(t, dead)
	assert.Less(t, dead, a.NumParticles())
}
