package particles

import (
	"errors"
	"fmt"
	"math/rand"
)

var ErrInvalidDomain = errors.New("invalid particle domain")

// Supercell is a block of cells processed by one worker group. Offset is the
// global cell index of its origin.
type Supercell[P Element] struct {
	Offset    DataSpace
	Particles []P
}

// Domain is the local simulation volume of one species, decomposed into
// supercells.
type Domain[P Element] struct {
	supercells    DataSpace
	supercellSize DataSpace
	cells         []Supercell[P]
}

func NewDomain[P Element](supercells, supercellSize DataSpace) (*Domain[P], error) {
	if !supercells.Positive() {
		return nil, fmt.Errorf("%w: supercell count %s", ErrInvalidDomain, supercells)
	}
	if !supercellSize.Positive() {
		return nil, fmt.Errorf("%w: supercell size %s", ErrInvalidDomain, supercellSize)
	}
	d := &Domain[P]{
		supercells:    supercells,
		supercellSize: supercellSize,
		cells:         make([]Supercell[P], 0, supercells.Product()),
	}
	for z := 0; z < supercells.Z; z++ {
		for y := 0; y < supercells.Y; y++ {
			for x := 0; x < supercells.X; x++ {
				idx := DataSpace{X: x, Y: y, Z: z}
				d.cells = append(d.cells, Supercell[P]{Offset: idx.Mul(supercellSize)})
			}
		}
	}
	return d, nil
}

func (d *Domain[P]) Supercells() []Supercell[P] {
	return d.cells
}

func (d *Domain[P]) SupercellSize() DataSpace {
	return d.supercellSize
}

// GridSize is the extent of the domain in cells.
func (d *Domain[P]) GridSize() DataSpace {
	return d.supercells.Mul(d.supercellSize)
}

func (d *Domain[P]) NumParticles() int {
	n := 0
	for i := range d.cells {
		n += len(d.cells[i].Particles)
	}
	return n
}

// Seed replaces the particles of every supercell with perCell particles per
// cell at uniformly random positions. A fraction deadRatio of them is marked
// invalid. The result depends only on the state of rng.
func (d *Domain[P]) Seed(rng *rand.Rand, perCell int, deadRatio float64, build func(Particle) P) {
	size := d.supercellSize
	for i := range d.cells {
		sc := &d.cells[i]
		sc.Particles = make([]P, 0, perCell*size.Product())
		for n := 0; n < perCell*size.Product(); n++ {
			p := Particle{
				Pos: [3]float64{
					rng.Float64() * float64(size.X),
					rng.Float64() * float64(size.Y),
					rng.Float64() * float64(size.Z),
				},
				Weight: 1,
				Alive:  rng.Float64() >= deadRatio,
			}
			sc.Particles = append(sc.Particles, build(p))
		}
	}
}
