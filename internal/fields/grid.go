// Package fields holds scalar fields defined on the cells of the simulated
// domain.
package fields

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"
)

var ErrInvalidGridSize = errors.New("invalid grid size")

// Grid is a 3D scalar field. Add is safe for concurrent use by any number of
// workers; Reset and Sum must not race with Add.
type Grid struct {
	size  [3]int
	cells []atomic.Uint64
}

func NewGrid(x, y, z int) (*Grid, error) {
	if x <= 0 || y <= 0 || z <= 0 {
		return nil, fmt.Errorf("%w: %dx%dx%d", ErrInvalidGridSize, x, y, z)
	}
	return &Grid{
		size:  [3]int{x, y, z},
		cells: make([]atomic.Uint64, x*y*z),
	}, nil
}

func (g *Grid) Size() [3]int {
	return g.size
}

// Index maps a cell coordinate to its linear index, x fastest.
func (g *Grid) Index(x, y, z int) (int, bool) {
	if x < 0 || y < 0 || z < 0 || x >= g.size[0] || y >= g.size[1] || z >= g.size[2] {
		return 0, false
	}
	return x + g.size[0]*(y+g.size[1]*z), true
}

// Add accumulates v into the cell. It reports false, leaving the grid
// untouched, when the cell is outside the grid.
func (g *Grid) Add(x, y, z int, v float64) bool {
	idx, ok := g.Index(x, y, z)
	if !ok {
		return false
	}
	cell := &g.cells[idx]
	for {
		old := cell.Load()
		next := math.Float64bits(math.Float64frombits(old) + v)
		if cell.CompareAndSwap(old, next) {
			return true
		}
	}
}

func (g *Grid) At(x, y, z int) float64 {
	idx, ok := g.Index(x, y, z)
	if !ok {
		return 0
	}
	return math.Float64frombits(g.cells[idx].Load())
}

func (g *Grid) Sum() float64 {
	var sum float64
	for i := range g.cells {
		sum += math.Float64frombits(g.cells[i].Load())
	}
	return sum
}

func (g *Grid) Reset() {
	for i := range g.cells {
		g.cells[i].Store(0)
	}
}
