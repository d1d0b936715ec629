// Package particles provides the particle species of the simulation, the
// supercell decomposition of their domain and the reference filters and
// functors used with the functor package.
package particles

// Element is a macro particle as seen by filters and functors. Position is
// relative to the origin of the supercell holding the particle, in cells.
type Element interface {
	Position() [3]float64
	Charge() float64
	Weighting() float64
	Valid() bool
}

// Particle carries the attributes shared by all species.
type Particle struct {
	Pos    [3]float64 `json:"pos"`
	Weight float64    `json:"weight"`
	Alive  bool       `json:"alive"`
}

func (p Particle) Position() [3]float64 {
	return p.Pos
}

func (p Particle) Weighting() float64 {
	return p.Weight
}

func (p Particle) Valid() bool {
	return p.Alive
}

// Electron has charge -1 in elementary charge units.
type Electron struct {
	Particle
}

func NewElectron(p Particle) Electron {
	return Electron{Particle: p}
}

func (Electron) Charge() float64 {
	return -1
}

// Ion carries its charge state.
type Ion struct {
	Particle
	ChargeState int `json:"charge_state"`
}

// NewIon returns a singly ionized ion.
func NewIon(p Particle) Ion {
	return Ion{Particle: p, ChargeState: 1}
}

func (i Ion) Charge() float64 {
	return float64(i.ChargeState)
}

// CellOf returns the index of the cell containing a supercell-local position.
func CellOf(pos [3]float64) DataSpace {
	return DataSpace{X: floor(pos[0]), Y: floor(pos[1]), Z: floor(pos[2])}
}

func floor(v float64) int {
	i := int(v)
	if v < 0 && float64(i) != v {
		i--
	}
	return i
}
