package particles

import "fmt"

// DataSpace is a 3D cell index or extent. It is the domain offset handed to
// filters and functors when they are specialized for a supercell.
type DataSpace struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
	Z int `json:"z" yaml:"z"`
}

func (d DataSpace) Add(o DataSpace) DataSpace {
	return DataSpace{X: d.X + o.X, Y: d.Y + o.Y, Z: d.Z + o.Z}
}

// Mul multiplies component-wise.
func (d DataSpace) Mul(o DataSpace) DataSpace {
	return DataSpace{X: d.X * o.X, Y: d.Y * o.Y, Z: d.Z * o.Z}
}

// Product is the number of cells in an extent.
func (d DataSpace) Product() int {
	return d.X * d.Y * d.Z
}

func (d DataSpace) Positive() bool {
	return d.X > 0 && d.Y > 0 && d.Z > 0
}

func (d DataSpace) Array() [3]int {
	return [3]int{d.X, d.Y, d.Z}
}

func (d DataSpace) Float() [3]float64 {
	return [3]float64{float64(d.X), float64(d.Y), float64(d.Z)}
}

func (d DataSpace) String() string {
	return fmt.Sprintf("(%d,%d,%d)", d.X, d.Y, d.Z)
}
