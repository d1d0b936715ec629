package particles

import "filtered/internal/mappings/threads"

// Box is an axis-aligned region in global cell units. Min is inclusive, Max
// exclusive.
type Box struct {
	Min [3]float64 `json:"min" yaml:"min"`
	Max [3]float64 `json:"max" yaml:"max"`
}

func (b Box) Contains(pos [3]float64) bool {
	for i := 0; i < 3; i++ {
		if pos[i] < b.Min[i] || pos[i] >= b.Max[i] {
			return false
		}
	}
	return true
}

func (b Box) Shift(d [3]float64) Box {
	for i := 0; i < 3; i++ {
		b.Min[i] += d[i]
		b.Max[i] += d[i]
	}
	return b
}

// Empty reports whether no position is inside b.
func (b Box) Empty() bool {
	for i := 0; i < 3; i++ {
		if b.Max[i] <= b.Min[i] {
			return true
		}
	}
	return false
}

// All accepts every particle.
type All[P Element] struct{}

func NewAll[P Element](uint32) All[P] {
	return All[P]{}
}

func (All[P]) Name() string {
	return "all"
}

func (All[P]) Instantiate(DataSpace, threads.WorkerCfg) AllAcc[P] {
	return AllAcc[P]{}
}

type AllAcc[P Element] struct{}

func (AllAcc[P]) Match(P) bool {
	return true
}

// IsValid accepts particles that have not been marked invalid.
type IsValid[P Element] struct{}

func NewIsValid[P Element](uint32) IsValid[P] {
	return IsValid[P]{}
}

func (IsValid[P]) Name() string {
	return "isValid"
}

func (IsValid[P]) Instantiate(DataSpace, threads.WorkerCfg) IsValidAcc[P] {
	return IsValidAcc[P]{}
}

type IsValidAcc[P Element] struct{}

func (IsValidAcc[P]) Match(p P) bool {
	return p.Valid()
}

// InsideRegion accepts particles inside a box given in global cells. The box
// moves by drift cells per step.
type InsideRegion[P Element] struct {
	box Box
}

func NewInsideRegion[P Element](box Box, drift [3]float64) func(currentStep uint32) InsideRegion[P] {
	return func(currentStep uint32) InsideRegion[P] {
		s := float64(currentStep)
		return InsideRegion[P]{box: box.Shift([3]float64{drift[0] * s, drift[1] * s, drift[2] * s})}
	}
}

func (InsideRegion[P]) Name() string {
	return "insideRegion"
}

// Box is the region at the step the filter was built for.
func (f InsideRegion[P]) Box() Box {
	return f.box
}

// Instantiate moves the box into the coordinates of the supercell at
// domainOffset so that Match can compare supercell-local positions.
func (f InsideRegion[P]) Instantiate(domainOffset DataSpace, _ threads.WorkerCfg) InsideRegionAcc[P] {
	o := domainOffset.Float()
	return InsideRegionAcc[P]{local: f.box.Shift([3]float64{-o[0], -o[1], -o[2]})}
}

type InsideRegionAcc[P Element] struct {
	local Box
}

func (a InsideRegionAcc[P]) Match(p P) bool {
	return a.local.Contains(p.Position())
}
