package particles

import (
	"sync/atomic"

	"filtered/internal/fields"
	"filtered/internal/mappings/threads"
)

// Tally counts functor invocations across all workers.
type Tally struct {
	applied atomic.Int64
}

func (t *Tally) Add(n int64) {
	t.applied.Add(n)
}

func (t *Tally) Load() int64 {
	return t.applied.Load()
}

func (t *Tally) Reset() {
	t.applied.Store(0)
}

// DepositCharge adds the charge of a particle to the cell holding it
// (nearest grid point).
type DepositCharge[P Element] struct {
	grid  *fields.Grid
	tally *Tally
}

func NewDepositCharge[P Element](grid *fields.Grid, tally *Tally) func(currentStep uint32) DepositCharge[P] {
	return func(uint32) DepositCharge[P] {
		return DepositCharge[P]{grid: grid, tally: tally}
	}
}

func (DepositCharge[P]) Name() string {
	return "depositCharge"
}

func (DepositCharge[P]) NumArgs() uint32 {
	return 1
}

func (g DepositCharge[P]) Instantiate(domainOffset DataSpace, _ threads.WorkerCfg) DepositChargeAcc[P] {
	return DepositChargeAcc[P]{grid: g.grid, tally: g.tally, offset: domainOffset}
}

type DepositChargeAcc[P Element] struct {
	grid   *fields.Grid
	tally  *Tally
	offset DataSpace
}

func (a DepositChargeAcc[P]) Apply(args ...P) {
	for _, p := range args {
		cell := a.offset.Add(CellOf(p.Position()))
		a.grid.Add(cell.X, cell.Y, cell.Z, p.Charge()*p.Weighting())
	}
	a.tally.Add(1)
}

// CountPairs counts the neighbouring particle pairs it is called with.
type CountPairs[P Element] struct {
	tally *Tally
}

func NewCountPairs[P Element](tally *Tally) func(currentStep uint32) CountPairs[P] {
	return func(uint32) CountPairs[P] {
		return CountPairs[P]{tally: tally}
	}
}

func (CountPairs[P]) Name() string {
	return "countPairs"
}

func (CountPairs[P]) NumArgs() uint32 {
	return 2
}

func (g CountPairs[P]) Instantiate(DataSpace, threads.WorkerCfg) CountPairsAcc[P] {
	return CountPairsAcc[P](g)
}

type CountPairsAcc[P Element] struct {
	tally *Tally
}

func (a CountPairsAcc[P]) Apply(...P) {
	a.tally.Add(1)
}
