package functor

import (
	"filtered/internal/filter"
	"filtered/internal/functor/acc"
	"filtered/internal/mappings/threads"
)

// NameSeparator joins the filter and functor names of a Filtered.
const NameSeparator = "_"

// Filtered combines a unary filter and a functor for one simulation step.
//
// C combines the per-argument filter results, O is the domain offset type and
// A the element type. FP and GP are the host-side filter and functor; F and G
// are the types their Instantiate methods return for a worker.
type Filtered[
	C filter.Operator,
	O, A any,
	F filter.Unary[A],
	G Callable[A],
	FP filter.Interface[O, A, F],
	GP Interface[O, A, G],
] struct {
	filter  FP
	functor GP
}

// New builds the filter and the functor for currentStep.
func New[C filter.Operator, O, A any, F filter.Unary[A], G Callable[A], FP filter.Interface[O, A, F], GP Interface[O, A, G]](
	currentStep uint32,
	newFilter func(currentStep uint32) FP,
	newFunctor func(currentStep uint32) GP,
) Filtered[C, O, A, F, G, FP, GP] {
	return Filtered[C, O, A, F, G, FP, GP]{
		filter:  newFilter(currentStep),
		functor: newFunctor(currentStep),
	}
}

// Instantiate creates the worker-side filtered functor.
//
// domainOffset is the origin of the local domain (a supercell or cell offset,
// depending on where the functor is used) and workerCfg the worker that will
// call the result. Both are passed unchanged to the filter and the functor.
func (f Filtered[C, O, A, F, G, FP, GP]) Instantiate(domainOffset O, workerCfg threads.WorkerCfg) acc.Filtered[C, A, F, G] {
	return acc.New[C, A](
		f.filter.Instantiate(domainOffset, workerCfg),
		f.functor.Instantiate(domainOffset, workerCfg),
	).WithName(f.Name())
}

// Name returns the filter and functor names separated by an underscore.
func (f Filtered[C, O, A, F, G, FP, GP]) Name() string {
	return f.filter.Name() + NameSeparator + f.functor.Name()
}

func (f Filtered[C, O, A, F, G, FP, GP]) NumArgs() uint32 {
	return f.functor.NumArgs()
}

func (f Filtered[C, O, A, F, G, FP, GP]) Filter() FP {
	return f.filter
}

func (f Filtered[C, O, A, F, G, FP, GP]) Functor() GP {
	return f.functor
}
