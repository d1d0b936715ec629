package functor

import "filtered/internal/filter"

// Template is a filter/functor pair bound to one element type but not yet to
// a simulation step. It is the result of Apply.
type Template[C filter.Operator, O, A any, F filter.Unary[A], G Callable[A], FP filter.Interface[O, A, F], GP Interface[O, A, G]] struct {
	newFilter  func(currentStep uint32) FP
	newFunctor func(currentStep uint32) GP
}

// Apply binds filter and functor definitions to the element type A.
//
// Definitions written once as generic types are retargeted by passing their
// constructors instantiated for another element type, e.g.
//
//	functor.Apply[filter.And, particles.DataSpace, particles.Ion,
//		particles.InsideRegionAcc[particles.Ion], particles.DepositChargeAcc[particles.Ion]](
//		particles.NewInsideRegion[particles.Ion](box, drift),
//		particles.NewDepositCharge[particles.Ion](grid, tally),
//	)
//
// The binding is resolved at compile time; Apply only stores the constructors.
func Apply[C filter.Operator, O, A any, F filter.Unary[A], G Callable[A], FP filter.Interface[O, A, F], GP Interface[O, A, G]](
	newFilter func(currentStep uint32) FP,
	newFunctor func(currentStep uint32) GP,
) Template[C, O, A, F, G, FP, GP] {
	return Template[C, O, A, F, G, FP, GP]{newFilter: newFilter, newFunctor: newFunctor}
}

// New builds the step-scoped Filtered for currentStep.
func (t Template[C, O, A, F, G, FP, GP]) New(currentStep uint32) Filtered[C, O, A, F, G, FP, GP] {
	return New[C, O, A, F, G](currentStep, t.newFilter, t.newFunctor)
}

// Name reports the name the pair has at currentStep.
func (t Template[C, O, A, F, G, FP, GP]) Name(currentStep uint32) string {
	return t.New(currentStep).Name()
}
