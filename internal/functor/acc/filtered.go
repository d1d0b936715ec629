// Package acc holds the worker-side half of a filtered functor: the value a
// single worker uses while walking the elements of one domain region.
package acc

import "filtered/internal/filter"

// inlineResults is the number of per-argument filter results collected
// without growing the result buffer.
const inlineResults = 16

// Predicate is any filter that can be asked about a single argument. A may be
// an interface (or any) when a call mixes element kinds.
type Predicate[A any] interface {
	Match(arg A) bool
}

// Action is any functor accepting the full argument list of a call.
type Action[A any] interface {
	Apply(args ...A)
}

// Filtered combines a filter and a functor. Each call evaluates the filter
// once per argument, reduces the results with C and runs the functor with all
// arguments if the reduced result is true.
type Filtered[C filter.Operator, A any, F Predicate[A], G Action[A]] struct {
	filter  F
	functor G
	name    string
}

func New[C filter.Operator, A any, F Predicate[A], G Action[A]](f F, g G) Filtered[C, A, F, G] {
	return Filtered[C, A, F, G]{filter: f, functor: g}
}

// Call runs the functor with args if the filter results of all args, combined
// by C, evaluate to true. Every filter result is computed before combining.
// Calls with up to inlineResults arguments do not allocate.
func (f Filtered[C, A, F, G]) Call(args ...A) {
	var buf [inlineResults]bool
	var results []bool
	if len(args) <= inlineResults {
		results = buf[:len(args)]
	} else {
		results = make([]bool, len(args))
	}
	for i, arg := range args {
		results[i] = f.filter.Match(arg)
	}

	var op C
	pass := op.Identity()
	for _, r := range results {
		pass = op.Combine(pass, r)
	}
	if pass {
		f.functor.Apply(args...)
	}
}

func (f Filtered[C, A, F, G]) Filter() F {
	return f.filter
}

func (f Filtered[C, A, F, G]) Functor() G {
	return f.functor
}

// Name is the diagnostic name given by the factory that built f, empty for
// values built with New.
func (f Filtered[C, A, F, G]) Name() string {
	return f.name
}

// WithName returns a copy of f carrying name.
func (f Filtered[C, A, F, G]) WithName(name string) Filtered[C, A, F, G] {
	f.name = name
	return f
}
