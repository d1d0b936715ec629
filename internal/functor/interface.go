// Package functor pairs a filter with a functor. The host-side Filtered is
// built once per simulation step and instantiates the worker-side
// acc.Filtered for every (domain offset, worker) combination.
package functor

import "filtered/internal/mappings/threads"

// Callable is a specialized functor. It receives the full argument list of a
// gated call; its purpose is the side effect.
type Callable[A any] interface {
	Apply(args ...A)
}

// Interface is the host-side form of a functor with a fixed number of call
// arguments. NumArgs tells the element loop how many elements to pass per
// call (an element plus its neighbourhood, for instance).
type Interface[O, A any, G Callable[A]] interface {
	Name() string
	NumArgs() uint32
	Instantiate(domainOffset O, workerCfg threads.WorkerCfg) G
}
