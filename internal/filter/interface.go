// Package filter defines the predicate side of a filtered functor: the
// host-side definition a filter is built from for one simulation step, the
// per-worker predicate it specializes into, and the operators combining the
// per-argument results.
package filter

import "filtered/internal/mappings/threads"

// Unary is a specialized filter checking exactly one element per call.
// Match must not have side effects.
type Unary[A any] interface {
	Match(arg A) bool
}

// Interface is the host-side form of a unary filter. A value is built once
// per simulation step; Instantiate produces the predicate used by one worker
// on one domain region. F is the type that specialization produces, so the
// worker-side type can differ from the host-side one.
type Interface[O, A any, F Unary[A]] interface {
	Name() string
	Instantiate(domainOffset O, workerCfg threads.WorkerCfg) F
}
