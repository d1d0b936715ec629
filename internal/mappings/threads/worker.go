// Package threads describes how a group of workers cooperates on one domain
// region and how the elements of that region are split between them.
package threads

import (
	"errors"
	"fmt"
)

var ErrInvalidWorkerCfg = errors.New("invalid worker configuration")

// WorkerCfg identifies one worker inside a group of NumWorkers workers that
// share a domain region.
type WorkerCfg struct {
	numWorkers uint32
	workerIdx  uint32
}

func NewWorkerCfg(numWorkers, workerIdx uint32) (WorkerCfg, error) {
	if numWorkers == 0 {
		return WorkerCfg{}, fmt.Errorf("%w: worker count must be > 0", ErrInvalidWorkerCfg)
	}
	if workerIdx >= numWorkers {
		return WorkerCfg{}, fmt.Errorf("%w: worker index %d out of range [0,%d)", ErrInvalidWorkerCfg, workerIdx, numWorkers)
	}
	return WorkerCfg{numWorkers: numWorkers, workerIdx: workerIdx}, nil
}

// MustWorkerCfg is NewWorkerCfg for configurations known to be valid.
func MustWorkerCfg(numWorkers, workerIdx uint32) WorkerCfg {
	cfg, err := NewWorkerCfg(numWorkers, workerIdx)
	if err != nil {
		panic(err)
	}
	return cfg
}

func (c WorkerCfg) NumWorkers() uint32 {
	return c.numWorkers
}

func (c WorkerCfg) WorkerIdx() uint32 {
	return c.workerIdx
}

func (c WorkerCfg) String() string {
	return fmt.Sprintf("worker %d/%d", c.workerIdx, c.numWorkers)
}

// Workers returns the configuration of every member of a group, ordered by
// worker index.
func Workers(numWorkers uint32) ([]WorkerCfg, error) {
	if numWorkers == 0 {
		return nil, fmt.Errorf("%w: worker count must be > 0", ErrInvalidWorkerCfg)
	}
	out := make([]WorkerCfg, 0, numWorkers)
	for idx := uint32(0); idx < numWorkers; idx++ {
		out = append(out, WorkerCfg{numWorkers: numWorkers, workerIdx: idx})
	}
	return out, nil
}
