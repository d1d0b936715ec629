package threads

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorkerCfgValidation(t *testing.T) {
	_, err := NewWorkerCfg(0, 0)
	require.True(t, errors.Is(err, ErrInvalidWorkerCfg))

	_, err = NewWorkerCfg(4, 4)
	require.ErrorIs(t, err, ErrInvalidWorkerCfg)

	cfg, err := NewWorkerCfg(4, 2)
	require.NoError(t, err)
	assert.Equal(t, uint32(4), cfg.NumWorkers())
	assert.Equal(t, uint32(2), cfg.WorkerIdx())
	assert.Equal(t, "worker 2/4", cfg.String())
}

func TestMustWorkerCfgPanicsOnInvalid(t *testing.T) {
	assert.Panics(t, func() { MustWorkerCfg(2, 5) })
	assert.NotPanics(t, func() { MustWorkerCfg(2, 1) })
}

func TestWorkersEnumeratesGroup(t *testing.T) {
	cfgs, err := Workers(3)
	require.NoError(t, err)
	require.Len(t, cfgs, 3)
	for i, cfg := range cfgs {
		assert.Equal(t, uint32(3), cfg.NumWorkers())
		assert.Equal(t, uint32(i), cfg.WorkerIdx())
	}

	_, err = Workers(0)
	require.ErrorIs(t, err, ErrInvalidWorkerCfg)
}

func TestForEachIdxCoversDomainExactlyOnce(t *testing.T) {
	tests := []struct {
		name       string
		numWorkers uint32
		domainSize int
	}{
		{name: "even split", numWorkers: 4, domainSize: 16},
		{name: "ragged tail", numWorkers: 4, domainSize: 10},
		{name: "more workers than elements", numWorkers: 8, domainSize: 3},
		{name: "single worker", numWorkers: 1, domainSize: 7},
		{name: "empty domain", numWorkers: 3, domainSize: 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			seen := make([]int, tc.domainSize)
			cfgs, err := Workers(tc.numWorkers)
			require.NoError(t, err)
			for _, cfg := range cfgs {
				visited := 0
				ForEachIdx(cfg, tc.domainSize, func(idx int) {
					assert.Equal(t, int(cfg.WorkerIdx()), idx%int(tc.numWorkers))
					seen[idx]++
					visited++
				})
				assert.Equal(t, Count(cfg, tc.domainSize), visited)
			}
			for idx, n := range seen {
				assert.Equalf(t, 1, n, "index %d visited %d times", idx, n)
			}
		})
	}
}

func TestForEachIdxZeroConfigIsNoop(t *testing.T) {
	called := false
	ForEachIdx(WorkerCfg{}, 5, func(int) { called = true })
	assert.False(t, called)
	assert.Zero(t, Count(WorkerCfg{}, 5))
}
