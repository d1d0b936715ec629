package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filtered/internal/model"
)

// storeContract runs the same expectations against every backend.
func storeContract(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("run round trip", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		run := model.RunRecord{
			VersionedRecord:  Versioned(),
			ID:               "run-1",
			CreatedAtUTC:     "2026-01-02T03:04:05Z",
			Seed:             7,
			Steps:            4,
			NumWorkers:       4,
			Supercells:       [3]int{2, 2, 1},
			SupercellSize:    [3]int{4, 4, 4},
			ParticlesPerCell: 2,
			Pipelines:        []string{"electrons/insideRegion_depositCharge"},
		}
		require.NoError(t, store.SaveRun(ctx, run))

		loaded, ok, err := store.GetRun(ctx, "run-1")
		require.NoError(t, err)
		require.True(t, ok)
		if diff := cmp.Diff(run, loaded); diff != "" {
			t.Fatalf("run mismatch (-want +got):\n%s", diff)
		}

		run.Completed = true
		run.FinalCharge = -12.5
		require.NoError(t, store.SaveRun(ctx, run))
		loaded, ok, err = store.GetRun(ctx, "run-1")
		require.NoError(t, err)
		require.True(t, ok)
		assert.True(t, loaded.Completed)
		assert.Equal(t, -12.5, loaded.FinalCharge)

		_, ok, err = store.GetRun(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("list newest first", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		for _, r := range []struct{ id, at string }{
			{"a", "2026-01-01T00:00:00Z"},
			{"c", "2026-01-03T00:00:00Z"},
			{"b", "2026-01-02T00:00:00Z"},
			{"d", "2026-01-03T00:00:00Z"},
		} {
			require.NoError(t, store.SaveRun(ctx, model.RunRecord{VersionedRecord: Versioned(), ID: r.id, CreatedAtUTC: r.at}))
		}

		runs, err := store.ListRuns(ctx, 0)
		require.NoError(t, err)
		ids := make([]string, 0, len(runs))
		for _, r := range runs {
			ids = append(ids, r.ID)
		}
		assert.Equal(t, []string{"d", "c", "b", "a"}, ids)

		runs, err = store.ListRuns(ctx, 2)
		require.NoError(t, err)
		require.Len(t, runs, 2)
		assert.Equal(t, "d", runs[0].ID)
	})

	t.Run("step reports and reset", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		reports := []model.StepReport{
			{Step: 0, Pipeline: "electrons/all_depositCharge", Filtered: "all_depositCharge", Regions: 4, Calls: 128, Applied: 128, Charge: -128},
			{Step: 1, Pipeline: "electrons/all_depositCharge", Filtered: "all_depositCharge", Regions: 4, Calls: 128, Applied: 128, Charge: -128},
		}
		require.NoError(t, store.SaveRun(ctx, model.RunRecord{VersionedRecord: Versioned(), ID: "run-2"}))
		require.NoError(t, store.SaveStepReports(ctx, "run-2", reports))

		loaded, ok, err := store.GetStepReports(ctx, "run-2")
		require.NoError(t, err)
		require.True(t, ok)
		if diff := cmp.Diff(reports, loaded); diff != "" {
			t.Fatalf("reports mismatch (-want +got):\n%s", diff)
		}

		_, ok, err = store.GetStepReports(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, store.Reset(ctx))
		_, ok, err = store.GetRun(ctx, "run-2")
		require.NoError(t, err)
		assert.False(t, ok)
		_, ok, err = store.GetStepReports(ctx, "run-2")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestMemoryStoreContract(t *testing.T) {
	storeContract(t, func(t *testing.T) Store {
		store := NewMemoryStore()
		require.NoError(t, store.Init(context.Background()))
		return store
	})
}

func TestSQLiteStoreContract(t *testing.T) {
	storeContract(t, func(t *testing.T) Store {
		store := NewSQLiteStore(filepath.Join(t.TempDir(), "filtered.db"))
		require.NoError(t, store.Init(context.Background()))
		t.Cleanup(func() {
			_ = store.Close()
		})
		return store
	})
}

func TestStoresRequireInit(t *testing.T) {
	ctx := context.Background()
	run := model.RunRecord{VersionedRecord: Versioned(), ID: "x"}

	assert.Error(t, NewMemoryStore().SaveRun(ctx, run))
	assert.Error(t, NewSQLiteStore(filepath.Join(t.TempDir(), "x.db")).SaveRun(ctx, run))
	assert.Error(t, NewSQLiteStore("").Init(ctx))
}

func TestMemoryStoreCopiesPipelines(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Init(ctx))

	pipelines := []string{"a"}
	require.NoError(t, store.SaveRun(ctx, model.RunRecord{VersionedRecord: Versioned(), ID: "r", Pipelines: pipelines}))
	pipelines[0] = "mutated"

	run, ok, err := store.GetRun(ctx, "r")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"a"}, run.Pipelines)
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "filtered.db")

	first := NewSQLiteStore(path)
	require.NoError(t, first.Init(ctx))
	require.NoError(t, first.SaveRun(ctx, model.RunRecord{VersionedRecord: Versioned(), ID: "kept", Steps: 9}))
	require.NoError(t, first.Close())

	second := NewSQLiteStore(path)
	require.NoError(t, second.Init(ctx))
	t.Cleanup(func() {
		_ = second.Close()
	})
	run, ok, err := second.GetRun(ctx, "kept")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 9, run.Steps)
}
