package storage

import (
	"context"
	"errors"
	"sort"
	"sync"

	"filtered/internal/model"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	seq         int
	runs        map[string]memoryRun
	reports     map[string][]model.StepReport
}

type memoryRun struct {
	seq    int
	record model.RunRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	s.initialized = true
	s.runs = make(map[string]memoryRun)
	s.reports = make(map[string][]model.StepReport)
	return nil
}

func (s *MemoryStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errors.New("store is not initialized")
	}
	s.runs = make(map[string]memoryRun)
	s.reports = make(map[string][]model.StepReport)
	return nil
}

func (s *MemoryStore) SaveRun(_ context.Context, run model.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errors.New("store is not initialized")
	}
	seq := s.seq
	if existing, ok := s.runs[run.ID]; ok {
		seq = existing.seq
	} else {
		s.seq++
	}
	run.Pipelines = append([]string(nil), run.Pipelines...)
	s.runs[run.ID] = memoryRun{seq: seq, record: run}
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id string) (model.RunRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	if !ok {
		return model.RunRecord{}, false, nil
	}
	out := run.record
	out.Pipelines = append([]string(nil), out.Pipelines...)
	return out, true, nil
}

func (s *MemoryStore) ListRuns(_ context.Context, limit int) ([]model.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]memoryRun, 0, len(s.runs))
	for _, run := range s.runs {
		runs = append(runs, run)
	}
	sort.Slice(runs, func(i, j int) bool {
		if runs[i].record.CreatedAtUTC != runs[j].record.CreatedAtUTC {
			return runs[i].record.CreatedAtUTC > runs[j].record.CreatedAtUTC
		}
		return runs[i].seq > runs[j].seq
	})
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	out := make([]model.RunRecord, 0, len(runs))
	for _, run := range runs {
		record := run.record
		record.Pipelines = append([]string(nil), record.Pipelines...)
		out = append(out, record)
	}
	return out, nil
}

func (s *MemoryStore) SaveStepReports(_ context.Context, runID string, reports []model.StepReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errors.New("store is not initialized")
	}
	copied := make([]model.StepReport, len(reports))
	copy(copied, reports)
	s.reports[runID] = copied
	return nil
}

func (s *MemoryStore) GetStepReports(_ context.Context, runID string) ([]model.StepReport, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reports, ok := s.reports[runID]
	if !ok {
		return nil, false, nil
	}
	copied := make([]model.StepReport, len(reports))
	copy(copied, reports)
	return copied, true, nil
}
