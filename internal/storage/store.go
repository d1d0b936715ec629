package storage

import (
	"context"

	"filtered/internal/model"
)

// Store defines persistence operations for simulation runs and their step
// reports.
type Store interface {
	Init(ctx context.Context) error
	Reset(ctx context.Context) error
	SaveRun(ctx context.Context, run model.RunRecord) error
	GetRun(ctx context.Context, id string) (model.RunRecord, bool, error)
	// ListRuns returns runs newest first.
	ListRuns(ctx context.Context, limit int) ([]model.RunRecord, error)
	SaveStepReports(ctx context.Context, runID string, reports []model.StepReport) error
	GetStepReports(ctx context.Context, runID string) ([]model.StepReport, bool, error)
}
