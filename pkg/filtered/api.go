// Package filtered is the programmatic entry point for running filtered
// functor simulations and reading back their results.
package filtered

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"filtered/internal/config"
	"filtered/internal/logging"
	"filtered/internal/model"
	"filtered/internal/simulation"
	"filtered/internal/storage"
)

const defaultDBPath = "filtered.db"

var ErrRunNotFound = errors.New("run not found")

type Options struct {
	StoreKind string
	DBPath    string
	Logger    *zap.Logger
	Tracer    trace.Tracer
}

type Client struct {
	store  storage.Store
	logger *zap.Logger
	tracer trace.Tracer

	mu     sync.Mutex
	runner *simulation.Runner
}

type RunSummary struct {
	RunID       string
	Steps       int
	Reports     []model.StepReport
	FinalCharge float64
}

type RunItem struct {
	RunID        string
	CreatedAtUTC string
	Seed         int64
	Steps        int
	Workers      uint32
	Pipelines    []string
	FinalCharge  float64
	Completed    bool
}

type ReportsRequest struct {
	RunID  string
	Latest bool
	// Pipeline keeps only the reports of one pipeline when set.
	Pipeline string
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}
	return &Client{
		store:  store,
		logger: logging.OrNop(opts.Logger),
		tracer: opts.Tracer,
	}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	_, err := c.ensureRunner(ctx)
	return err
}

func (c *Client) Reset(ctx context.Context) error {
	r, err := c.ensureRunner(ctx)
	if err != nil {
		return err
	}
	return r.Reset(ctx)
}

// Run validates cfg and runs it to completion.
func (c *Client) Run(ctx context.Context, cfg config.Config) (RunSummary, error) {
	if err := cfg.Validate(); err != nil {
		return RunSummary{}, err
	}
	r, err := c.ensureRunner(ctx)
	if err != nil {
		return RunSummary{}, err
	}

	res, err := r.Run(ctx, RunConfigFrom(cfg))
	if err != nil {
		return RunSummary{}, err
	}
	return RunSummary{
		RunID:       res.RunID,
		Steps:       cfg.Steps,
		Reports:     res.Reports,
		FinalCharge: res.FinalCharge,
	}, nil
}

// Runs lists stored runs newest first. A limit <= 0 lists all of them.
func (c *Client) Runs(ctx context.Context, limit int) ([]RunItem, error) {
	if _, err := c.ensureRunner(ctx); err != nil {
		return nil, err
	}
	runs, err := c.store.ListRuns(ctx, limit)
	if err != nil {
		return nil, err
	}
	items := make([]RunItem, 0, len(runs))
	for _, run := range runs {
		items = append(items, runItem(run))
	}
	return items, nil
}

func runItem(run model.RunRecord) RunItem {
	return RunItem{
		RunID:        run.ID,
		CreatedAtUTC: run.CreatedAtUTC,
		Seed:         run.Seed,
		Steps:        run.Steps,
		Workers:      run.NumWorkers,
		Pipelines:    run.Pipelines,
		FinalCharge:  run.FinalCharge,
		Completed:    run.Completed,
	}
}

func (c *Client) Reports(ctx context.Context, req ReportsRequest) ([]model.StepReport, error) {
	runID, err := c.resolveRunID(ctx, req.RunID, req.Latest)
	if err != nil {
		return nil, err
	}
	reports, ok, err := c.store.GetStepReports(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if req.Pipeline == "" {
		return reports, nil
	}
	filtered := make([]model.StepReport, 0, len(reports))
	for _, report := range reports {
		if report.Pipeline == req.Pipeline {
			filtered = append(filtered, report)
		}
	}
	return filtered, nil
}

// Describe returns the stored record of one run, or of the newest run when
// latest is set.
func (c *Client) Describe(ctx context.Context, runID string, latest bool) (RunItem, error) {
	runID, err := c.resolveRunID(ctx, runID, latest)
	if err != nil {
		return RunItem{}, err
	}
	run, ok, err := c.store.GetRun(ctx, runID)
	if err != nil {
		return RunItem{}, err
	}
	if !ok {
		return RunItem{}, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return runItem(run), nil
}

// Pipelines lists the registered pipeline names.
func (c *Client) Pipelines() []string {
	return simulation.ListPipelines()
}

func (c *Client) resolveRunID(ctx context.Context, runID string, latest bool) (string, error) {
	if _, err := c.ensureRunner(ctx); err != nil {
		return "", err
	}
	if runID != "" {
		return runID, nil
	}
	if !latest {
		return "", errors.New("run id is required unless latest is set")
	}
	runs, err := c.store.ListRuns(ctx, 1)
	if err != nil {
		return "", err
	}
	if len(runs) == 0 {
		return "", fmt.Errorf("%w: no runs stored", ErrRunNotFound)
	}
	return runs[0].ID, nil
}

func (c *Client) ensureRunner(ctx context.Context) (*simulation.Runner, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.runner != nil {
		return c.runner, nil
	}
	r := simulation.NewRunner(simulation.Config{
		Store:  c.store,
		Logger: c.logger,
		Tracer: c.tracer,
	})
	if err := r.Init(ctx); err != nil {
		return nil, err
	}
	c.runner = r
	return r, nil
}

// RunConfigFrom maps a loaded configuration onto the runner's input.
func RunConfigFrom(cfg config.Config) simulation.RunConfig {
	return simulation.RunConfig{
		RunID: cfg.RunID,
		Steps: cfg.Steps,
		Environment: simulation.EnvironmentParams{
			Seed:             cfg.Seed,
			Supercells:       cfg.Supercells,
			SupercellSize:    cfg.SupercellSize,
			ParticlesPerCell: cfg.ParticlesPerCell,
			DeadRatio:        cfg.DeadRatio,
			Region:           cfg.Region,
			Drift:            cfg.Drift,
		},
		NumWorkers:  cfg.Workers,
		Concurrency: cfg.Concurrency,
		Pipelines:   append([]string(nil), cfg.Pipelines...),
	}
}
