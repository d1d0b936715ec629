package simulation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"filtered/internal/logging"
	"filtered/internal/model"
	"filtered/internal/storage"
)

const (
	tracerName = "filtered/simulation"
	// fixed width so that stored timestamps sort lexically
	createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

var ErrNotInitialized = errors.New("runner is not initialized")

type Config struct {
	Store  storage.Store
	Logger *zap.Logger
	// Tracer defaults to the global otel tracer provider.
	Tracer trace.Tracer
}

type RunConfig struct {
	RunID       string
	Steps       int
	Environment EnvironmentParams
	NumWorkers  uint32
	Concurrency int
	Pipelines   []string
}

type RunResult struct {
	RunID       string
	Reports     []model.StepReport
	FinalCharge float64
}

// Runner seeds an environment, steps its pipelines and persists the outcome.
type Runner struct {
	store  storage.Store
	logger *zap.Logger
	tracer trace.Tracer

	mu      sync.Mutex
	started bool
}

func NewRunner(cfg Config) *Runner {
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	return &Runner{
		store:  cfg.Store,
		logger: logging.OrNop(cfg.Logger).Named("runner"),
		tracer: tracer,
	}
}

func (r *Runner) Init(ctx context.Context) error {
	if r.store == nil {
		return fmt.Errorf("store is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return nil
	}
	if err := r.store.Init(ctx); err != nil {
		return err
	}
	r.started = true
	return nil
}

func (r *Runner) Reset(ctx context.Context) error {
	if err := r.ensureStarted(); err != nil {
		return err
	}
	return r.store.Reset(ctx)
}

func (r *Runner) Store() storage.Store {
	return r.store
}

func (r *Runner) ensureStarted() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.started {
		return ErrNotInitialized
	}
	return nil
}

func (r *Runner) Run(ctx context.Context, cfg RunConfig) (RunResult, error) {
	if err := r.ensureStarted(); err != nil {
		return RunResult{}, err
	}
	if cfg.Steps <= 0 {
		return RunResult{}, fmt.Errorf("steps must be > 0")
	}
	if len(cfg.Pipelines) == 0 {
		return RunResult{}, fmt.Errorf("at least one pipeline is required")
	}
	if cfg.RunID == "" {
		cfg.RunID = uuid.NewString()
	}
	opts := StepOptions{NumWorkers: cfg.NumWorkers, Concurrency: cfg.Concurrency}

	env, err := NewEnvironment(cfg.Environment)
	if err != nil {
		return RunResult{}, err
	}
	pipelines := make([]Pipeline, 0, len(cfg.Pipelines))
	for _, name := range cfg.Pipelines {
		p, err := ResolvePipeline(name, env)
		if err != nil {
			return RunResult{}, err
		}
		pipelines = append(pipelines, p)
	}

	record := model.RunRecord{
		VersionedRecord:  storage.Versioned(),
		ID:               cfg.RunID,
		CreatedAtUTC:     time.Now().UTC().Format(createdAtLayout),
		Seed:             cfg.Environment.Seed,
		Steps:            cfg.Steps,
		NumWorkers:       cfg.NumWorkers,
		Concurrency:      cfg.Concurrency,
		Supercells:       cfg.Environment.Supercells.Array(),
		SupercellSize:    cfg.Environment.SupercellSize.Array(),
		ParticlesPerCell: cfg.Environment.ParticlesPerCell,
		Pipelines:        append([]string(nil), cfg.Pipelines...),
	}
	// the stored record must survive cancellation of the run itself
	persistCtx := context.WithoutCancel(ctx)
	if err := r.store.SaveRun(persistCtx, record); err != nil {
		return RunResult{}, err
	}

	logger := r.logger.With(zap.String("run_id", cfg.RunID))
	logger.Info("run started",
		zap.Int("steps", cfg.Steps),
		zap.Strings("pipelines", cfg.Pipelines),
		zap.Int("electrons", env.Electrons.NumParticles()),
		zap.Int("ions", env.Ions.NumParticles()),
	)

	reports := make([]model.StepReport, 0, cfg.Steps*len(pipelines))
	for step := 0; step < cfg.Steps; step++ {
		stepReports, err := r.step(ctx, logger, env, pipelines, uint32(step), opts)
		reports = append(reports, stepReports...)
		if err != nil {
			if saveErr := r.store.SaveStepReports(persistCtx, cfg.RunID, reports); saveErr != nil {
				return RunResult{RunID: cfg.RunID, Reports: reports}, errors.Join(err, fmt.Errorf("save partial step reports: %w", saveErr))
			}
			logger.Warn("run stopped", zap.Int("reports", len(reports)), zap.Error(err))
			return RunResult{RunID: cfg.RunID, Reports: reports}, err
		}
	}

	record.FinalCharge = env.Charge.Sum()
	record.Completed = true
	if err := r.store.SaveStepReports(persistCtx, cfg.RunID, reports); err != nil {
		return RunResult{}, err
	}
	if err := r.store.SaveRun(persistCtx, record); err != nil {
		return RunResult{}, err
	}
	logger.Info("run completed", zap.Float64("final_charge", record.FinalCharge))

	return RunResult{
		RunID:       cfg.RunID,
		Reports:     reports,
		FinalCharge: record.FinalCharge,
	}, nil
}

func (r *Runner) step(
	ctx context.Context,
	logger *zap.Logger,
	env *Environment,
	pipelines []Pipeline,
	currentStep uint32,
	opts StepOptions,
) ([]model.StepReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ctx, span := r.tracer.Start(ctx, "simulation.step",
		trace.WithAttributes(attribute.Int64("step", int64(currentStep))))
	defer span.End()

	// charge density is recomputed from scratch every step
	env.Charge.Reset()

	reports := make([]model.StepReport, 0, len(pipelines))
	for _, p := range pipelines {
		report, err := r.runPipeline(ctx, p, currentStep, opts)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return reports, err
		}
		logger.Debug("pipeline step",
			zap.Uint32("step", currentStep),
			zap.String("pipeline", report.Pipeline),
			zap.String("operator", p.Operator()),
			zap.Int64("calls", report.Calls),
			zap.Int64("applied", report.Applied),
			zap.Float64("charge", report.Charge),
		)
		reports = append(reports, report)
	}

	charge := env.Charge.Sum()
	span.SetAttributes(attribute.Float64("charge", charge))
	logger.Info("step complete", zap.Uint32("step", currentStep), zap.Float64("charge", charge))
	return reports, nil
}

func (r *Runner) runPipeline(ctx context.Context, p Pipeline, currentStep uint32, opts StepOptions) (model.StepReport, error) {
	ctx, span := r.tracer.Start(ctx, "simulation.pipeline",
		trace.WithAttributes(
			attribute.String("pipeline", p.Name()),
			attribute.String("operator", p.Operator()),
			attribute.Int64("step", int64(currentStep)),
		))
	defer span.End()

	report, err := p.Step(ctx, currentStep, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return model.StepReport{}, err
	}
	span.SetAttributes(
		attribute.String("filtered", report.Filtered),
		attribute.Int64("calls", report.Calls),
		attribute.Int64("applied", report.Applied),
	)
	return report, nil
}
