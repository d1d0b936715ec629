package simulation

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"filtered/internal/fields"
	"filtered/internal/filter"
	"filtered/internal/functor"
	"filtered/internal/mappings/threads"
	"filtered/internal/model"
	"filtered/internal/particles"
)

// Pipeline runs one filtered functor over the particles of one species.
type Pipeline interface {
	Name() string
	// Operator names the combinator gating the pipeline's functor.
	Operator() string
	Step(ctx context.Context, currentStep uint32, opts StepOptions) (model.StepReport, error)
}

type StepOptions struct {
	// NumWorkers is the size of the worker group sharing one supercell.
	NumWorkers uint32
	// Concurrency bounds the number of workers running at once.
	Concurrency int
}

// SpeciesPipeline drives a functor.Template over a particle domain. For every
// step it builds the step's Filtered, then every worker of every supercell
// instantiates its own evaluator and calls it for the particles it owns.
type SpeciesPipeline[
	C filter.Operator,
	P particles.Element,
	F filter.Unary[P],
	G functor.Callable[P],
	FP filter.Interface[particles.DataSpace, P, F],
	GP functor.Interface[particles.DataSpace, P, G],
] struct {
	species  string
	name     string
	domain   *particles.Domain[P]
	template functor.Template[C, particles.DataSpace, P, F, G, FP, GP]
	tally    *particles.Tally
	charge   *fields.Grid
}

func NewSpeciesPipeline[
	C filter.Operator,
	P particles.Element,
	F filter.Unary[P],
	G functor.Callable[P],
	FP filter.Interface[particles.DataSpace, P, F],
	GP functor.Interface[particles.DataSpace, P, G],
](
	species string,
	domain *particles.Domain[P],
	template functor.Template[C, particles.DataSpace, P, F, G, FP, GP],
	tally *particles.Tally,
	charge *fields.Grid,
) *SpeciesPipeline[C, P, F, G, FP, GP] {
	return &SpeciesPipeline[C, P, F, G, FP, GP]{
		species:  species,
		name:     PipelineName(species, template.Name(0)),
		domain:   domain,
		template: template,
		tally:    tally,
		charge:   charge,
	}
}

func (p *SpeciesPipeline[C, P, F, G, FP, GP]) Name() string {
	return p.name
}

func (p *SpeciesPipeline[C, P, F, G, FP, GP]) Operator() string {
	return filter.OperatorName[C]()
}

func (p *SpeciesPipeline[C, P, F, G, FP, GP]) Step(ctx context.Context, currentStep uint32, opts StepOptions) (model.StepReport, error) {
	workers, err := threads.Workers(opts.NumWorkers)
	if err != nil {
		return model.StepReport{}, err
	}
	if opts.Concurrency <= 0 {
		return model.StepReport{}, fmt.Errorf("concurrency must be > 0")
	}

	factory := p.template.New(currentStep)
	arity := int(factory.NumArgs())
	if arity == 0 {
		return model.StepReport{}, fmt.Errorf("%s: functor arity must be > 0", factory.Name())
	}

	appliedBefore := p.tally.Load()
	chargeBefore := p.charge.Sum()

	var calls atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	supercells := p.domain.Supercells()
	for i := range supercells {
		sc := &supercells[i]
		for _, cfg := range workers {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				ev := factory.Instantiate(sc.Offset, cfg)
				// one call per window of arity consecutive particles
				windows := len(sc.Particles) - arity + 1
				threads.ForEachIdx(cfg, windows, func(idx int) {
					ev.Call(sc.Particles[idx : idx+arity]...)
				})
				calls.Add(int64(threads.Count(cfg, windows)))
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return model.StepReport{}, fmt.Errorf("%s step %d: %w", p.Name(), currentStep, err)
	}

	return model.StepReport{
		Step:     currentStep,
		Pipeline: p.Name(),
		Filtered: factory.Name(),
		Regions:  len(supercells),
		Calls:    calls.Load(),
		Applied:  p.tally.Load() - appliedBefore,
		Charge:   p.charge.Sum() - chargeBefore,
	}, nil
}

// PipelineName joins a species and a filtered functor name.
func PipelineName(species, filtered string) string {
	return species + "/" + filtered
}
