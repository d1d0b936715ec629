package simulation

import (
	"fmt"

	"filtered/internal/filter"
	"filtered/internal/functor"
	"filtered/internal/particles"
)

const (
	SpeciesElectrons = "electrons"
	SpeciesIons      = "ions"
)

func electronDomain(env *Environment) *particles.Domain[particles.Electron] {
	return env.Electrons
}

func ionDomain(env *Environment) *particles.Domain[particles.Ion] {
	return env.Ions
}

// insideRegionDeposit deposits the charge of particles inside the configured
// region. The same definition is bound to each species.
func insideRegionDeposit[P particles.Element](species string, domainOf func(*Environment) *particles.Domain[P]) PipelineFactory {
	return func(env *Environment) Pipeline {
		tally := &particles.Tally{}
		tmpl := functor.Apply[filter.And, particles.DataSpace, P, particles.InsideRegionAcc[P], particles.DepositChargeAcc[P]](
			particles.NewInsideRegion[P](env.Region, env.Drift),
			particles.NewDepositCharge[P](env.Charge, tally),
		)
		return NewSpeciesPipeline(species, domainOf(env), tmpl, tally, env.Charge)
	}
}

func allDeposit[P particles.Element](species string, domainOf func(*Environment) *particles.Domain[P]) PipelineFactory {
	return func(env *Environment) Pipeline {
		tally := &particles.Tally{}
		tmpl := functor.Apply[filter.And, particles.DataSpace, P, particles.AllAcc[P], particles.DepositChargeAcc[P]](
			particles.NewAll[P],
			particles.NewDepositCharge[P](env.Charge, tally),
		)
		return NewSpeciesPipeline(species, domainOf(env), tmpl, tally, env.Charge)
	}
}

// validPairs counts neighbouring pairs with at least one valid particle.
func validPairs[P particles.Element](species string, domainOf func(*Environment) *particles.Domain[P]) PipelineFactory {
	return func(env *Environment) Pipeline {
		tally := &particles.Tally{}
		tmpl := functor.Apply[filter.Or, particles.DataSpace, P, particles.IsValidAcc[P], particles.CountPairsAcc[P]](
			particles.NewIsValid[P],
			particles.NewCountPairs[P](tally),
		)
		return NewSpeciesPipeline(species, domainOf(env), tmpl, tally, env.Charge)
	}
}

func init() {
	initializeDefaultPipelines()
}

func initializeDefaultPipelines() {
	defaults := []struct {
		name    string
		factory PipelineFactory
	}{
		{PipelineName(SpeciesElectrons, "insideRegion_depositCharge"), insideRegionDeposit(SpeciesElectrons, electronDomain)},
		{PipelineName(SpeciesIons, "insideRegion_depositCharge"), insideRegionDeposit(SpeciesIons, ionDomain)},
		{PipelineName(SpeciesElectrons, "all_depositCharge"), allDeposit(SpeciesElectrons, electronDomain)},
		{PipelineName(SpeciesIons, "all_depositCharge"), allDeposit(SpeciesIons, ionDomain)},
		{PipelineName(SpeciesElectrons, "isValid_countPairs"), validPairs(SpeciesElectrons, electronDomain)},
		{PipelineName(SpeciesIons, "isValid_countPairs"), validPairs(SpeciesIons, ionDomain)},
	}
	for _, d := range defaults {
		if err := RegisterPipeline(d.name, d.factory); err != nil {
			panic(fmt.Errorf("register default pipeline: %w", err))
		}
	}
}
