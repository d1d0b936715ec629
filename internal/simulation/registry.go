package simulation

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrPipelineExists   = errors.New("pipeline already registered")
	ErrPipelineNotFound = errors.New("pipeline not found")
)

// PipelineFactory binds a pipeline to the environment of one run.
type PipelineFactory func(env *Environment) Pipeline

var pipelineRegistry = struct {
	mu sync.RWMutex
	m  map[string]PipelineFactory
}{
	m: make(map[string]PipelineFactory),
}

func RegisterPipeline(name string, factory PipelineFactory) error {
	if name == "" {
		return errors.New("pipeline name is required")
	}
	if factory == nil {
		return errors.New("pipeline factory is required")
	}

	pipelineRegistry.mu.Lock()
	defer pipelineRegistry.mu.Unlock()
	if _, exists := pipelineRegistry.m[name]; exists {
		return fmt.Errorf("%w: %s", ErrPipelineExists, name)
	}
	pipelineRegistry.m[name] = factory
	return nil
}

func ResolvePipeline(name string, env *Environment) (Pipeline, error) {
	pipelineRegistry.mu.RLock()
	factory, ok := pipelineRegistry.m[name]
	pipelineRegistry.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPipelineNotFound, name)
	}
	return factory(env), nil
}

func ListPipelines() []string {
	pipelineRegistry.mu.RLock()
	defer pipelineRegistry.mu.RUnlock()
	names := make([]string, 0, len(pipelineRegistry.m))
	for name := range pipelineRegistry.m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func resetRegistryForTests() {
	pipelineRegistry.mu.Lock()
	pipelineRegistry.m = make(map[string]PipelineFactory)
	pipelineRegistry.mu.Unlock()

	initializeDefaultPipelines()
}
