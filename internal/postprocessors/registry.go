package postprocessors

import (
	"fmt"
	"slices"

	"github.com/custodia-labs/rag-migrate/internal/core/domain"
	"github.com/custodia-labs/rag-migrate/internal/core/ports/driven"
)

// BuilderFunc creates a PostProcessor from settings decoded out of the
// config file or command flags.
type BuilderFunc func(cfg map[string]any) (driven.PostProcessor, error)

// Stage names a registered processor and the settings to build it with.
type Stage struct {
	Name   string
	Config map[string]any
}

// Registry maps processor names to their builders.
type Registry struct {
	builders map[string]BuilderFunc
}

func NewRegistry() *Registry {
	return &Registry{builders: make(map[string]BuilderFunc)}
}

// NewDefaultRegistry returns a registry holding every built-in processor.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}

// Register adds a builder. name should match the processor's Name().
func (r *Registry) Register(name string, builder BuilderFunc) {
	r.builders[name] = builder
}

// Build creates a processor by name. Unknown names wrap domain.ErrInvalidInput.
func (r *Registry) Build(name string, cfg map[string]any) (driven.PostProcessor, error) {
	builder, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown processor %q (available: %v)", domain.ErrInvalidInput, name, r.Names())
	}
	return builder(cfg)
}

// BuildPipeline builds each stage in order and chains them.
func (r *Registry) BuildPipeline(stages ...Stage) (*Pipeline, error) {
	if len(stages) == 0 {
		return nil, fmt.Errorf("%w: pipeline needs at least one stage", domain.ErrInvalidInput)
	}

	p := NewPipeline()
	for _, stage := range stages {
		processor, err := r.Build(stage.Name, stage.Config)
		if err != nil {
			return nil, fmt.Errorf("stage %s: %w", stage.Name, err)
		}
		p.Add(processor)
	}
	return p, nil
}

func (r *Registry) Has(name string) bool {
	_, ok := r.builders[name]
	return ok
}

// Names returns the registered processor names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
