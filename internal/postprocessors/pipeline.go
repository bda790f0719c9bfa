// Package postprocessors provides chunk processing implementations.
package postprocessors

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/rag-migrate/internal/core/domain"
	"github.com/custodia-labs/rag-migrate/internal/core/ports/driven"
)

// Pipeline chains multiple PostProcessors and runs them in order.
type Pipeline struct {
	processors []driven.PostProcessor
}

// NewPipeline creates a new processing pipeline with the given processors.
// Processors are executed in the order provided.
func NewPipeline(processors ...driven.PostProcessor) *Pipeline {
	return &Pipeline{
		processors: processors,
	}
}

// Ensure Pipeline can stand in for a single processor.
var _ driven.PostProcessor = (*Pipeline)(nil)

// Name joins the names of the chained processors.
func (p *Pipeline) Name() string {
	names := make([]string, len(p.processors))
	for i, processor := range p.processors {
		names[i] = processor.Name()
	}
	return strings.Join(names, "+")
}

// Process runs the chunks through all processors in order.
// Each processor receives the output of the previous one.
func (p *Pipeline) Process(ctx context.Context, chunks []domain.Chunk) ([]domain.Chunk, error) {
	for _, processor := range p.processors {
		var err error
		chunks, err = processor.Process(ctx, chunks)
		if err != nil {
			return nil, fmt.Errorf("processor %s: %w", processor.Name(), err)
		}
	}

	return chunks, nil
}

// Add appends a processor to the pipeline.
func (p *Pipeline) Add(processor driven.PostProcessor) {
	p.processors = append(p.processors, processor)
}

// Len returns the number of processors in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.processors)
}
