package services

import (
	"github.com/google/uuid"

	"github.com/custodia-labs/rag-migrate/internal/core/ports/driven"
	"github.com/custodia-labs/rag-migrate/internal/core/ports/driving"
	"github.com/custodia-labs/rag-migrate/internal/logger"
)

// DefaultBatchSize is the number of chunks sent per embedding request.
const DefaultBatchSize = 32

// Option configures a migration job service.
type Option func(*options)

type options struct {
	progress      driving.ProgressFunc
	embedder      driven.EmbeddingService
	batchSize     int
	documentSinks []driven.DocumentSink
	vectorSinks   []driven.VectorSink
	newRunID      func() string
}

func newOptions(opts []Option) options {
	o := options{
		batchSize: DefaultBatchSize,
		newRunID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithProgress registers a callback that is invoked every
// driving.ProgressInterval records and once more at the end.
func WithProgress(fn driving.ProgressFunc) Option {
	return func(o *options) {
		o.progress = fn
	}
}

// WithEmbedder attaches the embedding client the vectors were built with.
// The vector exporter reports its model and warns when its width differs
// from the index.
func WithEmbedder(e driven.EmbeddingService) Option {
	return func(o *options) {
		o.embedder = e
	}
}

// WithBatchSize sets how many chunks are embedded per request.
// Values below 1 keep the default.
func WithBatchSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.batchSize = n
		}
	}
}

// WithDocumentSinks adds databases that imported documents are applied to.
func WithDocumentSinks(sinks ...driven.DocumentSink) Option {
	return func(o *options) {
		o.documentSinks = append(o.documentSinks, sinks...)
	}
}

// WithVectorSinks adds vector databases that imported vectors are upserted into.
func WithVectorSinks(sinks ...driven.VectorSink) Option {
	return func(o *options) {
		o.vectorSinks = append(o.vectorSinks, sinks...)
	}
}

// WithRunIDGenerator replaces the run ID source. Used by tests.
func WithRunIDGenerator(fn func() string) Option {
	return func(o *options) {
		if fn != nil {
			o.newRunID = fn
		}
	}
}

// reportProgress notifies the callback and the verbose log at every
// interval boundary and at completion.
func (o options) reportProgress(job string, done, total int) {
	if done != total && done%driving.ProgressInterval != 0 {
		return
	}
	logger.Progress(job, done, total)
	if o.progress != nil {
		o.progress(done, total)
	}
}
