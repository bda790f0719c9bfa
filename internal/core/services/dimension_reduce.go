package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/rag-migrate/internal/core/domain"
	"github.com/custodia-labs/rag-migrate/internal/core/ports/driven"
	"github.com/custodia-labs/rag-migrate/internal/core/ports/driving"
	"github.com/custodia-labs/rag-migrate/internal/logger"
)

// Ensure DimensionReduceService implements the interface.
var _ driving.DimensionReducer = (*DimensionReduceService)(nil)

// DimensionReduceService shrinks every vector of an export to a fixed width.
type DimensionReduceService struct {
	reducer driven.Reducer
	store   driven.ExportStore
	opts    options
}

// NewDimensionReduceService creates a new dimension reduction service.
func NewDimensionReduceService(reducer driven.Reducer, store driven.ExportStore, opts ...Option) *DimensionReduceService {
	return &DimensionReduceService{
		reducer: reducer,
		store:   store,
		opts:    newOptions(opts),
	}
}

// Reduce fits the reducer on all vectors of req.InputPath and writes, in order,
// the untouched backup, the reduced collection and, unless disabled or
// declined, the reduced collection over the input.
//
//nolint:gocyclo // sequential steps with early returns
func (s *DimensionReduceService) Reduce(ctx context.Context, req driving.ReduceRequest) (*driving.ReduceReport, error) {
	if s.reducer == nil {
		return nil, fmt.Errorf("%w: no dimensionality reducer available", domain.ErrMissingDependency)
	}
	if s.store == nil {
		return nil, fmt.Errorf("%w: no export store available", domain.ErrMissingDependency)
	}

	target := req.TargetDimension
	if target == 0 {
		target = driving.DefaultTargetDimension
	}
	if target < 0 {
		return nil, fmt.Errorf("%w: target dimension must be positive, got %d", domain.ErrInvalidInput, target)
	}

	runID := s.opts.newRunID()
	logger.Section("Reduce dimensions")
	logger.Debug("run %s: input=%s reduced=%s backup=%s", runID, req.InputPath, req.ReducedPath, req.BackupPath)

	original, err := s.store.ReadVectors(ctx, req.InputPath)
	if err != nil {
		return nil, fmt.Errorf("read vectors: %w", err)
	}
	if err := original.Validate(); err != nil {
		return nil, fmt.Errorf("read vectors: %w", err)
	}
	if original.Dimension <= target {
		return nil, fmt.Errorf("%w: vectors are %d wide, which is not above the target of %d",
			domain.ErrInvalidInput, original.Dimension, target)
	}
	logger.Info("Original dimension %d, target %d, %d vectors", original.Dimension, target, original.TotalVectors)

	rows := make([][]float64, len(original.Vectors))
	for i := range original.Vectors {
		rows[i] = original.Vectors[i].Vector
	}

	projection, err := s.reducer.FitTransform(rows, target)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.reducer.Name(), err)
	}
	if len(projection.Rows) != len(rows) {
		return nil, fmt.Errorf("%s returned %d rows for %d vectors", s.reducer.Name(), len(projection.Rows), len(rows))
	}
	if projection.Components < target {
		logger.Warn("only %d components could be fitted from %d vectors; the remaining %d coordinates are zero",
			projection.Components, len(rows), target-projection.Components)
	}
	logger.Info("Explained variance: %.2f%%", projection.ExplainedVariance*100)

	backup := original.Clone()
	reduced := original.Clone()
	reduced.Dimension = target
	for i := range reduced.Vectors {
		reduced.Vectors[i].Vector = projection.Rows[i]
	}
	if err := reduced.Validate(); err != nil {
		return nil, fmt.Errorf("%s output: %w", s.reducer.Name(), err)
	}

	if err := s.store.WriteVectors(ctx, req.BackupPath, backup); err != nil {
		return nil, fmt.Errorf("write backup: %w", err)
	}
	logger.Info("Backup of original vectors saved to %s", req.BackupPath)

	if err := s.store.WriteVectors(ctx, req.ReducedPath, reduced); err != nil {
		return nil, fmt.Errorf("write reduced vectors: %w", err)
	}
	logger.Info("Reduced vectors saved to %s", req.ReducedPath)

	overwritten := false
	switch {
	case !req.OverwriteSource:
		logger.Debug("leaving %s untouched", req.InputPath)
	case req.Confirm != nil && !req.Confirm():
		logger.Info("Overwrite of %s declined", req.InputPath)
	default:
		if err := s.store.WriteVectors(ctx, req.InputPath, reduced); err != nil {
			return nil, fmt.Errorf("overwrite %s: %w", req.InputPath, err)
		}
		overwritten = true
		logger.Info("Replaced %s with reduced vectors", req.InputPath)
	}

	return &driving.ReduceReport{
		RunID:             runID,
		Vectors:           reduced.TotalVectors,
		OriginalDimension: original.Dimension,
		TargetDimension:   target,
		Method:            s.reducer.Name(),
		ExplainedVariance: projection.ExplainedVariance,
		Components:        projection.Components,
		BackupPath:        req.BackupPath,
		ReducedPath:       req.ReducedPath,
		Overwritten:       overwritten,
	}, nil
}
