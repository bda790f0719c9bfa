package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/rag-migrate/internal/adapters/driven/reducer/pca"
	"github.com/custodia-labs/rag-migrate/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/rag-migrate/internal/core/domain"
	"github.com/custodia-labs/rag-migrate/internal/core/ports/driving"
)

const (
	reduceInput   = "migrations/vectors_export.json"
	reduceOutput  = "migrations/vectors_export_reduced.json"
	reduceBackup  = "migrations/vectors_export_original.json"
	reduceTarget  = 3
	reduceSamples = 5
	reduceWidth   = 6
)

func reduceRequest() driving.ReduceRequest {
	return driving.ReduceRequest{
		InputPath:       reduceInput,
		ReducedPath:     reduceOutput,
		BackupPath:      reduceBackup,
		TargetDimension: reduceTarget,
		OverwriteSource: true,
	}
}

func seededStore(t *testing.T, export *domain.VectorExport) *memory.ExportStore {
	t.Helper()
	store := memory.NewExportStore()
	require.NoError(t, store.WriteVectors(context.Background(), reduceInput, export))
	return store
}

func TestDimensionReduceService_Reduce(t *testing.T) {
	original := sampleVectorExport(reduceSamples, reduceWidth)
	store := seededStore(t, original)
	svc := NewDimensionReduceService(pca.New(), store, WithRunIDGenerator(fixedRunID))

	report, err := svc.Reduce(context.Background(), reduceRequest())
	require.NoError(t, err)

	assert.Equal(t, "run-1", report.RunID)
	assert.Equal(t, reduceSamples, report.Vectors)
	assert.Equal(t, reduceWidth, report.OriginalDimension)
	assert.Equal(t, reduceTarget, report.TargetDimension)
	assert.Equal(t, "PCA", report.Method)
	assert.Equal(t, reduceTarget, report.Components)
	assert.Greater(t, report.ExplainedVariance, 0.0)
	assert.LessOrEqual(t, report.ExplainedVariance, 1.0+1e-9)
	assert.True(t, report.Overwritten)

	assert.Equal(t, []string{reduceInput, reduceBackup, reduceOutput, reduceInput}, store.Writes())

	backup, err := store.ReadVectors(context.Background(), reduceBackup)
	require.NoError(t, err)
	assert.Equal(t, original, backup)

	reduced, err := store.ReadVectors(context.Background(), reduceOutput)
	require.NoError(t, err)
	require.NoError(t, reduced.Validate())
	assert.Equal(t, reduceTarget, reduced.Dimension)
	assert.Equal(t, reduceSamples, reduced.TotalVectors)
	for i, rec := range reduced.Vectors {
		assert.Equal(t, original.Vectors[i].ID, rec.ID)
		assert.Equal(t, original.Vectors[i].Metadata, rec.Metadata)
		assert.Len(t, rec.Vector, reduceTarget)
	}

	canonical, err := store.ReadVectors(context.Background(), reduceInput)
	require.NoError(t, err)
	assert.Equal(t, reduced, canonical)
}

func TestDimensionReduceService_KeepsSource(t *testing.T) {
	original := sampleVectorExport(reduceSamples, reduceWidth)
	store := seededStore(t, original)
	req := reduceRequest()
	req.OverwriteSource = false

	report, err := NewDimensionReduceService(&mockReducer{}, store).Reduce(context.Background(), req)
	require.NoError(t, err)

	assert.False(t, report.Overwritten)
	assert.Equal(t, []string{reduceInput, reduceBackup, reduceOutput}, store.Writes())
	canonical, err := store.ReadVectors(context.Background(), reduceInput)
	require.NoError(t, err)
	assert.Equal(t, reduceWidth, canonical.Dimension)
}

func TestDimensionReduceService_OverwriteDeclined(t *testing.T) {
	store := seededStore(t, sampleVectorExport(reduceSamples, reduceWidth))
	asked := false
	req := reduceRequest()
	req.Confirm = func() bool {
		asked = true
		return false
	}

	report, err := NewDimensionReduceService(&mockReducer{}, store).Reduce(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, asked)
	assert.False(t, report.Overwritten)
	assert.Equal(t, []string{reduceInput, reduceBackup, reduceOutput}, store.Writes())
}

func TestDimensionReduceService_RejectsNarrowInput(t *testing.T) {
	tests := []struct {
		name  string
		width int
	}{
		{"equal to target", reduceTarget},
		{"below target", reduceTarget - 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := seededStore(t, sampleVectorExport(reduceSamples, tt.width))
			reducer := &mockReducer{}

			_, err := NewDimensionReduceService(reducer, store).Reduce(context.Background(), reduceRequest())

			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Equal(t, 0, reducer.calls)
			assert.Equal(t, []string{reduceInput}, store.Writes())
		})
	}
}

func TestDimensionReduceService_DefaultTarget(t *testing.T) {
	store := seededStore(t, sampleVectorExport(2, 8))
	req := reduceRequest()
	req.TargetDimension = 0

	_, err := NewDimensionReduceService(&mockReducer{}, store).Reduce(context.Background(), req)

	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "1536")
}

func TestDimensionReduceService_FewerSamplesThanTarget(t *testing.T) {
	store := seededStore(t, sampleVectorExport(2, reduceWidth))
	req := reduceRequest()
	req.TargetDimension = 4

	report, err := NewDimensionReduceService(pca.New(), store).Reduce(context.Background(), req)
	require.NoError(t, err)

	assert.Less(t, report.Components, 4)
	reduced, err := store.ReadVectors(context.Background(), reduceOutput)
	require.NoError(t, err)
	for _, rec := range reduced.Vectors {
		require.Len(t, rec.Vector, 4)
		assert.Zero(t, rec.Vector[3])
	}
}

func TestDimensionReduceService_MissingReducer(t *testing.T) {
	store := memory.NewExportStore()

	_, err := NewDimensionReduceService(nil, store).Reduce(context.Background(), reduceRequest())

	assert.ErrorIs(t, err, domain.ErrMissingDependency)
	assert.NotErrorIs(t, err, domain.ErrMissingArtifact)
}

func TestDimensionReduceService_MissingInput(t *testing.T) {
	store := memory.NewExportStore()

	_, err := NewDimensionReduceService(&mockReducer{}, store).Reduce(context.Background(), reduceRequest())

	assert.ErrorIs(t, err, domain.ErrMissingArtifact)
	assert.Empty(t, store.Writes())
}

func TestDimensionReduceService_InconsistentInput(t *testing.T) {
	export := sampleVectorExport(reduceSamples, reduceWidth)
	export.Vectors[2].Vector = export.Vectors[2].Vector[:2]
	store := seededStore(t, export)

	_, err := NewDimensionReduceService(&mockReducer{}, store).Reduce(context.Background(), reduceRequest())

	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestDimensionReduceService_BackupFailureStopsRun(t *testing.T) {
	store := seededStore(t, sampleVectorExport(reduceSamples, reduceWidth))
	boom := errors.New("read-only filesystem")
	store.FailWrite(reduceBackup, boom)

	_, err := NewDimensionReduceService(&mockReducer{}, store).Reduce(context.Background(), reduceRequest())

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{reduceInput}, store.Writes())
}

func TestDimensionReduceService_ReducerError(t *testing.T) {
	store := seededStore(t, sampleVectorExport(reduceSamples, reduceWidth))
	boom := errors.New("did not converge")

	_, err := NewDimensionReduceService(&mockReducer{err: boom}, store).Reduce(context.Background(), reduceRequest())

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{reduceInput}, store.Writes())
}
