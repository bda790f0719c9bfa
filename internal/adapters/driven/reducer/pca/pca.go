// Package pca implements dimensionality reduction by principal component analysis.
package pca

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/custodia-labs/rag-migrate/internal/core/domain"
	"github.com/custodia-labs/rag-migrate/internal/core/ports/driven"
)

// Ensure Reducer implements the interface.
var _ driven.Reducer = (*Reducer)(nil)

// Reducer projects rows onto their leading principal components.
// Rows are centred on the column means before projection.
type Reducer struct{}

// New creates a PCA reducer.
func New() *Reducer {
	return &Reducer{}
}

// Name returns the reduction method name.
func (r *Reducer) Name() string {
	return "PCA"
}

// FitTransform fits k components on rows and projects every row onto them.
// When fewer than k components exist (fewer samples than k), the trailing
// coordinates of every projected row are zero.
func (r *Reducer) FitTransform(rows [][]float64, k int) (*driven.Projection, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows to reduce", domain.ErrInvalidInput)
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: component count must be > 0, got %d", domain.ErrInvalidInput, k)
	}

	n, d := len(rows), len(rows[0])
	if d == 0 {
		return nil, fmt.Errorf("%w: rows are empty", domain.ErrInvalidInput)
	}

	data := make([]float64, 0, n*d)
	for i, row := range rows {
		if len(row) != d {
			return nil, fmt.Errorf("%w: row %d has %d values, expected %d",
				domain.ErrDimensionMismatch, i, len(row), d)
		}
		data = append(data, row...)
	}
	x := mat.NewDense(n, d, data)

	centred := centre(x)

	out := &driven.Projection{Rows: make([][]float64, n)}
	for i := range out.Rows {
		out.Rows[i] = make([]float64, k)
	}

	// A single sample has no variance; its centred projection is all zeros.
	if n < 2 {
		return out, nil
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(x, nil); !ok {
		return nil, fmt.Errorf("principal component analysis did not converge")
	}

	var vecs mat.Dense
	pc.VectorsTo(&vecs)
	vars := pc.VarsTo(nil)

	_, available := vecs.Dims()
	kept := min(k, available)

	var projected mat.Dense
	projected.Mul(centred, vecs.Slice(0, d, 0, kept))

	for i := range n {
		for j := range kept {
			out.Rows[i][j] = projected.At(i, j)
		}
	}

	var total, explained float64
	for i, v := range vars {
		total += v
		if i < kept {
			explained += v
		}
	}
	if total > 0 {
		out.ExplainedVariance = explained / total
	}
	out.Components = kept

	return out, nil
}

// centre returns a copy of x with every column shifted to zero mean.
func centre(x *mat.Dense) *mat.Dense {
	n, d := x.Dims()
	c := mat.DenseCopyOf(x)

	col := make([]float64, n)
	for j := range d {
		mat.Col(col, j, x)
		mean := stat.Mean(col, nil)
		for i := range n {
			c.Set(i, j, c.At(i, j)-mean)
		}
	}
	return c
}
