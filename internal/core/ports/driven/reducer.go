package driven

// Projection is the result of a fitted dimensionality reduction.
type Projection struct {
	// Rows holds one projected row per input row, each of the requested width.
	Rows [][]float64

	// ExplainedVariance is the fraction of total variance kept by the components.
	ExplainedVariance float64

	// Components is the number of non-degenerate components that were fitted.
	// It is lower than the requested width when there are fewer samples than components.
	Components int
}

// Reducer fits a linear dimensionality reduction and projects the rows through it.
type Reducer interface {
	// Name identifies the reduction method for reporting.
	Name() string

	// FitTransform fits k components on rows and returns the projected rows.
	FitTransform(rows [][]float64, k int) (*Projection, error)
}
