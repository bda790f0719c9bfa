package domain

import "errors"

// Domain errors represent job failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingArtifact indicates a required input file or directory is absent.
	// Jobs fail before writing any output.
	ErrMissingArtifact = errors.New("missing artifact")

	// ErrMissingDependency indicates a service a job needs (embedding client,
	// reducer) could not be constructed or reached.
	ErrMissingDependency = errors.New("missing dependency")

	// ErrDimensionMismatch indicates a vector whose length differs from the
	// collection dimension.
	ErrDimensionMismatch = errors.New("dimension mismatch")
)
