package ml

import "errors"

var (
	// ErrEmptyDataset indicates training was attempted on no samples.
	ErrEmptyDataset = errors.New("empty dataset")

	// ErrDimensionMismatch indicates a feature vector does not match
	// the dimensionality the model was fitted on.
	ErrDimensionMismatch = errors.New("feature dimension mismatch")

	// ErrNotFitted indicates prediction was attempted before training.
	ErrNotFitted = errors.New("model not fitted")

	// ErrModelUnavailable indicates no trained artifact exists for a
	// document kind. Callers fall back to rule-based scoring.
	ErrModelUnavailable = errors.New("model unavailable")
)
