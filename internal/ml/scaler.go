package ml

import (
	"gonum.org/v1/gonum/stat"
)

// StandardScaler centers each feature column to zero mean and unit
// variance. Columns with zero variance are passed through unchanged.
type StandardScaler struct {
	Means []float64 `json:"means"`
	Stds  []float64 `json:"stds"`
}

// FitScaler computes per-column statistics over the training matrix.
func FitScaler(x [][]float64) (*StandardScaler, error) {
	if len(x) == 0 || len(x[0]) == 0 {
		return nil, ErrEmptyDataset
	}

	cols := len(x[0])
	s := &StandardScaler{
		Means: make([]float64, cols),
		Stds:  make([]float64, cols),
	}

	col := make([]float64, len(x))
	for j := 0; j < cols; j++ {
		for i := range x {
			if len(x[i]) != cols {
				return nil, ErrDimensionMismatch
			}
			col[i] = x[i][j]
		}
		s.Means[j] = stat.Mean(col, nil)
		s.Stds[j] = stat.StdDev(col, nil)
		if s.Stds[j] == 0 || len(x) < 2 {
			s.Stds[j] = 1
		}
	}

	return s, nil
}

// Transform scales a single feature vector. The input is not modified.
func (s *StandardScaler) Transform(v []float64) ([]float64, error) {
	if len(v) != len(s.Means) {
		return nil, ErrDimensionMismatch
	}

	out := make([]float64, len(v))
	for j := range v {
		out[j] = (v[j] - s.Means[j]) / s.Stds[j]
	}

	return out, nil
}

// TransformAll scales every row of the matrix.
func (s *StandardScaler) TransformAll(x [][]float64) ([][]float64, error) {
	out := make([][]float64, len(x))
	for i := range x {
		row, err := s.Transform(x[i])
		if err != nil {
			return nil, err
		}
		out[i] = row
	}

	return out, nil
}
