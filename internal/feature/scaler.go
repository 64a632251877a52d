package feature

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// StandardScaler centers each feature to zero mean and unit variance using
// statistics fit on the training population. Fields are exported for
// artifact serialization; a loaded scaler transforms serving vectors with
// the exact statistics seen at training time.
type StandardScaler struct {
	Means []float64 `json:"means"`
	Stds  []float64 `json:"stds"`
}

// FitStandard computes per-column mean and population standard deviation
// over rows. Population, not sample: assignment confidence depends on
// centroid distances matching the deviation the model was trained with.
func FitStandard(rows [][]float64) (*StandardScaler, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("fit standard scaler: no rows")
	}
	dim := len(rows[0])
	col := make([]float64, len(rows))
	s := &StandardScaler{
		Means: make([]float64, dim),
		Stds:  make([]float64, dim),
	}
	for j := 0; j < dim; j++ {
		for i, row := range rows {
			col[i] = row[j]
		}
		s.Means[j] = stat.Mean(col, nil)
		s.Stds[j] = stat.PopStdDev(col, nil)
		if s.Stds[j] == 0 {
			// Constant column; avoid division by zero on transform.
			s.Stds[j] = 1
		}
	}
	return s, nil
}

// Transform standardizes a single row.
func (s *StandardScaler) Transform(row []float64) ([]float64, error) {
	if len(row) != len(s.Means) {
		return nil, fmt.Errorf("standard scaler expects %d features, got %d", len(s.Means), len(row))
	}
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = (v - s.Means[j]) / s.Stds[j]
	}
	return out, nil
}

// TransformAll standardizes every row.
func (s *StandardScaler) TransformAll(rows [][]float64) ([][]float64, error) {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		t, err := s.Transform(row)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

// MinMaxScaler rescales a single feature into [0, 1].
type MinMaxScaler struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// FitMinMax computes the range of values.
func FitMinMax(values []float64) *MinMaxScaler {
	s := &MinMaxScaler{}
	if len(values) == 0 {
		return s
	}
	s.Min, s.Max = values[0], values[0]
	for _, v := range values[1:] {
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	return s
}

// Transform rescales v into [0, 1]. A degenerate range maps to 0.
func (s *MinMaxScaler) Transform(v float64) float64 {
	if s.Max == s.Min {
		return 0
	}
	return (v - s.Min) / (s.Max - s.Min)
}
