package feature

import (
	"math"
	"testing"
)

func TestStandardScaler_ZeroMeanUnitVariance(t *testing.T) {
	rows := [][]float64{
		{1, 10},
		{2, 20},
		{3, 30},
		{4, 40},
	}

	s, err := FitStandard(rows)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}

	scaled, err := s.TransformAll(rows)
	if err != nil {
		t.Fatalf("transform: %v", err)
	}

	for j := 0; j < 2; j++ {
		var sum float64
		for _, r := range scaled {
			sum += r[j]
		}
		if math.Abs(sum/float64(len(scaled))) > 1e-9 {
			t.Errorf("column %d: mean not zero after scaling", j)
		}
	}
}

func TestStandardScaler_ConstantColumn(t *testing.T) {
	rows := [][]float64{{5, 1}, {5, 2}, {5, 3}}

	s, err := FitStandard(rows)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}

	out, err := s.Transform([]float64{5, 2})
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	if math.IsNaN(out[0]) || math.IsInf(out[0], 0) {
		t.Errorf("constant column produced %f", out[0])
	}
}

func TestStandardScaler_PopulationDeviation(t *testing.T) {
	// Column {2,4,4,4,5,5,7,9}: mean 5, population σ exactly 2 (the sample
	// deviation would be ≈2.138).
	rows := [][]float64{{2}, {4}, {4}, {4}, {5}, {5}, {7}, {9}}

	s, err := FitStandard(rows)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	if s.Means[0] != 5 {
		t.Errorf("mean = %v, want 5", s.Means[0])
	}
	if math.Abs(s.Stds[0]-2) > 1e-12 {
		t.Errorf("std = %v, want population deviation 2", s.Stds[0])
	}
}

func TestStandardScaler_DimensionCheck(t *testing.T) {
	s, err := FitStandard([][]float64{{1, 2}})
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	if _, err := s.Transform([]float64{1, 2, 3}); err == nil {
		t.Fatal("expected error for wrong row length")
	}
}

func TestMinMaxScaler(t *testing.T) {
	s := FitMinMax([]float64{2, 4, 5, 3})

	if got := s.Transform(2); got != 0 {
		t.Errorf("min should map to 0, got %f", got)
	}
	if got := s.Transform(5); got != 1 {
		t.Errorf("max should map to 1, got %f", got)
	}
	if got := s.Transform(3.5); got != 0.5 {
		t.Errorf("midpoint should map to 0.5, got %f", got)
	}
}

func TestMinMaxScaler_DegenerateRange(t *testing.T) {
	s := FitMinMax([]float64{4, 4, 4})
	if got := s.Transform(4); got != 0 {
		t.Errorf("degenerate range should map to 0, got %f", got)
	}
}
