package clip

import (
	"math"
	"testing"
)

const tolerance = 1e-10

func almostEqual(a, b, tol float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	return math.Abs(a-b) <= tol
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name string
		data []float64
		want float64
	}{
		{name: "odd", data: []float64{5, 1, 3}, want: 3},
		{name: "even", data: []float64{4, 1, 3, 2}, want: 2.5},
		{name: "single", data: []float64{-7}, want: -7},
		{name: "empty", want: math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Median(tt.data); !almostEqual(got, tt.want, tolerance) {
				t.Fatalf("Median() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMedianDoesNotModifyInput(t *testing.T) {
	data := []float64{3, 1, 2}
	Median(data)
	if data[0] != 3 || data[1] != 1 || data[2] != 2 {
		t.Fatalf("input modified: %v", data)
	}
}

func TestMeanStd(t *testing.T) {
	mean, std := MeanStd([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if !almostEqual(mean, 5, tolerance) {
		t.Errorf("mean = %v, want 5", mean)
	}
	if !almostEqual(std, 2, tolerance) {
		t.Errorf("std = %v, want 2", std)
	}
}

func TestCalculateRejectsOutlier(t *testing.T) {
	data := make([]float64, 101)
	for i := range data {
		data[i] = 10 + float64(i%5-2)*0.1
	}
	data[50] = 1e4

	s := Calculate(data, DefaultConfig())
	if s.Rejected != 1 {
		t.Fatalf("Rejected = %d, want 1", s.Rejected)
	}
	if s.Count != 100 {
		t.Fatalf("Count = %d, want 100", s.Count)
	}
	if !almostEqual(s.Mean, 10, 1e-9) {
		t.Errorf("Mean = %v, want 10", s.Mean)
	}
	if !almostEqual(s.Median, 10, 1e-9) {
		t.Errorf("Median = %v, want 10", s.Median)
	}
	if s.Std <= 0 || s.Std > 0.2 {
		t.Errorf("Std = %v, want in (0, 0.2]", s.Std)
	}
	if s.Iterations < 2 {
		t.Errorf("Iterations = %d, want >= 2", s.Iterations)
	}
}

func TestCalculateConstant(t *testing.T) {
	s := Calculate([]float64{3, 3, 3, 3}, DefaultConfig())
	if s.Mean != 3 || s.Median != 3 || s.Std != 0 {
		t.Fatalf("got %+v, want mean=median=3 std=0", s)
	}
	if s.Iterations != 1 || s.Rejected != 0 {
		t.Fatalf("got %+v, want a single pass without rejection", s)
	}
}

func TestCalculateIgnoresNaN(t *testing.T) {
	s := Calculate([]float64{1, math.NaN(), 3}, DefaultConfig())
	if s.Count != 2 || !almostEqual(s.Mean, 2, tolerance) {
		t.Fatalf("got %+v, want count=2 mean=2", s)
	}
}

func TestCalculateEmpty(t *testing.T) {
	s := Calculate(nil, DefaultConfig())
	if !math.IsNaN(s.Mean) || !math.IsNaN(s.Median) || !math.IsNaN(s.Std) {
		t.Fatalf("got %+v, want NaN statistics", s)
	}
}

func TestCalculateMaxIters(t *testing.T) {
	data := []float64{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 2, 4, 8, 16, 32, 64, 1000}
	s := Calculate(data, Config{Sigma: 1, MaxIters: 1})
	if s.Iterations != 1 {
		t.Fatalf("Iterations = %d, want 1", s.Iterations)
	}
}

func TestCalculateDoesNotModifyInput(t *testing.T) {
	data := []float64{5, 1, 100, 2}
	Calculate(data, DefaultConfig())
	if data[0] != 5 || data[2] != 100 {
		t.Fatalf("input modified: %v", data)
	}
}
