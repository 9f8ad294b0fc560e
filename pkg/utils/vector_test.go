package utils

import (
	"math"
	"testing"
)

func TestCosineSimilarity(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		a        []float32
		b        []float32
		expected float64
	}{
		{
			name:     "identical vectors",
			a:        []float32{1, 0, 0},
			b:        []float32{1, 0, 0},
			expected: 1.0,
		},
		{
			name:     "opposite vectors",
			a:        []float32{1, 0, 0},
			b:        []float32{-1, 0, 0},
			expected: -1.0,
		},
		{
			name:     "orthogonal vectors",
			a:        []float32{1, 0, 0},
			b:        []float32{0, 1, 0},
			expected: 0.0,
		},
		{
			name:     "similar vectors",
			a:        []float32{1, 2, 3},
			b:        []float32{1, 2, 3},
			expected: 1.0,
		},
		{
			name:     "different lengths",
			a:        []float32{1, 2, 3},
			b:        []float32{1, 2},
			expected: 0.0,
		},
		{
			name:     "empty vectors",
			a:        []float32{},
			b:        []float32{},
			expected: 0.0,
		},
		{
			name:     "zero vector a",
			a:        []float32{0, 0, 0},
			b:        []float32{1, 2, 3},
			expected: 0.0,
		},
		{
			name:     "zero vector b",
			a:        []float32{1, 2, 3},
			b:        []float32{0, 0, 0},
			expected: 0.0,
		},
		{
			name:     "nil vectors",
			a:        nil,
			b:        nil,
			expected: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CosineSimilarity(tt.a, tt.b)
			if math.Abs(result-tt.expected) > 1e-6 {
				t.Errorf("CosineSimilarity(%v, %v) = %v, expected %v", tt.a, tt.b, result, tt.expected)
			}
		})
	}
}

func TestCosineSimilarityBounds(t *testing.T) {
	t.Parallel()
	vectors := [][]float32{
		{0.3, -0.7, 0.2},
		{1, 1, 1},
		{-2.5, 0.1, 4},
		{0.001, 0.002, -0.003},
	}

	for _, a := range vectors {
		for _, b := range vectors {
			sim := CosineSimilarity(a, b)
			if sim < -1.0-1e-9 || sim > 1.0+1e-9 {
				t.Errorf("CosineSimilarity(%v, %v) = %v out of [-1, 1]", a, b, sim)
			}
		}
	}
}

func TestCosineSimilarityFloat32Inputs(t *testing.T) {
	t.Parallel()
	// Accumulation runs in float64 so long low-magnitude vectors keep precision.
	a := make([]float32, 1536)
	for i := range a {
		a[i] = 0.001
	}
	if got := CosineSimilarity(a, a); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("CosineSimilarity(self) = %v, expected 1.0", got)
	}
}
