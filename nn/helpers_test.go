package nn

import (
	"math"
	"testing"
)

const tolerance = 1e-9

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// exampleNetwork is a 2-3-1 network with hand-picked weights.
// For input [1, 0.5] and ReLU, the hidden pre-activations are [0.5, 0.7, -0.15]
// and the output is 0.14.
func exampleNetwork() ([]Matrix, []Vector) {
	weights := []Matrix{
		{
			{0.5, -0.2},
			{0.3, 0.8},
			{-0.4, 0.1},
		},
		{
			{0.6, -0.3, 0.9},
		},
	}
	biases := []Vector{
		{0.1, 0, 0.2},
		{0.05},
	}
	return weights, biases
}

// flattenParams lays out all weights then all biases, layer by layer.
func flattenParams(weights []Matrix, biases []Vector) []float64 {
	var flat []float64
	for l := range weights {
		for _, row := range weights[l] {
			flat = append(flat, row...)
		}
		flat = append(flat, biases[l]...)
	}
	return flat
}

// unflattenParams is the inverse of flattenParams for the given shapes.
func unflattenParams(flat []float64, like []Matrix) ([]Matrix, []Vector) {
	weights := make([]Matrix, len(like))
	biases := make([]Vector, len(like))
	k := 0
	for l, w := range like {
		weights[l] = make(Matrix, len(w))
		for i, row := range w {
			weights[l][i] = make([]float64, len(row))
			copy(weights[l][i], flat[k:k+len(row)])
			k += len(row)
		}
		biases[l] = make(Vector, len(w))
		copy(biases[l], flat[k:k+len(w)])
		k += len(w)
	}
	return weights, biases
}

func assertSameShape(t *testing.T, weights []Matrix, biases []Vector, gw []Matrix, gb []Vector) {
	t.Helper()
	if len(gw) != len(weights) || len(gb) != len(biases) {
		t.Fatalf("Expected %d layers, got %d weight and %d bias layers", len(weights), len(gw), len(gb))
	}
	for l := range weights {
		if len(gw[l]) != len(weights[l]) {
			t.Fatalf("Layer %d: expected %d rows, got %d", l, len(weights[l]), len(gw[l]))
		}
		for i := range weights[l] {
			if len(gw[l][i]) != len(weights[l][i]) {
				t.Fatalf("Layer %d row %d: expected %d columns, got %d", l, i, len(weights[l][i]), len(gw[l][i]))
			}
		}
		if len(gb[l]) != len(biases[l]) {
			t.Fatalf("Layer %d: expected %d biases, got %d", l, len(biases[l]), len(gb[l]))
		}
	}
}
