package nn

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/diff/fd"
)

func TestBackwardShapeInvariant(t *testing.T) {
	for _, sizes := range [][]int{{2, 3, 1}, {4, 8, 8, 3}, {1, 1}, {5, 2, 7}} {
		params, err := NewParameterSet(sizes, 7)
		if err != nil {
			t.Fatal(err)
		}
		weights, biases := ParametersToArrays(params)

		input := make(Vector, sizes[0])
		for i := range input {
			input[i] = float64(i) * 0.25
		}
		target := make(Vector, sizes[len(sizes)-1])

		fwd, err := Forward(input, weights, biases, ActivationTanh)
		if err != nil {
			t.Fatal(err)
		}
		grads, err := Backward(input, target, fwd, weights, biases, ActivationTanh, 0.01)
		if err != nil {
			t.Fatal(err)
		}
		assertSameShape(t, weights, biases, grads.Weights, grads.Biases)
	}
}

func TestBackwardExampleNetwork(t *testing.T) {
	weights, biases := exampleNetwork()
	input := Vector{1.0, 0.5}
	target := Vector{1.0}

	fwd, err := Forward(input, weights, biases, ActivationReLU)
	if err != nil {
		t.Fatal(err)
	}
	grads, err := Backward(input, target, fwd, weights, biases, ActivationReLU, 0)
	if err != nil {
		t.Fatal(err)
	}

	// delta_out = 0.14 - 1 = -0.86
	// delta_hidden = [0.6, -0.3, 0.9] * -0.86 masked by relu'([0.5, 0.7, -0.15])
	wantW := []Matrix{
		{{-0.516, -0.258}, {0.258, 0.129}, {0, 0}},
		{{-0.43, -0.602, 0}},
	}
	wantB := []Vector{{-0.516, 0.258, 0}, {-0.86}}

	for l := range wantW {
		for i := range wantW[l] {
			if d := MaxAbsDiff(grads.Weights[l][i], wantW[l][i]); d > tolerance {
				t.Errorf("gradW[%d][%d]: expected %v, got %v", l, i, wantW[l][i], grads.Weights[l][i])
			}
		}
		if d := MaxAbsDiff(grads.Biases[l], wantB[l]); d > tolerance {
			t.Errorf("gradB[%d]: expected %v, got %v", l, wantB[l], grads.Biases[l])
		}
	}
}

// TestBackwardMatchesFiniteDifferences compares the analytic gradients with
// central differences of 0.5*sum((out-t)^2) + (l2/2)*sum(W^2), the objective
// whose gradient Backward computes.
func TestBackwardMatchesFiniteDifferences(t *testing.T) {
	tests := []struct {
		name       string
		activation ActivationType
		l2         float64
	}{
		{"sigmoid", ActivationSigmoid, 0},
		{"tanh", ActivationTanh, 0},
		{"softplus", ActivationSoftplus, 0},
		{"tanh with l2", ActivationTanh, 0.05},
		{"sigmoid with l2", ActivationSigmoid, 0.2},
	}

	params, err := NewParameterSet([]int{3, 4, 2}, 11)
	if err != nil {
		t.Fatal(err)
	}
	weights, biases := ParametersToArrays(params)
	input := Vector{0.2, -0.7, 1.1}
	target := Vector{0.3, -0.1}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			objective := func(x []float64) float64 {
				w, b := unflattenParams(x, weights)
				fwd := forward(input, w, b, tt.activation)
				sum := 0.0
				for i := range fwd.Output {
					d := fwd.Output[i] - target[i]
					sum += d * d
				}
				return 0.5*sum + L2Penalty(w, tt.l2)
			}

			numeric := fd.Gradient(nil, objective, flattenParams(weights, biases), &fd.Settings{
				Formula: fd.Central,
				Step:    1e-6,
			})

			fwd, err := Forward(input, weights, biases, tt.activation)
			if err != nil {
				t.Fatal(err)
			}
			grads, err := Backward(input, target, fwd, weights, biases, tt.activation, tt.l2)
			if err != nil {
				t.Fatal(err)
			}
			analytic := flattenParams(grads.Weights, grads.Biases)

			if d := MaxAbsDiff(analytic, numeric); d > 1e-6 {
				t.Errorf("Max difference between analytic and numeric gradients is %v", d)
			}
		})
	}
}

func TestBackwardL2SkipsBiases(t *testing.T) {
	weights, biases := exampleNetwork()
	input := Vector{1.0, 0.5}
	target := Vector{1.0}

	fwd, err := Forward(input, weights, biases, ActivationReLU)
	if err != nil {
		t.Fatal(err)
	}
	plain, err := Backward(input, target, fwd, weights, biases, ActivationReLU, 0)
	if err != nil {
		t.Fatal(err)
	}
	reg, err := Backward(input, target, fwd, weights, biases, ActivationReLU, 0.5)
	if err != nil {
		t.Fatal(err)
	}

	for l := range weights {
		for i := range weights[l] {
			for j := range weights[l][i] {
				want := plain.Weights[l][i][j] + 0.5*weights[l][i][j]
				if !approxEqual(reg.Weights[l][i][j], want, 1e-12) {
					t.Errorf("gradW[%d][%d][%d]: expected %v, got %v", l, i, j, want, reg.Weights[l][i][j])
				}
			}
		}
		if MaxAbsDiff(reg.Biases[l], plain.Biases[l]) != 0 {
			t.Errorf("Layer %d: bias gradients changed under L2", l)
		}
	}
}

func TestBackwardIndependentOfTrace(t *testing.T) {
	weights, biases := exampleNetwork()
	input := Vector{1.0, 0.5}

	fwd, err := Forward(input, weights, biases, ActivationReLU)
	if err != nil {
		t.Fatal(err)
	}
	grads, err := Backward(input, Vector{1.0}, fwd, weights, biases, ActivationReLU, 0)
	if err != nil {
		t.Fatal(err)
	}

	before := grads.Biases[1][0]
	fwd.PreActivations[1][0] = 123
	fwd.Activations[2][0] = 123
	if grads.Biases[1][0] != before {
		t.Error("Gradients alias the forward trace")
	}
}

func TestBackwardDimensionMismatch(t *testing.T) {
	weights, biases := exampleNetwork()
	input := Vector{1.0, 0.5}

	fwd, err := Forward(input, weights, biases, ActivationReLU)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := Backward(input, Vector{1.0, 0.0}, fwd, weights, biases, ActivationReLU, 0); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("Wrong target length: expected ErrDimensionMismatch, got %v", err)
	}
	if _, err := Backward(Vector{1.0}, Vector{1.0}, fwd, weights, biases, ActivationReLU, 0); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("Wrong input length: expected ErrDimensionMismatch, got %v", err)
	}
	if _, err := Backward(input, Vector{1.0}, nil, weights, biases, ActivationReLU, 0); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("Missing trace: expected ErrDimensionMismatch, got %v", err)
	}

	short := &ForwardResult{
		Activations:    fwd.Activations[:2],
		PreActivations: fwd.PreActivations[:1],
		Output:         fwd.Output,
	}
	if _, err := Backward(input, Vector{1.0}, short, weights, biases, ActivationReLU, 0); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("Truncated trace: expected ErrDimensionMismatch, got %v", err)
	}
}

func TestBackwardUnknownActivation(t *testing.T) {
	weights, biases := exampleNetwork()
	input := Vector{1.0, 0.5}

	fwd, err := Forward(input, weights, biases, ActivationReLU)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Backward(input, Vector{1.0}, fwd, weights, biases, ActivationType(-1), 0); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}
