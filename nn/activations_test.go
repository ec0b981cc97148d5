package nn

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/diff/fd"
)

var allActivations = []ActivationType{
	ActivationReLU,
	ActivationSigmoid,
	ActivationTanh,
	ActivationLeakyReLU,
	ActivationSoftplus,
	ActivationLinear,
}

func TestActivate(t *testing.T) {
	tests := []struct {
		activation ActivationType
		z          float64
		want       float64
	}{
		{ActivationReLU, -1.0, 0},
		{ActivationReLU, 2.5, 2.5},
		{ActivationSigmoid, 0, 0.5},
		{ActivationSigmoid, 0.5, 1.0 / (1.0 + math.Exp(-0.5))},
		{ActivationTanh, 0.3, math.Tanh(0.3)},
		{ActivationLeakyReLU, -2.0, -0.02},
		{ActivationLeakyReLU, 3.0, 3.0},
		{ActivationSoftplus, 0, math.Log(2)},
		{ActivationSoftplus, 100, 100},
		{ActivationLinear, -7.25, -7.25},
	}

	for _, tt := range tests {
		got := Activate(tt.z, tt.activation)
		if !approxEqual(got, tt.want, 1e-12) {
			t.Errorf("%s(%v): expected %v, got %v", tt.activation, tt.z, tt.want, got)
		}
	}
}

// TestActivateDerivativeMatchesFiniteDifference checks the derivative is taken
// with respect to the pre-activation value.
func TestActivateDerivativeMatchesFiniteDifference(t *testing.T) {
	// Avoid 0 where ReLU and LeakyReLU are not differentiable
	points := []float64{-2.3, -0.7, 0.4, 1.9}

	for _, act := range allActivations {
		for _, z := range points {
			f := func(x float64) float64 { return Activate(x, act) }
			want := fd.Derivative(f, z, &fd.Settings{Formula: fd.Central, Step: 1e-6})
			got := ActivateDerivative(z, act)
			if !approxEqual(got, want, 1e-6) {
				t.Errorf("%s'(%v): expected %v, got %v", act, z, want, got)
			}
		}
	}
}

func TestParseActivation(t *testing.T) {
	for _, act := range allActivations {
		parsed, err := ParseActivation(act.String())
		if err != nil {
			t.Fatalf("ParseActivation(%q): %v", act.String(), err)
		}
		if parsed != act {
			t.Errorf("Expected %v, got %v", act, parsed)
		}
	}

	if got, err := ParseActivation(" Sigmoid "); err != nil || got != ActivationSigmoid {
		t.Errorf("Expected sigmoid, got %v (err %v)", got, err)
	}

	if _, err := ParseActivation("gelu"); err == nil {
		t.Error("Expected error for unknown activation")
	}
}

func TestActivationText(t *testing.T) {
	text, err := ActivationTanh.MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	if string(text) != "tanh" {
		t.Errorf("Expected tanh, got %s", text)
	}

	var a ActivationType
	if err := a.UnmarshalText([]byte("leaky_relu")); err != nil {
		t.Fatal(err)
	}
	if a != ActivationLeakyReLU {
		t.Errorf("Expected leaky_relu, got %v", a)
	}

	if _, err := ActivationType(42).MarshalText(); err == nil {
		t.Error("Expected error for unknown activation")
	}
}
