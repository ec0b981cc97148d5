package nn

import "fmt"

// Backward computes loss gradients for every weight and bias by backpropagating
// the mean-squared-error signal through the trace produced by Forward.
//
// Gradients are per unit; they are not normalized by output size. When l2 > 0,
// l2*W is added to every weight gradient. Biases are not regularized.
func Backward(input, target Vector, fwd *ForwardResult, weights []Matrix, biases []Vector, activation ActivationType, l2 float64) (*GradientSet, error) {
	if !activation.Valid() {
		return nil, fmt.Errorf("backward: activation %s: %w", activation, ErrInvalidConfig)
	}
	shapes, err := networkShape("backward", weights, biases)
	if err != nil {
		return nil, err
	}
	if err := checkTrace(shapes, input, target, fwd); err != nil {
		return nil, err
	}
	return backward(input, target, fwd, weights, activation, l2), nil
}

// checkTrace verifies that the trace was produced by a network of the given shape.
func checkTrace(shapes []layerShape, input, target Vector, fwd *ForwardResult) error {
	last := len(shapes) - 1
	if len(input) != shapes[0].in {
		return dimErr("backward", "input", 0, len(input), shapes[0].in)
	}
	if len(target) != shapes[last].out {
		return dimErr("backward", "target", last, len(target), shapes[last].out)
	}
	if fwd == nil {
		return dimErr("backward", "forward trace layers", -1, 0, len(shapes))
	}
	if len(fwd.PreActivations) != len(shapes) {
		return dimErr("backward", "forward trace layers", -1, len(fwd.PreActivations), len(shapes))
	}
	if len(fwd.Activations) != len(shapes)+1 {
		return dimErr("backward", "forward trace activations", -1, len(fwd.Activations), len(shapes)+1)
	}
	for l, s := range shapes {
		if len(fwd.PreActivations[l]) != s.out {
			return dimErr("backward", "pre-activations", l, len(fwd.PreActivations[l]), s.out)
		}
		if len(fwd.Activations[l+1]) != s.out {
			return dimErr("backward", "activations", l, len(fwd.Activations[l+1]), s.out)
		}
	}
	return nil
}

func backward(input, target Vector, fwd *ForwardResult, weights []Matrix, activation ActivationType, l2 float64) *GradientSet {
	numLayers := len(weights)
	deltas := make([]Vector, numLayers)

	// Output layer: (a_L - t) * f'(z_L)
	last := numLayers - 1
	output := fwd.Activations[last+1]
	deltas[last] = make(Vector, len(output))
	for i := range output {
		deltas[last][i] = (output[i] - target[i]) * ActivateDerivative(fwd.PreActivations[last][i], activation)
	}

	// Hidden layers, back to front
	for l := last - 1; l >= 0; l-- {
		deltas[l] = propagateDelta(weights[l+1], deltas[l+1], fwd.PreActivations[l], activation)
	}

	grads := &GradientSet{
		Weights: make([]Matrix, numLayers),
		Biases:  make([]Vector, numLayers),
	}
	for l := 0; l < numLayers; l++ {
		prev := input
		if l > 0 {
			prev = fwd.Activations[l]
		}
		grads.Weights[l], grads.Biases[l] = denseGradients(deltas[l], prev)

		if l2 > 0 {
			for i, row := range weights[l] {
				for j, w := range row {
					grads.Weights[l][i][j] += l2 * w
				}
			}
		}
	}
	return grads
}
