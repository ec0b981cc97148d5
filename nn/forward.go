package nn

import "fmt"

// Forward evaluates the network on one input and returns the full trace needed by Backward.
// The input, weights, and biases are never modified.
func Forward(input Vector, weights []Matrix, biases []Vector, activation ActivationType) (*ForwardResult, error) {
	if !activation.Valid() {
		return nil, fmt.Errorf("forward: activation %s: %w", activation, ErrInvalidConfig)
	}
	shapes, err := networkShape("forward", weights, biases)
	if err != nil {
		return nil, err
	}
	if len(input) != shapes[0].in {
		return nil, dimErr("forward", "input", 0, len(input), shapes[0].in)
	}
	return forward(input, weights, biases, activation), nil
}

// forward runs the layers without validating shapes.
func forward(input Vector, weights []Matrix, biases []Vector, activation ActivationType) *ForwardResult {
	result := &ForwardResult{
		Activations:    make([]Vector, len(weights)+1), // +1 for input
		PreActivations: make([]Vector, len(weights)),
	}
	result.Activations[0] = input.Clone()

	data := result.Activations[0]
	for l := range weights {
		preAct, postAct := denseForward(data, weights[l], biases[l], activation)
		result.PreActivations[l] = preAct
		result.Activations[l+1] = postAct
		data = postAct
	}

	result.Output = data.Clone()
	return result
}

// Predict returns only the network output for input.
func Predict(params ParameterSet, input Vector, activation ActivationType) (Vector, error) {
	weights, biases := ParametersToArrays(params)
	fwd, err := Forward(input, weights, biases, activation)
	if err != nil {
		return nil, err
	}
	return fwd.Output, nil
}
