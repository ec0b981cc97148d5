package nn

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

// NewParameterSet creates a network with len(sizes)-1 dense layers.
// sizes[0] is the input size and sizes[len-1] the output size.
// Weights use He initialization from a generator seeded with seed; biases start at zero.
func NewParameterSet(sizes []int, seed int64) (ParameterSet, error) {
	if len(sizes) < 2 {
		return ParameterSet{}, fmt.Errorf("need at least input and output sizes, got %v: %w", sizes, ErrEmptyNetwork)
	}
	for i, s := range sizes {
		if s <= 0 {
			return ParameterSet{}, fmt.Errorf("layer size %d at position %d: %w", s, i, ErrInvalidConfig)
		}
	}

	rng := rand.New(rand.NewSource(seed))
	layers := make([]LayerParameters, len(sizes)-1)
	for l := range layers {
		inputSize, outputSize := sizes[l], sizes[l+1]
		stddev := math.Sqrt(2.0 / float64(inputSize))

		weights := make(Matrix, outputSize)
		for i := range weights {
			weights[i] = make([]float64, inputSize)
			for j := range weights[i] {
				weights[i][j] = rng.NormFloat64() * stddev
			}
		}

		layers[l] = LayerParameters{
			LayerIndex: l,
			InputSize:  inputSize,
			OutputSize: outputSize,
			Weights:    weights,
			Biases:     make(Vector, outputSize),
		}
	}

	return ParameterSet{
		Layers:          layers,
		TotalParameters: countParameters(layers),
		UpdatedAt:       time.Now().UTC(),
	}, nil
}

// countParameters returns the sum over layers of inputSize*outputSize + outputSize.
func countParameters(layers []LayerParameters) int {
	total := 0
	for _, l := range layers {
		total += l.InputSize*l.OutputSize + l.OutputSize
	}
	return total
}

// ParametersToArrays copies the weights and biases out of a parameter set.
func ParametersToArrays(params ParameterSet) ([]Matrix, []Vector) {
	weights := make([]Matrix, len(params.Layers))
	biases := make([]Vector, len(params.Layers))
	for l, layer := range params.Layers {
		weights[l] = layer.Weights.Clone()
		biases[l] = layer.Biases.Clone()
	}
	return weights, biases
}

// ArraysToParameters builds a new parameter set from weights and biases.
// Name and layer indices are carried over from original; dimensions and
// TotalParameters are recomputed from the arrays and UpdatedAt is refreshed.
func ArraysToParameters(weights []Matrix, biases []Vector, original ParameterSet) ParameterSet {
	layers := make([]LayerParameters, len(weights))
	for l := range weights {
		outputSize, inputSize := weights[l].Dims()

		index := l
		if l < len(original.Layers) {
			index = original.Layers[l].LayerIndex
		}

		var bias Vector
		if l < len(biases) {
			bias = biases[l].Clone()
		}

		layers[l] = LayerParameters{
			LayerIndex: index,
			InputSize:  inputSize,
			OutputSize: outputSize,
			Weights:    weights[l].Clone(),
			Biases:     bias,
		}
	}

	return ParameterSet{
		Name:            original.Name,
		Layers:          layers,
		TotalParameters: countParameters(layers),
		UpdatedAt:       time.Now().UTC(),
	}
}

// Validate checks that the declared dimensions of every layer match its arrays
// and that consecutive layers connect.
func (p ParameterSet) Validate() error {
	weights, biases := ParametersToArrays(p)
	shapes, err := networkShape("parameters", weights, biases)
	if err != nil {
		return err
	}
	for l, s := range shapes {
		layer := p.Layers[l]
		if layer.InputSize != s.in {
			return dimErr("parameters", "declared input size", l, layer.InputSize, s.in)
		}
		if layer.OutputSize != s.out {
			return dimErr("parameters", "declared output size", l, layer.OutputSize, s.out)
		}
	}
	return nil
}
