package nn

import (
	"time"
)

// Vector is a dense column of values.
type Vector []float64

// Matrix is a dense row-major matrix indexed [outputUnit][inputUnit].
type Matrix [][]float64

// ActivationType defines the activation function used by every layer of a network
type ActivationType int

const (
	ActivationReLU      ActivationType = 0 // max(0, z)
	ActivationSigmoid   ActivationType = 1 // 1 / (1 + exp(-z))
	ActivationTanh      ActivationType = 2 // tanh(z)
	ActivationLeakyReLU ActivationType = 3 // z if z >= 0, else z * 0.01
	ActivationSoftplus  ActivationType = 4 // log(1 + exp(z))
	ActivationLinear    ActivationType = 5 // z
)

// LayerParameters holds the weights and biases of one dense layer together with
// its declared dimensions.
type LayerParameters struct {
	LayerIndex int    `json:"layer_index"`
	InputSize  int    `json:"input_size"`
	OutputSize int    `json:"output_size"`
	Weights    Matrix `json:"weights"` // [OutputSize][InputSize]
	Biases     Vector `json:"biases"`  // [OutputSize]
}

// ParameterSet is the persisted unit of a whole network. It is owned by the
// caller; the engine only ever returns new copies of it.
type ParameterSet struct {
	Name            string            `json:"name,omitempty"`
	Layers          []LayerParameters `json:"layers"`
	TotalParameters int               `json:"total_parameters"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// ForwardResult is the trace of one forward pass.
// Activations[0] is the network input, Activations[l+1] is the output of layer l.
// PreActivations[l] is Wx+b of layer l before the nonlinearity.
type ForwardResult struct {
	Activations    []Vector
	PreActivations []Vector
	Output         Vector
}

// GradientSet mirrors the shape of the network parameters.
type GradientSet struct {
	Weights []Matrix
	Biases  []Vector
}

// MomentumState holds one velocity per weight and bias. The caller threads it
// between calls; the engine never keeps it.
type MomentumState struct {
	Weights []Matrix `json:"weights"`
	Biases  []Vector `json:"biases"`
}

// Dims returns the number of rows and columns of m.
// Columns are taken from the first row.
func (m Matrix) Dims() (rows, cols int) {
	if len(m) == 0 {
		return 0, 0
	}
	return len(m), len(m[0])
}

// Clone returns a deep copy of m.
func (m Matrix) Clone() Matrix {
	if m == nil {
		return nil
	}
	out := make(Matrix, len(m))
	for i, row := range m {
		out[i] = make([]float64, len(row))
		copy(out[i], row)
	}
	return out
}

// Clone returns a copy of v.
func (v Vector) Clone() Vector {
	if v == nil {
		return nil
	}
	out := make(Vector, len(v))
	copy(out, v)
	return out
}

// Clone returns a deep copy of the momentum state.
func (s *MomentumState) Clone() *MomentumState {
	if s == nil {
		return nil
	}
	return &MomentumState{
		Weights: cloneMatrices(s.Weights),
		Biases:  cloneVectors(s.Biases),
	}
}

func cloneMatrices(ms []Matrix) []Matrix {
	if ms == nil {
		return nil
	}
	out := make([]Matrix, len(ms))
	for i, m := range ms {
		out[i] = m.Clone()
	}
	return out
}

func cloneVectors(vs []Vector) []Vector {
	if vs == nil {
		return nil
	}
	out := make([]Vector, len(vs))
	for i, v := range vs {
		out[i] = v.Clone()
	}
	return out
}

// zerosLike allocates zero-filled matrices and vectors shaped like weights and biases.
func zerosLike(weights []Matrix, biases []Vector) ([]Matrix, []Vector) {
	zw := make([]Matrix, len(weights))
	for l, w := range weights {
		zw[l] = make(Matrix, len(w))
		for i, row := range w {
			zw[l][i] = make([]float64, len(row))
		}
	}
	zb := make([]Vector, len(biases))
	for l, b := range biases {
		zb[l] = make(Vector, len(b))
	}
	return zw, zb
}
