package nn

import (
	"gonum.org/v1/gonum/mat"
)

// toDense copies a row-major Matrix into a gonum matrix.
func toDense(m Matrix) *mat.Dense {
	rows, cols := m.Dims()
	flat := make([]float64, 0, rows*cols)
	for _, row := range m {
		flat = append(flat, row...)
	}
	return mat.NewDense(rows, cols, flat)
}

// fromDense copies a gonum matrix into a row-major Matrix.
func fromDense(d *mat.Dense) Matrix {
	rows, cols := d.Dims()
	out := make(Matrix, rows)
	for i := 0; i < rows; i++ {
		out[i] = make([]float64, cols)
		copy(out[i], d.RawRowView(i))
	}
	return out
}

// denseForward performs the forward pass of one dense layer
// input: [inputSize]
// weights: [outputSize][inputSize]
// returns pre-activation and post-activation vectors of length outputSize
func denseForward(input Vector, weights Matrix, bias Vector, activation ActivationType) (Vector, Vector) {
	outputSize, inputSize := weights.Dims()

	// z = W·x + b
	z := mat.NewVecDense(outputSize, nil)
	z.MulVec(toDense(weights), mat.NewVecDense(inputSize, input.Clone()))
	z.AddVec(z, mat.NewVecDense(outputSize, bias.Clone()))

	preAct := Vector(z.RawVector().Data)
	postAct := make(Vector, outputSize)
	for i, v := range preAct {
		postAct[i] = Activate(v, activation)
	}
	return preAct, postAct
}

// denseGradients computes the weight and bias gradients of one dense layer from
// its error signal and the activation that fed it.
// dW[i][j] = delta[i] * prevActivation[j], db[i] = delta[i]
func denseGradients(delta, prevActivation Vector) (Matrix, Vector) {
	gradW := mat.NewDense(len(delta), len(prevActivation), nil)
	gradW.Outer(1, mat.NewVecDense(len(delta), delta.Clone()), mat.NewVecDense(len(prevActivation), prevActivation.Clone()))
	return fromDense(gradW), delta.Clone()
}

// propagateDelta moves an error signal one layer back:
// delta_l = (W_{l+1}^T · delta_{l+1}) ⊙ f'(z_l)
func propagateDelta(nextWeights Matrix, nextDelta, preAct Vector, activation ActivationType) Vector {
	_, inputSize := nextWeights.Dims()

	back := mat.NewVecDense(inputSize, nil)
	back.MulVec(toDense(nextWeights).T(), mat.NewVecDense(len(nextDelta), nextDelta.Clone()))

	delta := make(Vector, inputSize)
	for i := range delta {
		delta[i] = back.AtVec(i) * ActivateDerivative(preAct[i], activation)
	}
	return delta
}
