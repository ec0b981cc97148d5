// Package nn provides a multi-layer perceptron training engine with explicit state threading.
//
// A network is an ordered list of dense layers. Each layer holds a weight matrix
// indexed [outputUnit][inputUnit] and a bias vector indexed [outputUnit]; every
// layer uses the same activation function:
//   - ReLU: max(0, z)
//   - Sigmoid: 1 / (1 + exp(-z))
//   - Tanh: tanh(z)
//   - LeakyReLU: z if z >= 0, else z * 0.01
//   - Softplus: log(1 + exp(z))
//   - Linear: z
//
// Training is a pipeline of pure functions:
//
//	input -> Forward -> Backward -> UpdateWeights -> new weights/biases
//
// Nothing is mutated in place. Parameters and the optional momentum state are
// passed in by the caller and returned as fresh copies, so snapshots of the same
// ParameterSet can be trained independently.
//
// Example usage:
//
//	params, _ := nn.NewParameterSet([]int{2, 3, 1}, 42)
//	weights, biases := nn.ParametersToArrays(params)
//
//	cfg := nn.DefaultUpdateConfig()
//	cfg.LearningRate = 0.1
//
//	res, err := nn.TrainStep(input, target, weights, biases, cfg, nn.ActivationReLU, nil)
//	if err != nil {
//		return err
//	}
//	params = nn.ArraysToParameters(res.Weights, res.Biases, params)
package nn
