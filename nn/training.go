package nn

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
)

// StepResult is the outcome of training on a single example.
type StepResult struct {
	Weights      []Matrix
	Biases       []Vector
	Loss         float64
	Momentum     *MomentumState
	GradientNorm float64
}

// BatchResult is the outcome of training on a list of examples.
type BatchResult struct {
	Weights             []Matrix
	Biases              []Vector
	AverageLoss         float64
	Momentum            *MomentumState
	AverageGradientNorm float64
}

// MSELoss computes Mean Squared Error loss
// It returns NaN when output and target differ in length.
func MSELoss(output, target Vector) float64 {
	if len(output) != len(target) {
		return math.NaN()
	}
	if len(output) == 0 {
		return 0
	}
	diff := make([]float64, len(output))
	floats.SubTo(diff, output, target)
	return floats.Dot(diff, diff) / float64(len(output))
}

// L2Penalty returns (l2/2) * sum of all squared weights. Biases are excluded.
func L2Penalty(weights []Matrix, l2 float64) float64 {
	if l2 <= 0 {
		return 0
	}
	sum := 0.0
	for _, w := range weights {
		for _, row := range w {
			sum += floats.Dot(row, row)
		}
	}
	return l2 / 2 * sum
}

// TrainStep runs forward, loss, backward, and update for one example.
// The returned loss is measured with the weights before the update.
func TrainStep(input, target Vector, weights []Matrix, biases []Vector, cfg UpdateConfig, activation ActivationType, momentum *MomentumState) (*StepResult, error) {
	fwd, err := Forward(input, weights, biases, activation)
	if err != nil {
		return nil, err
	}
	if len(target) != len(fwd.Output) {
		return nil, dimErr("train step", "target", len(weights)-1, len(target), len(fwd.Output))
	}

	loss := MSELoss(fwd.Output, target) + L2Penalty(weights, cfg.L2)

	grads, err := Backward(input, target, fwd, weights, biases, activation, cfg.L2)
	if err != nil {
		return nil, err
	}

	upd, err := UpdateWeights(weights, biases, grads, cfg, momentum)
	if err != nil {
		return nil, err
	}

	return &StepResult{
		Weights:      upd.Weights,
		Biases:       upd.Biases,
		Loss:         loss,
		Momentum:     upd.Momentum,
		GradientNorm: upd.GradientNorm,
	}, nil
}

// TrainBatch trains on each example in order, feeding the weights, biases, and
// momentum produced by one example into the next. Gradients are not averaged;
// this is online gradient descent over the batch. The reported loss and
// gradient norm are the means over all examples.
func TrainBatch(inputs, targets []Vector, weights []Matrix, biases []Vector, cfg UpdateConfig, activation ActivationType, momentum *MomentumState) (*BatchResult, error) {
	return trainBatch(inputs, targets, weights, biases, cfg, activation, momentum, nil, 0)
}

func trainBatch(inputs, targets []Vector, weights []Matrix, biases []Vector, cfg UpdateConfig, activation ActivationType, momentum *MomentumState, observer TrainingObserver, epoch int) (*BatchResult, error) {
	if len(inputs) != len(targets) {
		return nil, dimErr("train batch", "targets", -1, len(targets), len(inputs))
	}
	if len(inputs) == 0 {
		return nil, ErrEmptyBatch
	}

	losses := make([]float64, len(inputs))
	norms := make([]float64, len(inputs))

	clipMax := cfg.withDefaults().GradientClipMax
	curW, curB, curM := weights, biases, momentum
	for i := range inputs {
		res, err := TrainStep(inputs[i], targets[i], curW, curB, cfg, activation, curM)
		if err != nil {
			return nil, fmt.Errorf("example %d: %w", i, err)
		}
		curW, curB, curM = res.Weights, res.Biases, res.Momentum
		losses[i] = res.Loss
		norms[i] = res.GradientNorm

		if observer != nil {
			observer.OnStep(StepEvent{
				Epoch:        epoch,
				Example:      i,
				Loss:         res.Loss,
				GradientNorm: res.GradientNorm,
				Clipped:      res.GradientNorm > clipMax,
				LearningRate: cfg.LearningRate,
			})
		}
	}

	return &BatchResult{
		Weights:             curW,
		Biases:              curB,
		AverageLoss:         Mean(losses),
		Momentum:            curM,
		AverageGradientNorm: Mean(norms),
	}, nil
}

// =============================================================================
// Epoch training
// =============================================================================

// TrainingConfig holds configuration for multi-epoch training
type TrainingConfig struct {
	Epochs     int              `json:"epochs"`
	Update     UpdateConfig     `json:"update"`
	Activation ActivationType   `json:"activation"`
	Scheduler  LRScheduler      `json:"-"` // Learning rate per epoch (nil = Update.LearningRate)
	Observer   TrainingObserver `json:"-"`
	Verbose    bool             `json:"verbose"`
}

// TrainingResult contains training statistics
type TrainingResult struct {
	Parameters  ParameterSet
	Momentum    *MomentumState
	FinalLoss   float64
	BestLoss    float64
	TotalTime   time.Duration
	LossHistory []float64 // average loss per epoch
	LRHistory   []float64 // learning rate per epoch
}

// DefaultTrainingConfig returns sensible defaults
func DefaultTrainingConfig() *TrainingConfig {
	return &TrainingConfig{
		Epochs:     10,
		Update:     DefaultUpdateConfig(),
		Activation: ActivationReLU,
		Verbose:    false,
	}
}

// TrainEpochs runs TrainBatch over the same examples for config.Epochs epochs,
// threading parameters and momentum from one epoch to the next. The caller's
// params and momentum are not modified.
func TrainEpochs(params ParameterSet, inputs, targets []Vector, momentum *MomentumState, config *TrainingConfig) (*TrainingResult, error) {
	if config == nil {
		config = DefaultTrainingConfig()
	}
	if config.Epochs <= 0 {
		return nil, fmt.Errorf("epochs %d: %w", config.Epochs, ErrInvalidConfig)
	}
	if !config.Activation.Valid() {
		return nil, fmt.Errorf("activation %s: %w", config.Activation, ErrInvalidConfig)
	}

	result := &TrainingResult{
		BestLoss:    math.MaxFloat64,
		LossHistory: make([]float64, 0, config.Epochs),
		LRHistory:   make([]float64, 0, config.Epochs),
	}

	if config.Verbose {
		fmt.Printf("\n=== Training Configuration ===\n")
		fmt.Printf("Epochs: %d\n", config.Epochs)
		fmt.Printf("Learning Rate: %.6f\n", config.Update.LearningRate)
		if config.Scheduler != nil {
			fmt.Printf("Scheduler: %s\n", config.Scheduler.Name())
		}
		fmt.Printf("Examples per Epoch: %d\n", len(inputs))
		fmt.Printf("Activation: %s\n", config.Activation)
		fmt.Printf("Momentum: %v\n", config.Update.UseMomentum)
		fmt.Println()
	}

	start := time.Now()
	weights, biases := ParametersToArrays(params)
	curM := momentum

	for epoch := 0; epoch < config.Epochs; epoch++ {
		cfg := config.Update
		if config.Scheduler != nil {
			cfg.LearningRate = config.Scheduler.GetLR(epoch)
		}

		res, err := trainBatch(inputs, targets, weights, biases, cfg, config.Activation, curM, config.Observer, epoch)
		if err != nil {
			return nil, fmt.Errorf("epoch %d: %w", epoch+1, err)
		}
		weights, biases, curM = res.Weights, res.Biases, res.Momentum

		result.LossHistory = append(result.LossHistory, res.AverageLoss)
		result.LRHistory = append(result.LRHistory, cfg.LearningRate)
		if res.AverageLoss < result.BestLoss {
			result.BestLoss = res.AverageLoss
		}
		if config.Observer != nil {
			config.Observer.OnEpoch(EpochEvent{
				Epoch:               epoch,
				AverageLoss:         res.AverageLoss,
				AverageGradientNorm: res.AverageGradientNorm,
				LearningRate:        cfg.LearningRate,
			})
		}

		if config.Verbose {
			fmt.Printf("  Epoch %d/%d - Loss: %.6f - Grad norm: %.4f - LR: %.6f\n",
				epoch+1, config.Epochs, res.AverageLoss, res.AverageGradientNorm, cfg.LearningRate)
		}
	}

	result.Parameters = ArraysToParameters(weights, biases, params)
	result.Momentum = curM
	result.FinalLoss = result.LossHistory[len(result.LossHistory)-1]
	result.TotalTime = time.Since(start)

	if config.Verbose {
		fmt.Printf("\nTraining finished in %v - final loss %.6f, best loss %.6f\n",
			result.TotalTime, result.FinalLoss, result.BestLoss)
	}
	return result, nil
}
