package nn

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	// DefaultGradientClipMax is the global gradient norm above which gradients are rescaled.
	DefaultGradientClipMax = 5.0

	// DefaultMomentumBeta is the velocity decay used when momentum is enabled.
	DefaultMomentumBeta = 0.9
)

// UpdateConfig controls a single parameter update.
// Zero values of GradientClipMax and MomentumBeta select the defaults.
type UpdateConfig struct {
	LearningRate    float64 `json:"learning_rate"`
	GradientClipMax float64 `json:"gradient_clip_max,omitempty"` // Max global gradient norm (0 = DefaultGradientClipMax)
	UseMomentum     bool    `json:"use_momentum,omitempty"`
	MomentumBeta    float64 `json:"momentum_beta,omitempty"` // Velocity decay (0 = DefaultMomentumBeta)
	L2              float64 `json:"l2,omitempty"`            // L2 regularization coefficient (0 = off)
}

// DefaultUpdateConfig returns sensible defaults
func DefaultUpdateConfig() UpdateConfig {
	return UpdateConfig{
		LearningRate:    0.01,
		GradientClipMax: DefaultGradientClipMax,
		UseMomentum:     false,
		MomentumBeta:    DefaultMomentumBeta,
		L2:              0,
	}
}

// withDefaults fills unset optional fields.
func (c UpdateConfig) withDefaults() UpdateConfig {
	if c.GradientClipMax == 0 {
		c.GradientClipMax = DefaultGradientClipMax
	}
	if c.MomentumBeta == 0 {
		c.MomentumBeta = DefaultMomentumBeta
	}
	return c
}

// Validate reports whether the configuration can be used for an update.
// A zero MomentumBeta or GradientClipMax is accepted and means the default.
func (c UpdateConfig) Validate() error {
	switch {
	case math.IsNaN(c.LearningRate) || c.LearningRate < 0:
		return fmt.Errorf("learning rate %v: %w", c.LearningRate, ErrInvalidConfig)
	case math.IsNaN(c.GradientClipMax) || c.GradientClipMax < 0:
		return fmt.Errorf("gradient clip max %v: %w", c.GradientClipMax, ErrInvalidConfig)
	case math.IsNaN(c.MomentumBeta) || c.MomentumBeta < 0 || c.MomentumBeta >= 1:
		return fmt.Errorf("momentum beta %v must be in (0, 1), or 0 for the default: %w", c.MomentumBeta, ErrInvalidConfig)
	case math.IsNaN(c.L2) || c.L2 < 0:
		return fmt.Errorf("l2 coefficient %v: %w", c.L2, ErrInvalidConfig)
	}
	return nil
}

// UpdateResult holds freshly allocated parameters after one update.
type UpdateResult struct {
	Weights      []Matrix
	Biases       []Vector
	Momentum     *MomentumState
	GradientNorm float64 // global norm before clipping
}

// GradientNorm returns the L2 norm over all weight and bias gradients combined.
func GradientNorm(grads *GradientSet) float64 {
	if grads == nil {
		return 0
	}
	flat := make([]float64, 0, gradientCount(grads))
	for _, w := range grads.Weights {
		for _, row := range w {
			flat = append(flat, row...)
		}
	}
	for _, b := range grads.Biases {
		flat = append(flat, b...)
	}
	if len(flat) == 0 {
		return 0
	}
	return floats.Norm(flat, 2)
}

func gradientCount(grads *GradientSet) int {
	n := 0
	for _, w := range grads.Weights {
		for _, row := range w {
			n += len(row)
		}
	}
	for _, b := range grads.Biases {
		n += len(b)
	}
	return n
}

// UpdateWeights applies gradients to weights and biases.
//
// The global gradient norm is clipped to cfg.GradientClipMax by rescaling every
// gradient by the same factor. With momentum, v = beta*v + g and the step is
// lr*v; a nil momentum state starts from zero velocity. Without momentum the
// step is lr*g. The supplied arrays are never modified.
//
// When momentum is disabled, a supplied momentum state is returned as an
// untouched copy so callers can keep threading it.
func UpdateWeights(weights []Matrix, biases []Vector, grads *GradientSet, cfg UpdateConfig, momentum *MomentumState) (*UpdateResult, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	shapes, err := networkShape("update", weights, biases)
	if err != nil {
		return nil, err
	}
	if grads == nil {
		return nil, dimErr("update", "gradient layer count", -1, 0, len(shapes))
	}
	if err := matchShape("update", "gradient", shapes, grads.Weights, grads.Biases); err != nil {
		return nil, err
	}
	if cfg.UseMomentum && momentum != nil {
		if err := matchShape("update", "momentum", shapes, momentum.Weights, momentum.Biases); err != nil {
			return nil, err
		}
	}

	norm := GradientNorm(grads)
	clipped := clipGradients(grads, norm, cfg.GradientClipMax)

	result := &UpdateResult{GradientNorm: norm}

	if !cfg.UseMomentum {
		result.Weights, result.Biases = stepSimple(weights, biases, clipped, cfg.LearningRate)
		result.Momentum = momentum.Clone()
		return result, nil
	}

	velocity := momentum.Clone()
	if velocity == nil {
		velocity = &MomentumState{}
		velocity.Weights, velocity.Biases = zerosLike(weights, biases)
	}
	result.Weights, result.Biases = stepWithMomentum(weights, biases, clipped, velocity, cfg.LearningRate, cfg.MomentumBeta)
	result.Momentum = velocity
	return result, nil
}

// clipGradients returns a copy of grads rescaled so that its global norm is at most maxNorm.
func clipGradients(grads *GradientSet, norm, maxNorm float64) *GradientSet {
	clipped := &GradientSet{
		Weights: cloneMatrices(grads.Weights),
		Biases:  cloneVectors(grads.Biases),
	}
	if norm <= maxNorm {
		return clipped
	}

	scale := maxNorm / norm
	for _, w := range clipped.Weights {
		for _, row := range w {
			floats.Scale(scale, row)
		}
	}
	for _, b := range clipped.Biases {
		floats.Scale(scale, b)
	}
	return clipped
}

func stepSimple(weights []Matrix, biases []Vector, grads *GradientSet, learningRate float64) ([]Matrix, []Vector) {
	// w = w - lr * grad
	newW := make([]Matrix, len(weights))
	newB := make([]Vector, len(biases))
	for l := range weights {
		newW[l] = make(Matrix, len(weights[l]))
		for i, row := range weights[l] {
			newW[l][i] = make([]float64, len(row))
			for j, w := range row {
				newW[l][i][j] = w - learningRate*grads.Weights[l][i][j]
			}
		}
		newB[l] = make(Vector, len(biases[l]))
		for i, b := range biases[l] {
			newB[l][i] = b - learningRate*grads.Biases[l][i]
		}
	}
	return newW, newB
}

// stepWithMomentum updates velocity in place; velocity must be owned by the caller of this function.
func stepWithMomentum(weights []Matrix, biases []Vector, grads *GradientSet, velocity *MomentumState, learningRate, beta float64) ([]Matrix, []Vector) {
	// v = beta * v + grad
	// w = w - lr * v
	newW := make([]Matrix, len(weights))
	newB := make([]Vector, len(biases))
	for l := range weights {
		newW[l] = make(Matrix, len(weights[l]))
		for i, row := range weights[l] {
			newW[l][i] = make([]float64, len(row))
			v := velocity.Weights[l][i]
			for j, w := range row {
				v[j] = beta*v[j] + grads.Weights[l][i][j]
				newW[l][i][j] = w - learningRate*v[j]
			}
		}
		newB[l] = make(Vector, len(biases[l]))
		v := velocity.Biases[l]
		for i, b := range biases[l] {
			v[i] = beta*v[i] + grads.Biases[l][i]
			newB[l][i] = b - learningRate*v[i]
		}
	}
	return newW, newB
}
