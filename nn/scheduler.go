package nn

import (
	"fmt"
	"math"
)

// LRScheduler interface defines learning rate scheduling strategies.
// TrainEpochs asks for one learning rate per epoch.
type LRScheduler interface {
	// GetLR returns the learning rate for the given epoch
	GetLR(epoch int) float64

	// Name returns the scheduler name
	Name() string
}

// ============================================================================
// Constant Scheduler - Fixed learning rate
// ============================================================================

// ConstantScheduler returns the same learning rate every epoch.
type ConstantScheduler struct {
	baseLR float64
}

// NewConstantScheduler creates a scheduler fixed at baseLR.
func NewConstantScheduler(baseLR float64) *ConstantScheduler {
	return &ConstantScheduler{baseLR: baseLR}
}

func (s *ConstantScheduler) GetLR(epoch int) float64 {
	return s.baseLR
}

func (s *ConstantScheduler) Name() string {
	return "Constant"
}

// ============================================================================
// Linear Decay Scheduler - Linear decay from initial to final LR
// ============================================================================

// LinearDecayScheduler interpolates linearly from initialLR to finalLR over totalEpochs.
type LinearDecayScheduler struct {
	initialLR   float64
	finalLR     float64
	totalEpochs int
}

// NewLinearDecayScheduler creates a linear decay from initialLR to finalLR.
func NewLinearDecayScheduler(initialLR, finalLR float64, totalEpochs int) *LinearDecayScheduler {
	return &LinearDecayScheduler{
		initialLR:   initialLR,
		finalLR:     finalLR,
		totalEpochs: totalEpochs,
	}
}

func (s *LinearDecayScheduler) GetLR(epoch int) float64 {
	if epoch >= s.totalEpochs {
		return s.finalLR
	}
	progress := float64(epoch) / float64(s.totalEpochs)
	return s.initialLR + (s.finalLR-s.initialLR)*progress
}

func (s *LinearDecayScheduler) Name() string {
	return "LinearDecay"
}

// ============================================================================
// Cosine Annealing Scheduler
// ============================================================================

// CosineAnnealingScheduler follows half a cosine from initialLR down to minLR.
type CosineAnnealingScheduler struct {
	initialLR   float64
	minLR       float64
	totalEpochs int
}

// NewCosineAnnealingScheduler creates a cosine decay over totalEpochs.
func NewCosineAnnealingScheduler(initialLR, minLR float64, totalEpochs int) *CosineAnnealingScheduler {
	return &CosineAnnealingScheduler{
		initialLR:   initialLR,
		minLR:       minLR,
		totalEpochs: totalEpochs,
	}
}

func (s *CosineAnnealingScheduler) GetLR(epoch int) float64 {
	if epoch >= s.totalEpochs {
		return s.minLR
	}
	progress := float64(epoch) / float64(s.totalEpochs)
	// lr = minLR + (initialLR - minLR) * (1 + cos(pi * progress)) / 2
	cosineDecay := (1.0 + math.Cos(math.Pi*progress)) / 2.0
	return s.minLR + (s.initialLR-s.minLR)*cosineDecay
}

func (s *CosineAnnealingScheduler) Name() string {
	return "CosineAnnealing"
}

// ============================================================================
// Exponential Decay Scheduler
// ============================================================================

// ExponentialDecayScheduler computes initialLR * decayRate^(epoch/decayEpochs).
type ExponentialDecayScheduler struct {
	initialLR   float64
	decayRate   float64
	decayEpochs int
}

// NewExponentialDecayScheduler creates an exponential decay. decayEpochs <= 0 is treated as 1.
func NewExponentialDecayScheduler(initialLR, decayRate float64, decayEpochs int) *ExponentialDecayScheduler {
	if decayEpochs <= 0 {
		decayEpochs = 1
	}
	return &ExponentialDecayScheduler{
		initialLR:   initialLR,
		decayRate:   decayRate,
		decayEpochs: decayEpochs,
	}
}

func (s *ExponentialDecayScheduler) GetLR(epoch int) float64 {
	// lr = initialLR * decayRate^(epoch / decayEpochs)
	exponent := float64(epoch) / float64(s.decayEpochs)
	return s.initialLR * math.Pow(s.decayRate, exponent)
}

func (s *ExponentialDecayScheduler) Name() string {
	return "ExponentialDecay"
}

// ============================================================================
// Warmup Scheduler - Linear warmup followed by another scheduler
// ============================================================================

// WarmupScheduler ramps linearly from warmupLR to baseLR, then defers to another scheduler.
type WarmupScheduler struct {
	warmupEpochs   int
	warmupLR       float64
	baseLR         float64
	afterScheduler LRScheduler
}

// NewWarmupScheduler creates a warmup phase followed by afterScheduler (nil = constant baseLR).
func NewWarmupScheduler(warmupEpochs int, warmupLR, baseLR float64, afterScheduler LRScheduler) *WarmupScheduler {
	return &WarmupScheduler{
		warmupEpochs:   warmupEpochs,
		warmupLR:       warmupLR,
		baseLR:         baseLR,
		afterScheduler: afterScheduler,
	}
}

func (s *WarmupScheduler) GetLR(epoch int) float64 {
	if epoch < s.warmupEpochs {
		progress := float64(epoch) / float64(s.warmupEpochs)
		return s.warmupLR + (s.baseLR-s.warmupLR)*progress
	}
	if s.afterScheduler != nil {
		return s.afterScheduler.GetLR(epoch - s.warmupEpochs)
	}
	return s.baseLR
}

func (s *WarmupScheduler) Name() string {
	if s.afterScheduler != nil {
		return fmt.Sprintf("Warmup+%s", s.afterScheduler.Name())
	}
	return "Warmup"
}

// ============================================================================
// Step Decay Scheduler
// ============================================================================

// StepDecayScheduler multiplies the rate by decayFactor every stepSize epochs.
type StepDecayScheduler struct {
	initialLR   float64
	decayFactor float64
	stepSize    int
}

// NewStepDecayScheduler creates a step decay. stepSize <= 0 is treated as 1.
func NewStepDecayScheduler(initialLR, decayFactor float64, stepSize int) *StepDecayScheduler {
	if stepSize <= 0 {
		stepSize = 1
	}
	return &StepDecayScheduler{
		initialLR:   initialLR,
		decayFactor: decayFactor,
		stepSize:    stepSize,
	}
}

func (s *StepDecayScheduler) GetLR(epoch int) float64 {
	numDecays := epoch / s.stepSize
	return s.initialLR * math.Pow(s.decayFactor, float64(numDecays))
}

func (s *StepDecayScheduler) Name() string {
	return "StepDecay"
}
