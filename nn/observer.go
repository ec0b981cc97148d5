package nn

import (
	"fmt"
)

// StepEvent describes one TrainStep inside TrainEpochs.
type StepEvent struct {
	Epoch        int     `json:"epoch"`
	Example      int     `json:"example"`
	Loss         float64 `json:"loss"`
	GradientNorm float64 `json:"gradient_norm"`
	Clipped      bool    `json:"clipped"`
	LearningRate float64 `json:"learning_rate"`
}

// EpochEvent summarises one epoch of TrainEpochs.
type EpochEvent struct {
	Epoch               int     `json:"epoch"`
	AverageLoss         float64 `json:"average_loss"`
	AverageGradientNorm float64 `json:"average_gradient_norm"`
	LearningRate        float64 `json:"learning_rate"`
}

// TrainingObserver receives training events synchronously on the training goroutine.
type TrainingObserver interface {
	OnStep(event StepEvent)
	OnEpoch(event EpochEvent)
}

// =============================================================================
// Example Observer Implementations
// =============================================================================

// ConsoleObserver prints training events to stdout
type ConsoleObserver struct {
	Verbose bool // If true, print every step, not only epoch summaries
}

func (o *ConsoleObserver) OnStep(event StepEvent) {
	if !o.Verbose {
		return
	}
	clip := ""
	if event.Clipped {
		clip = " (clipped)"
	}
	fmt.Printf("[STEP] epoch %d example %d: loss=%.6f grad_norm=%.4f%s\n",
		event.Epoch+1, event.Example, event.Loss, event.GradientNorm, clip)
}

func (o *ConsoleObserver) OnEpoch(event EpochEvent) {
	fmt.Printf("[EPOCH] %d: avg_loss=%.6f avg_grad_norm=%.4f lr=%.6f\n",
		event.Epoch+1, event.AverageLoss, event.AverageGradientNorm, event.LearningRate)
}

// ChannelObserver sends events to Go channels (for internal processing)
type ChannelObserver struct {
	Steps  chan StepEvent
	Epochs chan EpochEvent
}

func NewChannelObserver(bufferSize int) *ChannelObserver {
	return &ChannelObserver{
		Steps:  make(chan StepEvent, bufferSize),
		Epochs: make(chan EpochEvent, bufferSize),
	}
}

func (o *ChannelObserver) OnStep(event StepEvent) {
	select {
	case o.Steps <- event:
	default:
		// Channel full, drop event to avoid blocking
	}
}

func (o *ChannelObserver) OnEpoch(event EpochEvent) {
	select {
	case o.Epochs <- event:
	default:
		// Channel full, drop event to avoid blocking
	}
}
