package nn

import (
	"fmt"
	"math"
	"strings"
)

// Activate applies the activation function to a pre-activation value.
func Activate(z float64, activation ActivationType) float64 {
	switch activation {
	case ActivationReLU:
		if z < 0 {
			return 0
		}
		return z
	case ActivationSigmoid:
		return 1.0 / (1.0 + math.Exp(-z))
	case ActivationTanh:
		return math.Tanh(z)
	case ActivationLeakyReLU:
		if z < 0 {
			return z * 0.01
		}
		return z
	case ActivationSoftplus:
		// log1p(exp(z)) overflows for large z; softplus(z) ~ z there
		if z > 30 {
			return z
		}
		return math.Log1p(math.Exp(z))
	default:
		return z
	}
}

// ActivateDerivative computes the derivative of the activation function
// Note: This computes the derivative with respect to the PRE-activation value
func ActivateDerivative(z float64, activation ActivationType) float64 {
	switch activation {
	case ActivationReLU:
		// d/dz max(0, z) = 1 if z > 0, else 0
		if z > 0 {
			return 1
		}
		return 0
	case ActivationSigmoid:
		sig := 1.0 / (1.0 + math.Exp(-z))
		return sig * (1.0 - sig)
	case ActivationTanh:
		t := math.Tanh(z)
		return 1.0 - t*t
	case ActivationLeakyReLU:
		if z >= 0 {
			return 1
		}
		return 0.01
	case ActivationSoftplus:
		// d/dz log(1 + e^z) = sigmoid(z)
		return 1.0 / (1.0 + math.Exp(-z))
	default:
		return 1
	}
}

var activationNames = map[ActivationType]string{
	ActivationReLU:      "relu",
	ActivationSigmoid:   "sigmoid",
	ActivationTanh:      "tanh",
	ActivationLeakyReLU: "leaky_relu",
	ActivationSoftplus:  "softplus",
	ActivationLinear:    "linear",
}

// String returns the lowercase name of the activation.
func (a ActivationType) String() string {
	if name, ok := activationNames[a]; ok {
		return name
	}
	return fmt.Sprintf("activation(%d)", int(a))
}

// Valid reports whether a is one of the known activations.
func (a ActivationType) Valid() bool {
	_, ok := activationNames[a]
	return ok
}

// ParseActivation converts a name such as "relu" or "Sigmoid" to an ActivationType.
func ParseActivation(name string) (ActivationType, error) {
	lower := strings.ToLower(strings.TrimSpace(name))
	for a, n := range activationNames {
		if n == lower {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown activation %q: %w", name, ErrInvalidConfig)
}

// MarshalText encodes a as its name, e.g. "relu".
func (a ActivationType) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("cannot marshal %s: %w", a, ErrInvalidConfig)
	}
	return []byte(a.String()), nil
}

// UnmarshalText decodes a name accepted by ParseActivation.
func (a *ActivationType) UnmarshalText(text []byte) error {
	parsed, err := ParseActivation(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
