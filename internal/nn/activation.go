package nn

import (
	"fmt"
	"strings"

	"github.com/chewxy/math32"
)

// ActivationKind selects the nonlinearity applied uniformly to every neuron of a layer.
//
// The set is closed: Sigmoid and ReLU are the only supported functions. Values outside
// the set are rejected by Validate and ParseActivation with ErrUnsupportedFunction.
type ActivationKind uint8

// Supported activation functions.
const (
	Sigmoid ActivationKind = iota // σ(z) = 1 / (1 + exp(-z)), range (0, 1)
	ReLU                          // max(0, z), range [0, +inf)
)

// Apply computes the activation a = f(z).
func (k ActivationKind) Apply(z float32) float32 {
	switch k {
	case ReLU:
		if z < 0 {
			return 0
		}
		return z
	default:
		return sigmoid(z)
	}
}

// Derivative computes f'(z) at the weighted output z.
//
// Sigmoid: σ(z)(1-σ(z)). ReLU: 1 for z > 0, otherwise 0.
func (k ActivationKind) Derivative(z float32) float32 {
	switch k {
	case ReLU:
		if z > 0 {
			return 1
		}
		return 0
	default:
		s := sigmoid(z)
		return s * (1 - s)
	}
}

// Validate returns ErrUnsupportedFunction for values outside the closed set.
func (k ActivationKind) Validate() error {
	switch k {
	case Sigmoid, ReLU:
		return nil
	default:
		return fmt.Errorf("activation %d: %w", uint8(k), ErrUnsupportedFunction)
	}
}

// String returns the configuration name of the activation.
func (k ActivationKind) String() string {
	switch k {
	case Sigmoid:
		return "sigmoid"
	case ReLU:
		return "relu"
	default:
		return fmt.Sprintf("ActivationKind(%d)", uint8(k))
	}
}

// ParseActivation resolves a configuration name ("sigmoid", "relu") to its kind.
func ParseActivation(name string) (ActivationKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sigmoid", "logistic":
		return Sigmoid, nil
	case "relu":
		return ReLU, nil
	default:
		return 0, fmt.Errorf("activation %q: %w", name, ErrUnsupportedFunction)
	}
}

func sigmoid(z float32) float32 {
	return 1 / (1 + math32.Exp(-z))
}
