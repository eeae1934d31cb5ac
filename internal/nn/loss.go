package nn

import (
	"fmt"
	"strings"
)

// CostKind selects the cost function used to seed the output-layer error in BackProp.
type CostKind uint8

// Supported cost functions.
const (
	// MSE is the quadratic cost C = ½(y-a)², with ∂C/∂a = a-y.
	MSE CostKind = iota
)

// Value computes the cost contribution of one output neuron.
func (k CostKind) Value(a, y float32) float32 {
	d := y - a
	return 0.5 * d * d
}

// Derivative computes ∂C/∂a for one output neuron.
func (k CostKind) Derivative(a, y float32) float32 {
	return a - y
}

// Validate returns ErrUnsupportedFunction for values outside the closed set.
func (k CostKind) Validate() error {
	if k != MSE {
		return fmt.Errorf("cost %d: %w", uint8(k), ErrUnsupportedFunction)
	}
	return nil
}

// String returns the configuration name of the cost function.
func (k CostKind) String() string {
	if k == MSE {
		return "mse"
	}
	return fmt.Sprintf("CostKind(%d)", uint8(k))
}

// ParseCost resolves a configuration name ("mse", "quadratic") to its kind.
func ParseCost(name string) (CostKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mse", "quadratic":
		return MSE, nil
	default:
		return 0, fmt.Errorf("cost %q: %w", name, ErrUnsupportedFunction)
	}
}
