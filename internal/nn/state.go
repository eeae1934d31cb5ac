package nn

import (
	"fmt"
)

// State is a self-contained snapshot of a network's structure and parameters.
//
// Biases[l][j] is the bias of neuron j of layer l. Weights[l][j] holds the input weights of
// neuron j of layer l, one per neuron of layer l-1; Weights[0] rows are empty. A nil
// Activations slice means Sigmoid for every layer.
type State struct {
	Sizes       []int
	Activations []ActivationKind
	Biases      [][]float32
	Weights     [][][]float32
}

// State returns a deep copy of the network's structure and parameters.
func (net *Network) State() State {
	s := State{
		Sizes:       net.Sizes(),
		Activations: net.Activations(),
		Biases:      make([][]float32, len(net.layers)),
		Weights:     make([][][]float32, len(net.layers)),
	}
	for li := range net.layers {
		neurons := net.layers[li].neurons
		s.Biases[li] = make([]float32, len(neurons))
		s.Weights[li] = make([][]float32, len(neurons))
		for j := range neurons {
			s.Biases[li][j] = neurons[j].Bias
			s.Weights[li][j] = append([]float32{}, neurons[j].weights...)
		}
	}
	return s
}

// Validate checks that the snapshot describes a well-formed fully connected network.
func (s *State) Validate() error {
	if err := validateSizes(s.Sizes); err != nil {
		return err
	}
	if s.Activations != nil && len(s.Activations) != len(s.Sizes) {
		return fmt.Errorf("%d activations for %d layers: %w", len(s.Activations), len(s.Sizes), ErrInvalidState)
	}
	for _, k := range s.Activations {
		if err := k.Validate(); err != nil {
			return err
		}
	}
	if len(s.Biases) != len(s.Sizes) || len(s.Weights) != len(s.Sizes) {
		return fmt.Errorf("parameters for %d/%d layers, want %d: %w",
			len(s.Biases), len(s.Weights), len(s.Sizes), ErrInvalidState)
	}

	for li, size := range s.Sizes {
		if len(s.Biases[li]) != size {
			return fmt.Errorf("layer %d: %d biases, want %d: %w", li, len(s.Biases[li]), size, ErrInvalidState)
		}
		if li == 0 {
			for j, w := range s.Weights[0] {
				if len(w) != 0 {
					return fmt.Errorf("input neuron %d has %d weights: %w", j, len(w), ErrInvalidState)
				}
			}
			continue
		}
		if len(s.Weights[li]) != size {
			return fmt.Errorf("layer %d: %d weight rows, want %d: %w", li, len(s.Weights[li]), size, ErrInvalidState)
		}
		for j, w := range s.Weights[li] {
			if len(w) != s.Sizes[li-1] {
				return fmt.Errorf("layer %d neuron %d: %d weights, want %d: %w",
					li, j, len(w), s.Sizes[li-1], ErrInvalidState)
			}
		}
	}
	return nil
}

// FromState rebuilds a network from a snapshot without any randomization.
// The snapshot is copied; later changes to s do not affect the network.
func FromState(s State) (*Network, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	acts := s.Activations
	if acts == nil {
		acts = make([]ActivationKind, len(s.Sizes))
	}

	net := allocate(s.Sizes, acts)
	for li := range net.layers {
		for j := range net.layers[li].neurons {
			n := &net.layers[li].neurons[j]
			n.Bias = s.Biases[li][j]
			if li > 0 {
				n.connect(s.Sizes[li-1], append([]float32{}, s.Weights[li][j]...))
			}
		}
	}
	return net, nil
}
