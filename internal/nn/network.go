// Package nn implements a fully connected feed-forward network of sigmoid or ReLU neurons
// trained one sample at a time by backpropagation.
//
// A Network owns its layers in order. Layers find their neighbours through the network by
// index, so the chain can be walked in both directions without owning references.
package nn

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
)

// DefaultSeed seeds weight initialization when no seed or source is given.
const DefaultSeed uint64 = 1

// Network is a fully connected feed-forward network.
//
// The network owns its layers in a single ordered sequence; the first layer is the input
// boundary and the last layer is the output boundary read by classification. Layers are
// allocated once and never resized, so *Layer values returned by Input, Output and Layer
// stay valid for the lifetime of the network.
//
// A Network is not safe for concurrent use.
type Network struct {
	layers []Layer
}

// Option configures New.
type Option func(*options)

type options struct {
	src         rand.Source
	init        Initializer
	activation  ActivationKind
	activations []ActivationKind
}

// WithSeed makes initialization reproducible by seeding a fresh random source.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.src = rand.NewSource(seed)
	}
}

// WithSource draws initial weights and biases from src.
func WithSource(src rand.Source) Option {
	return func(o *options) {
		o.src = src
	}
}

// WithInitializer replaces the standard normal initializer.
func WithInitializer(init Initializer) Option {
	return func(o *options) {
		o.init = init
	}
}

// WithActivation selects the activation of every layer (default Sigmoid).
func WithActivation(k ActivationKind) Option {
	return func(o *options) {
		o.activation = k
	}
}

// WithLayerActivations selects one activation per layer, input layer first.
// The number of kinds must match the number of layers.
func WithLayerActivations(kinds ...ActivationKind) Option {
	return func(o *options) {
		o.activations = kinds
	}
}

// New creates a randomly initialized network with the given layer sizes, input layer first.
//
// Every neuron of layer l > 0 is connected to all neurons of layer l-1. Its weights and
// its bias are drawn independently from the initializer (standard normal by default).
//
// Example:
//
//	net, err := nn.New([]int{784, 30, 10}, nn.WithSeed(42))
//	if err != nil {
//	    return err
//	}
//	err = net.Input().FeedForward(image)
//	label := net.Output().ArgMax()
func New(sizes []int, opts ...Option) (*Network, error) {
	o := options{activation: Sigmoid}
	for _, opt := range opts {
		opt(&o)
	}
	if o.src == nil {
		o.src = rand.NewSource(DefaultSeed)
	}
	if o.init == nil {
		o.init = NormalInitializer(o.src)
	}

	acts, err := layerActivations(len(sizes), o)
	if err != nil {
		return nil, err
	}
	if err := validateSizes(sizes); err != nil {
		return nil, err
	}

	net := allocate(sizes, acts)
	for li := 1; li < len(net.layers); li++ {
		prevSize := len(net.layers[li-1].neurons)
		for j := range net.layers[li].neurons {
			n := &net.layers[li].neurons[j]
			weights := make([]float32, prevSize)
			n.Bias = o.init(weights)
			n.connect(prevSize, weights)
		}
	}

	return net, nil
}

// allocate creates zeroed layers and wires their positions; shapes are assumed valid.
func allocate(sizes []int, acts []ActivationKind) *Network {
	net := &Network{layers: make([]Layer, len(sizes))}
	for i, size := range sizes {
		net.layers[i] = Layer{
			neurons:    make([]Neuron, size),
			activation: acts[i],
			index:      i,
			net:        net,
		}
	}
	return net
}

func validateSizes(sizes []int) error {
	if len(sizes) == 0 {
		return fmt.Errorf("no layers: %w", ErrInvalidArchitecture)
	}
	for i, size := range sizes {
		if size <= 0 {
			return fmt.Errorf("layer %d has %d neurons: %w", i, size, ErrInvalidArchitecture)
		}
	}
	return nil
}

func layerActivations(n int, o options) ([]ActivationKind, error) {
	if o.activations == nil {
		if err := o.activation.Validate(); err != nil {
			return nil, err
		}
		acts := make([]ActivationKind, n)
		for i := range acts {
			acts[i] = o.activation
		}
		return acts, nil
	}

	if len(o.activations) != n {
		return nil, fmt.Errorf("%d activations for %d layers: %w", len(o.activations), n, ErrInvalidArchitecture)
	}
	for _, k := range o.activations {
		if err := k.Validate(); err != nil {
			return nil, err
		}
	}
	return append([]ActivationKind(nil), o.activations...), nil
}

// NumLayers returns the number of layers, input and output included.
func (net *Network) NumLayers() int {
	return len(net.layers)
}

// Layer returns the i-th layer (0 = input).
func (net *Network) Layer(i int) *Layer {
	return &net.layers[i]
}

// Input returns the input layer.
func (net *Network) Input() *Layer {
	return &net.layers[0]
}

// Output returns the output layer.
func (net *Network) Output() *Layer {
	return &net.layers[len(net.layers)-1]
}

// Sizes returns the neuron count of every layer, input first.
func (net *Network) Sizes() []int {
	sizes := make([]int, len(net.layers))
	for i := range net.layers {
		sizes[i] = len(net.layers[i].neurons)
	}
	return sizes
}

// Activations returns the activation kind of every layer, input first.
func (net *Network) Activations() []ActivationKind {
	acts := make([]ActivationKind, len(net.layers))
	for i := range net.layers {
		acts[i] = net.layers[i].activation
	}
	return acts
}

// NumParameters returns the number of trainable weights and biases.
func (net *Network) NumParameters() int {
	total := 0
	for li := 1; li < len(net.layers); li++ {
		total += len(net.layers[li].neurons) * (len(net.layers[li-1].neurons) + 1)
	}
	return total
}

// Predict runs a forward pass on x and returns the index of the most active output neuron.
func (net *Network) Predict(x []float32) (int, error) {
	if err := net.Input().FeedForward(x); err != nil {
		return -1, err
	}
	return net.Output().ArgMax(), nil
}

// Cost evaluates the cost of the current output activations against the target y.
// It reads the state left by the last FeedForward or BackProp.
func (net *Network) Cost(y []float32, kind CostKind) (float64, error) {
	if err := kind.Validate(); err != nil {
		return 0, err
	}
	out := net.Output()
	if len(y) != len(out.neurons) {
		return 0, &ShapeError{Op: "Cost", Want: len(out.neurons), Got: len(y)}
	}

	terms := make([]float64, len(y))
	for j := range out.neurons {
		terms[j] = float64(kind.Value(out.neurons[j].Activation, y[j]))
	}
	return floats.Sum(terms), nil
}
