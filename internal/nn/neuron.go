package nn

// Neuron is the smallest unit of a layer.
//
// For a neuron in layer l > 0, Inputs lists the indices of the neurons of layer l-1 it
// reads from and Weights holds one weight per input index, in the same order. Input-layer
// neurons have no inputs; their Bias holds the raw sample component injected by SetInput.
type Neuron struct {
	Activation     float32 // a = f(z)
	WeightedOutput float32 // z = bias + Σ w·z_prev
	Error          float32 // δ = ∂C/∂z
	Bias           float32

	inputs  []int
	weights []float32
}

// SetInput overwrites the bias with a raw input value.
func (n *Neuron) SetInput(v float32) {
	n.Bias = v
}

// Inputs returns the input-source indices. The slice aliases the neuron's storage.
func (n *Neuron) Inputs() []int {
	return n.inputs
}

// Weights returns the input weights. The slice aliases the neuron's storage,
// so callers may adjust weights in place.
func (n *Neuron) Weights() []float32 {
	return n.weights
}

// connect assigns a fully connected input list [0, prevSize) with the given weights.
func (n *Neuron) connect(prevSize int, weights []float32) {
	n.inputs = make([]int, prevSize)
	for i := range n.inputs {
		n.inputs[i] = i
	}
	n.weights = weights
}
