package nn

import (
	"fmt"
)

// Layer is an ordered, fixed-size collection of neurons sharing one activation function.
//
// Layers are owned by a Network and refer to their neighbours by position in the
// network's layer sequence, never by direct reference. The input layer has no
// predecessor and the output layer has no successor.
type Layer struct {
	neurons    []Neuron
	activation ActivationKind
	index      int
	net        *Network
}

// Len returns the number of neurons in the layer.
func (l *Layer) Len() int {
	return len(l.neurons)
}

// Index returns the position of the layer in its network (0 = input layer).
func (l *Layer) Index() int {
	return l.index
}

// Activation returns the layer's activation function.
func (l *Layer) Activation() ActivationKind {
	return l.activation
}

// Neuron returns the i-th neuron. The pointer aliases the layer's storage.
func (l *Layer) Neuron(i int) *Neuron {
	return &l.neurons[i]
}

// Neurons returns the layer's neurons. The slice aliases the layer's storage.
func (l *Layer) Neurons() []Neuron {
	return l.neurons
}

// Activations returns a copy of the neurons' current activations.
func (l *Layer) Activations() []float32 {
	out := make([]float32, len(l.neurons))
	for i := range l.neurons {
		out[i] = l.neurons[i].Activation
	}
	return out
}

// IsInput reports whether the layer has no predecessor.
func (l *Layer) IsInput() bool {
	return l.index == 0
}

// IsOutput reports whether the layer has no successor.
func (l *Layer) IsOutput() bool {
	return l.index == len(l.net.layers)-1
}

// Prev returns the previous layer, or nil for the input layer.
func (l *Layer) Prev() *Layer {
	if l.IsInput() {
		return nil
	}
	return &l.net.layers[l.index-1]
}

// Next returns the next layer, or nil for the output layer.
func (l *Layer) Next() *Layer {
	if l.IsOutput() {
		return nil
	}
	return &l.net.layers[l.index+1]
}

// OutputLayer returns the last layer of the chain this layer belongs to.
func (l *Layer) OutputLayer() *Layer {
	return &l.net.layers[len(l.net.layers)-1]
}

// FeedForward injects x into the input layer and propagates it through every layer.
//
// FeedForward must be called on the input layer and len(x) must equal its neuron count.
// Otherwise it returns ErrNotInputLayer or a *ShapeError (ErrDimensionMismatch) and leaves
// the network untouched.
//
// Every neuron's error term is reset to zero, its weighted output recomputed as
// z = bias + Σ z_prev[input[i]]·weight[i] and its activation set to f(z). The input layer
// has no predecessor, so its z equals the injected value.
func (l *Layer) FeedForward(x []float32) error {
	if !l.IsInput() {
		return fmt.Errorf("FeedForward on layer %d: %w", l.index, ErrNotInputLayer)
	}
	if len(x) != len(l.neurons) {
		return &ShapeError{Op: "FeedForward", Want: len(l.neurons), Got: len(x)}
	}

	l.net.forward(x)
	return nil
}

// BackProp trains the network on one sample (x, y) with stochastic gradient descent.
//
// BackProp must be called on the input layer; len(x) must equal the input layer size and
// len(y) the output layer size. Shape errors are reported before anything is mutated.
//
// After a forward pass the output error is seeded with
//
//	δ_j = C'(a_j, y_j) · f'(z_j)
//
// and the network is walked backward one layer pair at a time. For every neuron of layer
// l+1 and each of its input connections i (neuron k of layer l):
//
//	δ_k += w_i · δ_{l+1} · f'(z_k)
//	w_i -= rate · a_k · δ_{l+1}
//
// with rate = learningRate / trainingSetSize. The bias of each neuron of layer l+1 is then
// updated once: b -= rate · δ_{l+1}. Activations and errors stay populated afterwards.
func (l *Layer) BackProp(x, y []float32, learningRate float32, trainingSetSize int, cost CostKind) error {
	if !l.IsInput() {
		return fmt.Errorf("BackProp on layer %d: %w", l.index, ErrNotInputLayer)
	}
	if len(x) != len(l.neurons) {
		return &ShapeError{Op: "BackProp", Want: len(l.neurons), Got: len(x)}
	}
	if out := l.OutputLayer(); len(y) != len(out.neurons) {
		return &ShapeError{Op: "BackProp", Want: len(out.neurons), Got: len(y)}
	}
	if trainingSetSize <= 0 {
		return fmt.Errorf("BackProp: training set size %d: %w", trainingSetSize, ErrInvalidHyperparameter)
	}
	if err := cost.Validate(); err != nil {
		return fmt.Errorf("BackProp: %w", err)
	}

	l.net.forward(x)
	l.net.backward(y, learningRate/float32(trainingSetSize), cost)
	return nil
}

// ArgMax returns the index of the neuron with the largest activation.
// Ties resolve to the first maximum. An empty layer yields -1.
func (l *Layer) ArgMax() int {
	if len(l.neurons) == 0 {
		return -1
	}
	best := 0
	for i := 1; i < len(l.neurons); i++ {
		if l.neurons[best].Activation < l.neurons[i].Activation {
			best = i
		}
	}
	return best
}

// forward runs the feed-forward pass; shapes are assumed valid.
func (net *Network) forward(x []float32) {
	input := net.layers[0].neurons
	for i, v := range x {
		input[i].SetInput(v)
	}

	for li := range net.layers {
		cur := &net.layers[li]
		var prev []Neuron
		if li > 0 {
			prev = net.layers[li-1].neurons
		}

		for j := range cur.neurons {
			n := &cur.neurons[j]
			n.Error = 0
			n.WeightedOutput = n.Bias
			for i, k := range n.inputs {
				n.WeightedOutput += prev[k].WeightedOutput * n.weights[i]
			}
			n.Activation = cur.activation.Apply(n.WeightedOutput)
		}
	}
}

// backward seeds the output error and walks the chain back to the input layer,
// updating weights and biases in place. forward must have run for the same sample.
func (net *Network) backward(y []float32, rate float32, cost CostKind) {
	last := len(net.layers) - 1
	out := &net.layers[last]
	for j := range out.neurons {
		n := &out.neurons[j]
		n.Error = cost.Derivative(n.Activation, y[j]) * out.activation.Derivative(n.WeightedOutput)
	}

	for li := last; li > 0; li-- {
		next := &net.layers[li]
		cur := &net.layers[li-1]

		for j := range next.neurons {
			nl1 := &next.neurons[j]
			for i, k := range nl1.inputs {
				nl := &cur.neurons[k]
				nl.Error += nl1.weights[i] * nl1.Error * cur.activation.Derivative(nl.WeightedOutput)
				nl1.weights[i] -= rate * nl.Activation * nl1.Error
			}
			nl1.Bias -= rate * nl1.Error
		}
	}
}
