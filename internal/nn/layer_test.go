package nn

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// zeroNet builds a network with all weights and biases set to zero.
func zeroNet(t *testing.T, sizes ...int) *Network {
	t.Helper()
	net, err := New(sizes, WithInitializer(Zeros))
	require.NoError(t, err)
	return net
}

// TestFeedForwardZeroNetwork tests the [4, 3, 2] all-zero example.
func TestFeedForwardZeroNetwork(t *testing.T) {
	net := zeroNet(t, 4, 3, 2)

	require.NoError(t, net.Input().FeedForward([]float32{0, 0, 0, 0}))

	for li := 0; li < net.NumLayers(); li++ {
		for _, n := range net.Layer(li).Neurons() {
			assert.Equal(t, float32(0), n.WeightedOutput)
			assert.Equal(t, float32(0.5), n.Activation)
		}
	}
	assert.Equal(t, []float32{0.5, 0.5}, net.Output().Activations())
	assert.Equal(t, 0, net.Output().ArgMax())
}

// TestFeedForwardUsesWeightedOutput tests that z of layer l reads z (not a) of layer l-1.
func TestFeedForwardUsesWeightedOutput(t *testing.T) {
	net, err := New([]int{2, 1}, WithInitializer(Constant(0.5, 0.25)))
	require.NoError(t, err)

	require.NoError(t, net.Input().FeedForward([]float32{1, 3}))

	out := net.Output().Neuron(0)
	// z = 0.25 + 1*0.5 + 3*0.5
	assert.Equal(t, float32(2.25), out.WeightedOutput)
	assert.InDelta(t, 0.9047, out.Activation, 1e-4)

	in := net.Input().Neuron(1)
	assert.Equal(t, float32(3), in.Bias)
	assert.Equal(t, float32(3), in.WeightedOutput)
}

// TestFeedForwardDeterministic tests that repeated passes give identical activations.
func TestFeedForwardDeterministic(t *testing.T) {
	net, err := New([]int{5, 7, 3}, WithSeed(7))
	require.NoError(t, err)
	x := []float32{0.1, 0.9, 0.3, 0, 1}

	require.NoError(t, net.Input().FeedForward(x))
	first := net.Output().Activations()
	require.NoError(t, net.Input().FeedForward(x))
	assert.Equal(t, first, net.Output().Activations())
}

// TestFeedForwardActivationRange tests output size and sigmoid range for random networks.
func TestFeedForwardActivationRange(t *testing.T) {
	archs := [][]int{{1}, {3, 2}, {8, 5, 4, 6}, {10, 1, 10}}
	for _, sizes := range archs {
		net, err := New(sizes, WithSeed(3))
		require.NoError(t, err)

		x := make([]float32, sizes[0])
		for i := range x {
			x[i] = float32(i) / float32(len(x))
		}
		require.NoError(t, net.Input().FeedForward(x))

		out := net.Output()
		assert.Equal(t, sizes[len(sizes)-1], out.Len())
		for _, a := range out.Activations() {
			assert.GreaterOrEqual(t, a, float32(0))
			assert.LessOrEqual(t, a, float32(1))
		}
	}
}

// TestFeedForwardResetsErrors tests that error terms are cleared on every pass.
func TestFeedForwardResetsErrors(t *testing.T) {
	net, err := New([]int{2, 2}, WithSeed(5))
	require.NoError(t, err)

	require.NoError(t, net.Input().BackProp([]float32{1, 0}, []float32{0, 1}, 0.1, 1, MSE))
	assert.NotEqual(t, float32(0), net.Output().Neuron(0).Error)

	require.NoError(t, net.Input().FeedForward([]float32{1, 0}))
	for li := 0; li < net.NumLayers(); li++ {
		for _, n := range net.Layer(li).Neurons() {
			assert.Equal(t, float32(0), n.Error)
		}
	}
}

// TestFeedForwardErrors tests shape and layer-position validation.
func TestFeedForwardErrors(t *testing.T) {
	net := zeroNet(t, 3, 2)
	before := net.State()

	err := net.Input().FeedForward([]float32{1, 2})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDimensionMismatch))
	var shapeErr *ShapeError
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, 3, shapeErr.Want)
	assert.Equal(t, 2, shapeErr.Got)

	err = net.Output().FeedForward([]float32{1, 2})
	assert.ErrorIs(t, err, ErrNotInputLayer)

	assert.Equal(t, before, net.State(), "rejected calls must not mutate the network")
}

// TestBackPropSingleStep tests one update of the [1, 1] sigmoid example against the formula.
func TestBackPropSingleStep(t *testing.T) {
	net, err := New([]int{1, 1}, WithInitializer(Constant(1, 0)))
	require.NoError(t, err)

	require.NoError(t, net.Input().BackProp([]float32{0}, []float32{1}, 1, 1, MSE))

	out := net.Output().Neuron(0)
	// z = 0, a = 0.5, δ = (0.5-1)·σ'(0) = -0.125
	assert.Equal(t, float32(-0.125), out.Error)
	// input activation σ(0) = 0.5, w -= 1·0.5·(-0.125)
	assert.Equal(t, float32(1.0625), out.Weights()[0])
	// b -= 1·(-0.125)
	assert.Equal(t, float32(0.125), out.Bias)
}

// TestBackPropHiddenLayer tests error propagation into a hidden layer by hand.
func TestBackPropHiddenLayer(t *testing.T) {
	net, err := New([]int{1, 1, 1}, WithInitializer(Constant(1, 0)))
	require.NoError(t, err)

	require.NoError(t, net.Input().BackProp([]float32{0}, []float32{1}, 2, 2, MSE))

	hidden := net.Layer(1).Neuron(0)
	out := net.Output().Neuron(0)

	// Forward: every z is 0, every a is 0.5.
	// Output: δ_o = -0.125; w_o = 1 - 1·0.5·(-0.125) = 1.0625; b_o = 0.125.
	assert.Equal(t, float32(-0.125), out.Error)
	assert.Equal(t, float32(1.0625), out.Weights()[0])
	assert.Equal(t, float32(0.125), out.Bias)

	// Hidden: δ_h = w_o(old)·δ_o·σ'(0) = -0.03125; w_h = 1 + 0.5·0.03125; b_h = 0.03125.
	assert.Equal(t, float32(-0.03125), hidden.Error)
	assert.Equal(t, float32(1.015625), hidden.Weights()[0])
	assert.Equal(t, float32(0.03125), hidden.Bias)

	// Input biases are sample values, never trained.
	assert.Equal(t, float32(0), net.Input().Neuron(0).Bias)
}

// TestBackPropReLU tests that a dead ReLU output neuron blocks the update.
func TestBackPropReLU(t *testing.T) {
	net, err := New([]int{1, 1}, WithActivation(ReLU), WithInitializer(Constant(-1, 0)))
	require.NoError(t, err)

	require.NoError(t, net.Input().BackProp([]float32{2}, []float32{1}, 1, 1, MSE))

	out := net.Output().Neuron(0)
	assert.Equal(t, float32(0), out.Error)
	assert.Equal(t, float32(-1), out.Weights()[0])
	assert.Equal(t, float32(0), out.Bias)
}

// TestBackPropDecreasesCost tests that repeated small steps reduce the cost of a sample.
func TestBackPropDecreasesCost(t *testing.T) {
	net, err := New([]int{2, 1}, WithInitializer(Constant(0.1, 0)))
	require.NoError(t, err)

	x := []float32{1, 0.5}
	y := []float32{1}

	require.NoError(t, net.Input().FeedForward(x))
	prev, err := net.Cost(y, MSE)
	require.NoError(t, err)
	initial := prev

	for i := 0; i < 50; i++ {
		require.NoError(t, net.Input().BackProp(x, y, 0.5, 1, MSE))
		require.NoError(t, net.Input().FeedForward(x))
		cost, err := net.Cost(y, MSE)
		require.NoError(t, err)
		assert.Less(t, cost, prev, "step %d", i)
		prev = cost
	}

	assert.Less(t, prev, initial/2)
}

// TestBackPropErrors tests validation of BackProp arguments.
func TestBackPropErrors(t *testing.T) {
	net := zeroNet(t, 2, 3)
	before := net.State()

	assert.ErrorIs(t, net.Input().BackProp([]float32{1}, []float32{0, 0, 1}, 1, 1, MSE), ErrDimensionMismatch)
	assert.ErrorIs(t, net.Input().BackProp([]float32{1, 1}, []float32{0, 1}, 1, 1, MSE), ErrDimensionMismatch)
	assert.ErrorIs(t, net.Output().BackProp([]float32{1, 1}, []float32{0, 0, 1}, 1, 1, MSE), ErrNotInputLayer)
	assert.ErrorIs(t, net.Input().BackProp([]float32{1, 1}, []float32{0, 0, 1}, 1, 0, MSE), ErrInvalidHyperparameter)
	assert.ErrorIs(t, net.Input().BackProp([]float32{1, 1}, []float32{0, 0, 1}, 1, 1, CostKind(9)), ErrUnsupportedFunction)

	assert.Equal(t, before, net.State())
}

// TestArgMax tests first-maximum tie-breaking.
func TestArgMax(t *testing.T) {
	tests := []struct {
		name        string
		activations []float32
		want        int
	}{
		{"distinct", []float32{0.1, 0.9, 0.3}, 1},
		{"all equal", []float32{0.5, 0.5}, 0},
		{"tie after first", []float32{0.2, 0.7, 0.7}, 1},
		{"single", []float32{0.3}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			net := zeroNet(t, len(tt.activations))
			for i, a := range tt.activations {
				net.Output().Neuron(i).Activation = a
			}
			assert.Equal(t, tt.want, net.Output().ArgMax())
		})
	}
}

// TestLayerLinks tests index-based neighbour resolution.
func TestLayerLinks(t *testing.T) {
	net := zeroNet(t, 3, 4, 2)

	in, hidden, out := net.Layer(0), net.Layer(1), net.Layer(2)
	assert.Nil(t, in.Prev())
	assert.Same(t, hidden, in.Next())
	assert.Same(t, in, hidden.Prev())
	assert.Same(t, out, hidden.Next())
	assert.Nil(t, out.Next())
	assert.Same(t, out, in.OutputLayer())
	assert.True(t, in.IsInput())
	assert.True(t, out.IsOutput())

	for _, n := range hidden.Neurons() {
		assert.Equal(t, []int{0, 1, 2}, n.Inputs())
		assert.Len(t, n.Weights(), 3)
	}
	for _, n := range in.Neurons() {
		assert.Empty(t, n.Inputs())
		assert.Empty(t, n.Weights())
	}
}
