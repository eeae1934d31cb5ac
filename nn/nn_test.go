// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/rzrnn/nn"
)

// TestPublicAPI tests that the public API trains and classifies through the aliases.
func TestPublicAPI(t *testing.T) {
	net, err := nn.New([]int{2, 1}, nn.WithInitializer(nn.Constant(1, 0)))
	require.NoError(t, err)

	input, output := net.Input(), net.Output()
	require.NoError(t, input.BackProp([]float32{1, 1}, []float32{1}, 0.5, 1, nn.MSE))

	assert.NotEqual(t, float32(1), output.Neuron(0).Weights()[0])

	require.NoError(t, input.FeedForward([]float32{0.5, 0.5}))
	assert.Equal(t, 0, output.ArgMax())

	clone, err := nn.FromState(net.State())
	require.NoError(t, err)
	assert.Equal(t, net.State(), clone.State())

	err = output.FeedForward([]float32{1})
	require.ErrorIs(t, err, nn.ErrNotInputLayer)

	err = input.FeedForward([]float32{1})
	var shapeErr *nn.ShapeError
	require.ErrorAs(t, err, &shapeErr)
	assert.ErrorIs(t, err, nn.ErrDimensionMismatch)
}
