// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides a fully connected feed-forward network trained by backpropagation.
//
// # Overview
//
// This package contains:
//   - Network: an ordered chain of layers, input first
//   - Layer: fully connected neurons with one activation kind
//   - Neuron: bias, input weights and the values of the last pass
//   - Activations: Sigmoid, ReLU
//   - Cost functions: MSE
//   - Initialization: standard normal (seeded), Zeros, Constant
//
// # Basic Usage
//
//	import "github.com/born-ml/rzrnn/nn"
//
//	func main() {
//	    // 784 inputs, one hidden layer of 30 neurons, 10 outputs
//	    net, err := nn.New([]int{784, 30, 10}, nn.WithSeed(42))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    input, output := net.Input(), net.Output()
//
//	    // One training step
//	    if err := input.BackProp(image, oneHot, 0.5, 50000, nn.MSE); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    // Classification
//	    if err := input.FeedForward(image); err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println("predicted", output.ArgMax())
//	}
//
// # Forward Pass
//
// FeedForward must be called on the input layer. Each input neuron takes one input value;
// every later neuron computes z = Σ w·z_prev + b over the previous layer and a = f(z):
//
//	err := net.Input().FeedForward(x)
//
// # Backpropagation
//
// BackProp runs a forward pass, computes the output error (a - y)·f'(z), and propagates it
// backwards while updating weights and biases in place with rate learningRate / n:
//
//	err := net.Input().BackProp(x, y, learningRate, n, nn.MSE)
//
// # Persistence
//
// State snapshots a network and FromState rebuilds it without randomness. The loader
// package stores snapshots on disk.
//
//	s := net.State()
//	clone, err := nn.FromState(s)
package nn
