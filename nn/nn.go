// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"golang.org/x/exp/rand"

	"github.com/born-ml/rzrnn/internal/nn"
)

// Network is a fully connected feed-forward network.
type Network = nn.Network

// Layer is one layer of a Network.
type Layer = nn.Layer

// Neuron is one unit of a Layer.
type Neuron = nn.Neuron

// State is a self-contained snapshot of a network.
type State = nn.State

// Option configures New.
type Option = nn.Option

// Initializer fills the input weights of one neuron and returns its bias.
type Initializer = nn.Initializer

// ShapeError describes a vector of the wrong length.
type ShapeError = nn.ShapeError

// DefaultSeed seeds weight initialization when no seed or source is given.
const DefaultSeed = nn.DefaultSeed

// New creates a randomly initialized network with the given layer sizes, input layer first.
//
// Example:
//
//	net, err := nn.New([]int{784, 30, 10}, nn.WithSeed(42))
func New(sizes []int, opts ...Option) (*Network, error) {
	return nn.New(sizes, opts...)
}

// FromState rebuilds a network from a snapshot.
func FromState(s State) (*Network, error) {
	return nn.FromState(s)
}

// WithSeed makes initialization reproducible by seeding a fresh random source.
func WithSeed(seed uint64) Option {
	return nn.WithSeed(seed)
}

// WithSource draws initial weights and biases from src.
func WithSource(src rand.Source) Option {
	return nn.WithSource(src)
}

// WithInitializer replaces the standard normal initializer.
func WithInitializer(init Initializer) Option {
	return nn.WithInitializer(init)
}

// WithActivation selects the activation of every layer.
func WithActivation(k ActivationKind) Option {
	return nn.WithActivation(k)
}

// WithLayerActivations selects one activation per layer, input layer first.
func WithLayerActivations(kinds ...ActivationKind) Option {
	return nn.WithLayerActivations(kinds...)
}

// Initialization

// NormalInitializer draws every weight and the bias from N(0, 1).
func NormalInitializer(src rand.Source) Initializer {
	return nn.NormalInitializer(src)
}

// Zeros sets every weight and the bias to zero.
func Zeros(weights []float32) float32 {
	return nn.Zeros(weights)
}

// Constant sets every weight to w and the bias to b.
func Constant(w, b float32) Initializer {
	return nn.Constant(w, b)
}

// Activations

// ActivationKind selects a neuron activation function.
type ActivationKind = nn.ActivationKind

// Supported activations.
const (
	Sigmoid ActivationKind = nn.Sigmoid
	ReLU    ActivationKind = nn.ReLU
)

// ParseActivation resolves an activation name ("sigmoid", "relu").
func ParseActivation(name string) (ActivationKind, error) {
	return nn.ParseActivation(name)
}

// Cost functions

// CostKind selects the cost function minimized by BackProp.
type CostKind = nn.CostKind

// MSE is the quadratic cost 0.5·(y - a)².
const MSE CostKind = nn.MSE

// ParseCost resolves a cost name ("mse").
func ParseCost(name string) (CostKind, error) {
	return nn.ParseCost(name)
}

// Errors

// Errors returned by networks and layers.
var (
	ErrDimensionMismatch     = nn.ErrDimensionMismatch
	ErrNotInputLayer         = nn.ErrNotInputLayer
	ErrUnsupportedFunction   = nn.ErrUnsupportedFunction
	ErrInvalidArchitecture   = nn.ErrInvalidArchitecture
	ErrInvalidState          = nn.ErrInvalidState
	ErrInvalidHyperparameter = nn.ErrInvalidHyperparameter
)
