// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optim

import (
	"github.com/born-ml/rzrnn/internal/nn"
	"github.com/born-ml/rzrnn/internal/optim"
)

// Optimizer interface defines the common interface for all optimizers.
type Optimizer = optim.Optimizer

// SGD (Stochastic Gradient Descent)

// SGD represents the single-sample SGD optimizer.
type SGD = optim.SGD

// SGDConfig contains configuration for SGD optimizer.
type SGDConfig = optim.SGDConfig

// Default SGD hyperparameters.
const (
	DefaultLR              = optim.DefaultLR
	DefaultTrainingSetSize = optim.DefaultTrainingSetSize
)

// NewSGD creates a new SGD optimizer.
//
// Example:
//
//	net, _ := nn.New([]int{784, 30, 10})
//	optimizer := optim.NewSGD(net, optim.SGDConfig{
//	    LR:              0.5,
//	    TrainingSetSize: 50000,
//	})
func NewSGD(net *nn.Network, config SGDConfig) *SGD {
	return optim.NewSGD(net, config)
}
