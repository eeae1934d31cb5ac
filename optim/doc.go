// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides the optimizer used to train networks.
//
// # Overview
//
// This package contains:
//   - SGD: single-sample Stochastic Gradient Descent through backpropagation
//   - Optimizer interface for custom optimizers
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/rzrnn/nn"
//	    "github.com/born-ml/rzrnn/optim"
//	)
//
//	func main() {
//	    net, _ := nn.New([]int{784, 30, 10})
//
//	    optimizer := optim.NewSGD(net, optim.SGDConfig{
//	        LR:              0.5,
//	        TrainingSetSize: 50000,
//	    })
//
//	    // Training loop
//	    for epoch := range 10 {
//	        for i := range 50000 {
//	            if err := optimizer.Step(images[i], labels[i]); err != nil {
//	                log.Fatal(err)
//	            }
//	        }
//	    }
//	}
//
// # Learning Rate
//
// The effective step size of SGD is LR / TrainingSetSize, so the learning rate is
// comparable across dataset sizes. SetLR changes it between steps:
//
//	optimizer.SetLR(optimizer.GetLR() * 0.5)
package optim
