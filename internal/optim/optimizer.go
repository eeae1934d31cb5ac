// Package optim implements the training step used to fit a network to labeled samples.
//
// The only optimizer is plain single-sample SGD: every Step runs a full backpropagation
// pass on one (input, target) pair and updates weights and biases in place.
//
// Example usage:
//
//	sgd := optim.NewSGD(net, optim.SGDConfig{
//	    LR:              0.5,
//	    TrainingSetSize: 50000,
//	})
//
//	for epoch := range epochs {
//	    for i := range samples {
//	        if err := sgd.Step(images[i], targets[i]); err != nil {
//	            return err
//	        }
//	    }
//	}
package optim

// Optimizer is the base interface for training steps.
type Optimizer interface {
	// Step trains the network on a single sample.
	//
	// x must match the input layer size and y the output layer size.
	Step(x, y []float32) error

	// GetLR returns the current learning rate.
	GetLR() float32

	// SetLR changes the learning rate used by subsequent steps.
	SetLR(lr float32)
}
