package optim

import (
	"fmt"

	"github.com/born-ml/rzrnn/internal/nn"
)

var _ Optimizer = (*SGD)(nil)

// Default hyperparameters.
const (
	DefaultLR              = 0.5
	DefaultTrainingSetSize = 1
)

// SGD implements single-sample Stochastic Gradient Descent.
//
// Update rule for each weight w and bias b touched by backpropagation:
//
//	w = w - (lr / n) * a_prev * δ
//	b = b - (lr / n) * δ
//
// where n is the training set size. Scaling by n keeps the per-epoch step comparable
// across dataset sizes.
//
// Example:
//
//	sgd := optim.NewSGD(net, optim.SGDConfig{LR: 0.5, TrainingSetSize: 50000})
//	if err := sgd.Step(image, oneHot); err != nil {
//	    return err
//	}
type SGD struct {
	net     *nn.Network
	lr      float32
	setSize int
	cost    nn.CostKind
}

// SGDConfig holds configuration for the SGD optimizer.
type SGDConfig struct {
	LR              float32     // Learning rate (default: 0.5)
	TrainingSetSize int         // Samples per epoch used to scale the rate (default: 1)
	Cost            nn.CostKind // Cost function (default: MSE)
}

// NewSGD creates a new SGD optimizer for net.
func NewSGD(net *nn.Network, config SGDConfig) *SGD {
	// Set defaults
	if config.LR == 0 {
		config.LR = DefaultLR
	}
	if config.TrainingSetSize == 0 {
		config.TrainingSetSize = DefaultTrainingSetSize
	}

	return &SGD{
		net:     net,
		lr:      config.LR,
		setSize: config.TrainingSetSize,
		cost:    config.Cost,
	}
}

// Step backpropagates one sample through the network.
func (s *SGD) Step(x, y []float32) error {
	if err := s.net.Input().BackProp(x, y, s.lr, s.setSize, s.cost); err != nil {
		return fmt.Errorf("sgd step: %w", err)
	}
	return nil
}

// GetLR returns the current learning rate.
func (s *SGD) GetLR() float32 {
	return s.lr
}

// SetLR changes the learning rate.
func (s *SGD) SetLR(lr float32) {
	s.lr = lr
}

// Rate returns the effective per-sample step size lr / n.
func (s *SGD) Rate() float32 {
	return s.lr / float32(s.setSize)
}
