// Package train runs epochs of single-sample gradient descent over a labeled dataset.
//
// The first TrainSize samples train the network and the following ValidationSize samples
// measure its accuracy. A sample counts as correct when the one-hot label is 1 at the
// output layer's ArgMax.
package train

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/born-ml/rzrnn/internal/nn"
	"github.com/born-ml/rzrnn/internal/optim"
	"github.com/born-ml/rzrnn/internal/parallel"
)

// Default training options.
const (
	DefaultLearningRate   = 0.5
	DefaultEpochs         = 10
	DefaultTrainSize      = 50000
	DefaultValidationSize = 10000
	DefaultReportEvery    = 500
)

// ErrInvalidOptions is returned for out-of-range training options.
var ErrInvalidOptions = errors.New("invalid training options")

// Source is a labeled sample set indexed from 0 to Count()-1.
type Source interface {
	Count() int
	Image(i int) ([]float32, error)
	LabelVector(i int) ([]float32, error)
}

// Phase distinguishes training from validation in progress reports.
type Phase int

const (
	PhaseTrain Phase = iota
	PhaseValidation
)

// String returns the phase name.
func (p Phase) String() string {
	if p == PhaseTrain {
		return "train"
	}
	return "validation"
}

// Progress is a periodic report from inside an epoch.
type Progress struct {
	Epoch        int
	Phase        Phase
	Done         int // Samples processed in this phase
	Total        int // Samples in this phase
	LearningRate float32
}

// ProgressFunc receives progress reports.
type ProgressFunc func(Progress)

// Options configures a Trainer.
type Options struct {
	LearningRate   float32
	Epochs         int
	TrainSize      int // Requested training samples, clamped to the dataset
	ValidationSize int // Requested validation samples, clamped to what follows the training split
	Cost           nn.CostKind
	ReportEvery    int // Training samples between reports; validation reports every 4x as many
	Progress       ProgressFunc

	// Parallel splits validation across network clones. Validation progress is not
	// reported when it is enabled, and the Source must then be safe for concurrent reads.
	Parallel parallel.Config
}

// DefaultOptions returns the options of the original MNIST trainer.
func DefaultOptions() Options {
	return Options{
		LearningRate:   DefaultLearningRate,
		Epochs:         DefaultEpochs,
		TrainSize:      DefaultTrainSize,
		ValidationSize: DefaultValidationSize,
		Cost:           nn.MSE,
		ReportEvery:    DefaultReportEvery,
	}
}

// Split clamps the requested split sizes to a dataset of count samples.
func Split(count, trainSize, validationSize int) (train, validation int) {
	train = min(max(trainSize, 0), count)
	validation = min(max(validationSize, 0), count-train)
	return train, validation
}

// Trainer trains one network on one data source.
type Trainer struct {
	net       *nn.Network
	data      Source
	opts      Options
	sgd       *optim.SGD
	trainSize int
	validSize int
	nextEpoch int
}

// New creates a trainer. The training split size scales the learning rate per sample.
func New(net *nn.Network, data Source, opts Options) (*Trainer, error) {
	if !(opts.LearningRate > 0) {
		return nil, fmt.Errorf("%w: learning rate %v", ErrInvalidOptions, opts.LearningRate)
	}
	if opts.Epochs < 0 || opts.ReportEvery < 0 {
		return nil, fmt.Errorf("%w: epochs %d, report every %d", ErrInvalidOptions, opts.Epochs, opts.ReportEvery)
	}
	if err := opts.Cost.Validate(); err != nil {
		return nil, err
	}

	trainSize, validSize := Split(data.Count(), opts.TrainSize, opts.ValidationSize)
	return &Trainer{
		net:       net,
		data:      data,
		opts:      opts,
		trainSize: trainSize,
		validSize: validSize,
		sgd: optim.NewSGD(net, optim.SGDConfig{
			LR:              opts.LearningRate,
			TrainingSetSize: max(trainSize, 1),
			Cost:            opts.Cost,
		}),
	}, nil
}

// TrainSize returns the clamped training split size.
func (t *Trainer) TrainSize() int { return t.trainSize }

// ValidationSize returns the clamped validation split size.
func (t *Trainer) ValidationSize() int { return t.validSize }

// Optimizer returns the optimizer driving the updates.
func (t *Trainer) Optimizer() *optim.SGD { return t.sgd }

// Run trains for the configured number of epochs, calling onEpoch after each one when it
// is not nil. A sample error or cancellation stops the current epoch and is returned with
// the results of the completed epochs.
func (t *Trainer) Run(ctx context.Context, onEpoch func(EpochResult)) ([]EpochResult, error) {
	results := make([]EpochResult, 0, t.opts.Epochs)
	for e := 0; e < t.opts.Epochs; e++ {
		res, err := t.Epoch(ctx)
		if err != nil {
			return results, err
		}
		results = append(results, res)
		if onEpoch != nil {
			onEpoch(res)
		}
	}
	return results, nil
}

// Epoch runs one training pass followed by one validation pass.
func (t *Trainer) Epoch(ctx context.Context) (EpochResult, error) {
	epoch := t.nextEpoch
	start := time.Now()

	res := EpochResult{Epoch: epoch, TrainTotal: t.trainSize, ValidationTotal: t.validSize}
	costs := make([]float64, 0, t.trainSize)

	for i := 0; i < t.trainSize; i++ {
		if err := ctx.Err(); err != nil {
			return EpochResult{}, err
		}
		x, y, err := t.sample(i)
		if err != nil {
			return EpochResult{}, err
		}
		if err := t.sgd.Step(x, y); err != nil {
			return EpochResult{}, fmt.Errorf("epoch %d sample %d: %w", epoch, i, err)
		}

		// Output activations still hold the forward pass of this sample.
		if correct(y, t.net.Output().ArgMax()) {
			res.TrainCorrect++
		}
		cost, err := t.net.Cost(y, t.opts.Cost)
		if err != nil {
			return EpochResult{}, fmt.Errorf("epoch %d sample %d: %w", epoch, i, err)
		}
		costs = append(costs, cost)

		t.report(epoch, PhaseTrain, i+1, t.trainSize, t.opts.ReportEvery)
	}

	validCorrect, err := t.evaluate(ctx, epoch)
	if err != nil {
		return EpochResult{}, err
	}
	res.ValidationCorrect = validCorrect

	if res.MeanCost, res.CostStdDev, err = costSummary(costs); err != nil {
		return EpochResult{}, err
	}
	res.Duration = time.Since(start)
	t.nextEpoch++
	return res, nil
}

// Evaluate counts correct predictions on the validation split without training.
func (t *Trainer) Evaluate(ctx context.Context) (correct, total int, err error) {
	correct, err = t.evaluate(ctx, t.nextEpoch)
	return correct, t.validSize, err
}

func (t *Trainer) evaluate(ctx context.Context, epoch int) (int, error) {
	if t.opts.Parallel.Enabled {
		return t.evaluateParallel(ctx, epoch)
	}

	var n int
	for i := 0; i < t.validSize; i++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		x, y, err := t.sample(t.trainSize + i)
		if err != nil {
			return 0, err
		}
		if err := t.net.Input().FeedForward(x); err != nil {
			return 0, fmt.Errorf("epoch %d sample %d: %w", epoch, t.trainSize+i, err)
		}
		if correct(y, t.net.Output().ArgMax()) {
			n++
		}
		t.report(epoch, PhaseValidation, i+1, t.validSize, 4*t.opts.ReportEvery)
	}
	return n, nil
}

// evaluateParallel validates on independent clones of the network, one per chunk.
func (t *Trainer) evaluateParallel(ctx context.Context, epoch int) (int, error) {
	state := t.net.State()
	var total atomic.Int64
	err := parallel.Chunks(t.validSize, t.opts.Parallel, func(start, end int) error {
		clone, err := nn.FromState(state)
		if err != nil {
			return err
		}
		var n int64
		for i := t.trainSize + start; i < t.trainSize+end; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			x, y, err := t.sample(i)
			if err != nil {
				return err
			}
			if err := clone.Input().FeedForward(x); err != nil {
				return fmt.Errorf("epoch %d sample %d: %w", epoch, i, err)
			}
			if correct(y, clone.Output().ArgMax()) {
				n++
			}
		}
		total.Add(n)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return int(total.Load()), nil
}

func (t *Trainer) sample(i int) (x, y []float32, err error) {
	if x, err = t.data.Image(i); err != nil {
		return nil, nil, fmt.Errorf("sample %d: %w", i, err)
	}
	if y, err = t.data.LabelVector(i); err != nil {
		return nil, nil, fmt.Errorf("sample %d: %w", i, err)
	}
	return x, y, nil
}

func (t *Trainer) report(epoch int, phase Phase, done, total, every int) {
	if t.opts.Progress == nil || every <= 0 || done%every != 0 {
		return
	}
	t.opts.Progress(Progress{
		Epoch:        epoch,
		Phase:        phase,
		Done:         done,
		Total:        total,
		LearningRate: t.sgd.GetLR(),
	})
}

// correct reports whether the one-hot target marks the predicted class.
func correct(y []float32, predicted int) bool {
	return predicted >= 0 && predicted < len(y) && y[predicted] == 1
}
