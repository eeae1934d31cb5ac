package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/born-ml/rzrnn/internal/config"
	"github.com/born-ml/rzrnn/internal/mnist"
	"github.com/born-ml/rzrnn/internal/nn"
	"github.com/born-ml/rzrnn/internal/serialization"
	"github.com/born-ml/rzrnn/internal/train"
)

// errIncompatibleModel is returned when a loaded model does not fit the dataset.
var errIncompatibleModel = errors.New("model does not match the dataset")

// session is one interactive run: load or create a network, then evaluate or train it.
type session struct {
	in     *bufio.Reader
	out    io.Writer
	status io.Writer // progress lines, nil to disable
	cfg    config.Config
	data   *mnist.Dataset
	model  string // model to load without prompting, "" to ask
}

func newSession(in io.Reader, out io.Writer, cfg config.Config, data *mnist.Dataset) *session {
	return &session{in: bufio.NewReader(in), out: out, cfg: cfg, data: data}
}

// run drives the whole session.
func (s *session) run(ctx context.Context) error {
	name := s.model
	if name == "" {
		line, err := s.prompt("Load model (name / no): ")
		if err != nil {
			return err
		}
		name = firstField(line)
	}

	var net *nn.Network
	if name != "" && name != "no" {
		var err error
		if net, err = s.load(name); err != nil {
			return err
		}
		answer, err := s.prompt("Evaluate (yes/no): ")
		if err != nil {
			return err
		}
		if a := firstField(answer); a == "yes" || a == "y" {
			return s.evaluate(net)
		}
	} else {
		var err error
		if net, err = s.create(); err != nil {
			return err
		}
	}

	return s.train(ctx, net)
}

func (s *session) load(path string) (*nn.Network, error) {
	model, err := serialization.Load(path)
	if err != nil {
		return nil, err
	}
	net, err := nn.FromState(model.State)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	in, out := net.Input().Len(), net.Output().Len()
	if in != s.data.InputSize() || out != mnist.NumClasses {
		return nil, fmt.Errorf("%w: %d inputs and %d outputs, dataset has %d pixels and %d classes",
			errIncompatibleModel, in, out, s.data.InputSize(), mnist.NumClasses)
	}
	fmt.Fprintf(s.out, "Layers: %s\n", config.FormatLayerSizes(net.Sizes()))
	return net, nil
}

func (s *session) create() (*nn.Network, error) {
	line, err := s.prompt("Enter layer sizes l1 l2 l3...: ")
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(line) != "" {
		hidden, err := config.ParseLayerSizes(line)
		if err != nil {
			return nil, err
		}
		s.cfg.Model.Hidden = hidden
	}

	sizes := s.cfg.MNISTArchitecture(s.data.Rows(), s.data.Columns())
	fmt.Fprintf(s.out, "Layers: %s\n", config.FormatLayerSizes(sizes))

	act, err := s.cfg.Activation()
	if err != nil {
		return nil, err
	}
	net, err := nn.New(sizes, nn.WithSeed(s.cfg.Model.Seed), nn.WithActivation(act))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize network: %w", err)
	}
	return net, nil
}

func (s *session) train(ctx context.Context, net *nn.Network) error {
	line, err := s.prompt("Enter learning rate: ")
	if err != nil {
		return err
	}
	lr := s.cfg.Training.LearningRate
	if f := firstField(line); f != "" {
		if lr, err = strconv.ParseFloat(f, 32); err != nil || !(lr > 0) {
			return fmt.Errorf("%w: learning rate %q", config.ErrInvalidConfig, f)
		}
	}

	cost, err := s.cfg.Cost()
	if err != nil {
		return err
	}
	opts := train.Options{
		LearningRate:   float32(lr),
		Epochs:         s.cfg.Training.Epochs,
		TrainSize:      s.cfg.Training.TrainSize,
		ValidationSize: s.cfg.Training.ValidationSize,
		Cost:           cost,
		ReportEvery:    s.cfg.Training.ReportEvery,
		Parallel:       s.cfg.Parallel(),
	}
	if s.status != nil {
		opts.Progress = func(p train.Progress) {
			fmt.Fprintf(s.status, "\rEpoch %d %s %d/%d %g", p.Epoch, p.Phase, p.Done, p.Total, p.LearningRate)
		}
	}

	trainer, err := train.New(net, s.data, opts)
	if err != nil {
		return err
	}
	results, err := trainer.Run(ctx, func(r train.EpochResult) {
		if s.status != nil {
			fmt.Fprint(s.status, "\r")
		}
		fmt.Fprintln(s.out, r)
	})
	if err != nil {
		return err
	}

	metadata := map[string]string{
		"learning_rate":   strconv.FormatFloat(lr, 'g', -1, 32),
		"epochs":          strconv.Itoa(len(results)),
		"train_size":      strconv.Itoa(trainer.TrainSize()),
		"validation_size": strconv.Itoa(trainer.ValidationSize()),
		"cost":            cost.String(),
	}
	summary, ok, err := train.Summarize(results)
	if err != nil {
		return err
	}
	if ok {
		metadata["best_validation_accuracy"] = strconv.FormatFloat(summary.Best.ValidationAccuracy(), 'f', 2, 64)
		fmt.Fprintf(s.out, "Best epoch %d: %.2f%% validation (mean %.2f%%, stddev %.2f)\n",
			summary.Best.Epoch, summary.Best.ValidationAccuracy(), summary.Mean, summary.StdDev)
	}

	if err := serialization.Save(s.cfg.Model.Path, net.State(), metadata); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Saved model to %s\n", s.cfg.Model.Path)

	if s.cfg.Training.Plot != "" && ok {
		if err := train.PlotAccuracy(results, s.cfg.Training.Plot); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Saved accuracy plot to %s\n", s.cfg.Training.Plot)
	}
	return nil
}

// evaluate classifies dataset samples by index until -1 or end of input.
func (s *session) evaluate(net *nn.Network) error {
	for {
		line, err := s.prompt("Enter MNIST index to classify: ")
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		index, err := strconv.Atoi(firstField(line))
		if err != nil {
			fmt.Fprintf(s.out, "Invalid index %q\n", strings.TrimSpace(line))
			continue
		}
		if index == -1 {
			return nil
		}

		img, err := s.data.Image(index)
		if err != nil {
			fmt.Fprintln(s.out, err)
			continue
		}
		label, err := s.data.Label(index)
		if err != nil {
			fmt.Fprintln(s.out, err)
			continue
		}

		fmt.Fprint(s.out, mnist.Render(img, s.data.Rows(), s.data.Columns()))
		predicted, err := net.Predict(img)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Predicted %d [%d]\n", predicted, label)
	}
}

// prompt writes text and reads one line. A final line without newline is returned as is;
// io.EOF is returned only when nothing was read.
func (s *session) prompt(text string) (string, error) {
	fmt.Fprint(s.out, text)
	line, err := s.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func firstField(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
