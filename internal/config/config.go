// Package config loads training configuration from TOML files.
//
// Values start from Default, are overridden by the file, and finally by command line
// flags in the programs. Validate rejects unknown activation or cost names with
// nn.ErrUnsupportedFunction before any network is built.
package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/born-ml/rzrnn/internal/mnist"
	"github.com/born-ml/rzrnn/internal/nn"
	"github.com/born-ml/rzrnn/internal/parallel"
)

// Defaults of the original MNIST trainer.
const (
	DefaultTrainSize      = 50000
	DefaultValidationSize = 10000
	DefaultEpochs         = 10
	DefaultLearningRate   = 0.5
	DefaultReportEvery    = 500
	DefaultModelPath      = "model.rzrnn"
)

// Errors.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrUnknownKey    = errors.New("unknown config key")
)

// Config is the complete training configuration.
type Config struct {
	Data     DataConfig     `toml:"data"`
	Model    ModelConfig    `toml:"model"`
	Training TrainingConfig `toml:"training"`
}

// DataConfig locates the dataset.
type DataConfig struct {
	Dir         string `toml:"dir"`          // Directory searched for the MNIST training files
	TrainImages string `toml:"train_images"` // Explicit images file, overrides Dir
	TrainLabels string `toml:"train_labels"` // Explicit labels file, overrides Dir
	Synthetic   int    `toml:"synthetic"`    // Generate this many synthetic samples instead of reading files
}

// ModelConfig describes the network.
type ModelConfig struct {
	Hidden     []int  `toml:"hidden"`     // Hidden layer sizes; input and output are added from the dataset
	Activation string `toml:"activation"` // "sigmoid" or "relu"
	Cost       string `toml:"cost"`       // "mse"
	Seed       uint64 `toml:"seed"`       // Initialization seed
	Path       string `toml:"path"`       // Where the trained model is saved
}

// TrainingConfig controls the epoch loop.
type TrainingConfig struct {
	LearningRate   float64 `toml:"learning_rate"`
	Epochs         int     `toml:"epochs"`
	TrainSize      int     `toml:"train_size"`
	ValidationSize int     `toml:"validation_size"`
	ReportEvery    int     `toml:"report_every"` // Progress callback interval in samples, 0 disables it
	Plot           string  `toml:"plot"`         // Accuracy plot PNG path, empty disables it
	Workers        int     `toml:"workers"`      // Parallel validation workers, 0 or 1 validates sequentially
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Data: DataConfig{Dir: "."},
		Model: ModelConfig{
			Activation: nn.Sigmoid.String(),
			Cost:       nn.MSE.String(),
			Seed:       nn.DefaultSeed,
			Path:       DefaultModelPath,
		},
		Training: TrainingConfig{
			LearningRate:   DefaultLearningRate,
			Epochs:         DefaultEpochs,
			TrainSize:      DefaultTrainSize,
			ValidationSize: DefaultValidationSize,
			ReportEvery:    DefaultReportEvery,
		},
	}
}

// Load reads a TOML file on top of Default and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return cfg, finish(cfg, md)
}

// Decode reads TOML from r on top of Default and validates the result.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, finish(cfg, md)
}

func finish(cfg Config, md toml.MetaData) error {
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("%w: %s", ErrUnknownKey, strings.Join(keys, ", "))
	}
	return cfg.Validate()
}

// Validate checks value ranges and resolves the activation and cost names.
func (c *Config) Validate() error {
	if _, err := c.Activation(); err != nil {
		return fmt.Errorf("model.activation: %w", err)
	}
	if _, err := c.Cost(); err != nil {
		return fmt.Errorf("model.cost: %w", err)
	}
	for i, size := range c.Model.Hidden {
		if size <= 0 {
			return fmt.Errorf("%w: model.hidden[%d] = %d", ErrInvalidConfig, i, size)
		}
	}

	t := c.Training
	if !(t.LearningRate > 0) || math.IsInf(t.LearningRate, 0) {
		return fmt.Errorf("%w: training.learning_rate = %v", ErrInvalidConfig, t.LearningRate)
	}
	if t.Epochs < 0 {
		return fmt.Errorf("%w: training.epochs = %d", ErrInvalidConfig, t.Epochs)
	}
	if t.TrainSize < 0 || t.ValidationSize < 0 {
		return fmt.Errorf("%w: training.train_size = %d, training.validation_size = %d",
			ErrInvalidConfig, t.TrainSize, t.ValidationSize)
	}
	if t.Workers < 0 {
		return fmt.Errorf("%w: training.workers = %d", ErrInvalidConfig, t.Workers)
	}
	if t.ReportEvery < 0 {
		return fmt.Errorf("%w: training.report_every = %d", ErrInvalidConfig, t.ReportEvery)
	}
	if c.Data.Synthetic < 0 {
		return fmt.Errorf("%w: data.synthetic = %d", ErrInvalidConfig, c.Data.Synthetic)
	}
	return nil
}

// Parallel returns the validation parallelism for the configured worker count.
func (c *Config) Parallel() parallel.Config {
	if c.Training.Workers <= 1 {
		return parallel.Config{}
	}
	cfg := parallel.DefaultConfig()
	cfg.Enabled = true
	cfg.NumWorkers = c.Training.Workers
	return cfg
}

// Activation returns the configured activation kind.
func (c *Config) Activation() (nn.ActivationKind, error) {
	return nn.ParseActivation(c.Model.Activation)
}

// Cost returns the configured cost kind.
func (c *Config) Cost() (nn.CostKind, error) {
	return nn.ParseCost(c.Model.Cost)
}

// Architecture returns the full layer sizes: input, the hidden layers, then output.
func (c *Config) Architecture(inputSize, outputSize int) []int {
	sizes := make([]int, 0, len(c.Model.Hidden)+2)
	sizes = append(sizes, inputSize)
	sizes = append(sizes, c.Model.Hidden...)
	return append(sizes, outputSize)
}

// MNISTArchitecture returns the layer sizes for a dataset with the given image shape.
func (c *Config) MNISTArchitecture(rows, columns int) []int {
	return c.Architecture(rows*columns, mnist.NumClasses)
}

// ParseLayerSizes parses a space separated list of hidden layer sizes such as "30 20".
// An empty string yields no hidden layers.
func ParseLayerSizes(s string) ([]int, error) {
	fields := strings.Fields(s)
	sizes := make([]int, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%w: layer size %q", ErrInvalidConfig, f)
		}
		if v <= 0 {
			return nil, fmt.Errorf("%w: layer size %d", ErrInvalidConfig, v)
		}
		sizes = append(sizes, v)
	}
	return sizes, nil
}

// FormatLayerSizes joins layer sizes with spaces, the inverse of ParseLayerSizes.
func FormatLayerSizes(sizes []int) string {
	parts := make([]string, len(sizes))
	for i, v := range sizes {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}
