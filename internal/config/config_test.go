package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/born-ml/rzrnn/internal/nn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefault tests the built-in configuration.
func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 50000, cfg.Training.TrainSize)
	assert.Equal(t, 10000, cfg.Training.ValidationSize)
	assert.Equal(t, 10, cfg.Training.Epochs)
	assert.InDelta(t, 0.5, cfg.Training.LearningRate, 1e-12)
	assert.Equal(t, 500, cfg.Training.ReportEvery)
	assert.Equal(t, nn.DefaultSeed, cfg.Model.Seed)
	assert.Equal(t, "model.rzrnn", cfg.Model.Path)

	act, err := cfg.Activation()
	require.NoError(t, err)
	assert.Equal(t, nn.Sigmoid, act)
	cost, err := cfg.Cost()
	require.NoError(t, err)
	assert.Equal(t, nn.MSE, cost)
}

// TestDecode tests that file values override defaults.
func TestDecode(t *testing.T) {
	cfg, err := Decode(strings.NewReader(`
[model]
hidden = [30, 20]
activation = "relu"
seed = 42

[training]
learning_rate = 3.0
epochs = 2
`))
	require.NoError(t, err)

	assert.Equal(t, []int{30, 20}, cfg.Model.Hidden)
	assert.Equal(t, "relu", cfg.Model.Activation)
	assert.Equal(t, uint64(42), cfg.Model.Seed)
	assert.InDelta(t, 3.0, cfg.Training.LearningRate, 1e-12)
	assert.Equal(t, 2, cfg.Training.Epochs)
	// Untouched values keep their defaults.
	assert.Equal(t, "mse", cfg.Model.Cost)
	assert.Equal(t, DefaultTrainSize, cfg.Training.TrainSize)
}

// TestDecodeErrors tests rejected configurations.
func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		toml string
		want error
	}{
		{"unknown activation", "[model]\nactivation = \"tanh\"\n", nn.ErrUnsupportedFunction},
		{"unknown cost", "[model]\ncost = \"cross_entropy\"\n", nn.ErrUnsupportedFunction},
		{"zero learning rate", "[training]\nlearning_rate = 0.0\n", ErrInvalidConfig},
		{"negative epochs", "[training]\nepochs = -1\n", ErrInvalidConfig},
		{"negative workers", "[training]\nworkers = -2\n", ErrInvalidConfig},
		{"bad hidden size", "[model]\nhidden = [30, 0]\n", ErrInvalidConfig},
		{"unknown key", "[model]\nlayers = [30]\n", ErrUnknownKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.toml))
			require.ErrorIs(t, err, tt.want)
		})
	}

	_, err := Decode(strings.NewReader("[model\n"))
	require.Error(t, err)
}

// TestLoad tests reading a config file.
func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rzrnn.toml")
	require.NoError(t, os.WriteFile(path, []byte("[data]\nsynthetic = 100\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Data.Synthetic)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestParseLayerSizes tests the hidden layer prompt parser.
func TestParseLayerSizes(t *testing.T) {
	tests := []struct {
		input   string
		want    []int
		wantErr bool
	}{
		{"30", []int{30}, false},
		{"  100 30\t20 ", []int{100, 30, 20}, false},
		{"", []int{}, false},
		{"30 x", nil, true},
		{"30 -2", nil, true},
		{"0", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLayerSizes(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestArchitecture tests that input and output sizes wrap the hidden layers.
func TestArchitecture(t *testing.T) {
	cfg := Default()
	cfg.Model.Hidden = []int{30}

	assert.Equal(t, []int{784, 30, 10}, cfg.MNISTArchitecture(28, 28))
	assert.Equal(t, []int{4, 30, 2}, cfg.Architecture(4, 2))

	cfg.Model.Hidden = nil
	assert.Equal(t, []int{784, 10}, cfg.MNISTArchitecture(28, 28))
	assert.Equal(t, "784 30 10", FormatLayerSizes([]int{784, 30, 10}))
}

// TestParallel tests the worker count mapping.
func TestParallel(t *testing.T) {
	cfg := Default()
	assert.False(t, cfg.Parallel().Enabled)

	cfg.Training.Workers = 4
	p := cfg.Parallel()
	assert.True(t, p.Enabled)
	assert.Equal(t, 4, p.NumWorkers)
	assert.Positive(t, p.MinChunkSize)
}
