package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/rzrnn/internal/config"
	"github.com/born-ml/rzrnn/internal/mnist"
	"github.com/born-ml/rzrnn/internal/nn"
	"github.com/born-ml/rzrnn/internal/serialization"
)

// testConfig returns a small configuration that saves into a temp dir.
func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Model.Path = filepath.Join(t.TempDir(), "model.rzrnn")
	cfg.Training.Epochs = 2
	cfg.Training.TrainSize = 20
	cfg.Training.ValidationSize = 10
	cfg.Training.ReportEvery = 0
	return cfg
}

// runSession runs a session over scripted input and returns its output.
func runSession(t *testing.T, cfg config.Config, input string) (string, error) {
	t.Helper()
	var out strings.Builder
	s := newSession(strings.NewReader(input), &out, cfg, mnist.Synthetic(30, 4, 4))
	err := s.run(context.Background())
	return out.String(), err
}

// TestSessionCreateAndTrain tests the create path end to end.
func TestSessionCreateAndTrain(t *testing.T) {
	cfg := testConfig(t)
	cfg.Training.Plot = filepath.Join(t.TempDir(), "accuracy.png")

	out, err := runSession(t, cfg, "no\n8\n0.5\n")
	require.NoError(t, err)

	assert.Contains(t, out, "Load model (name / no): ")
	assert.Contains(t, out, "Enter layer sizes l1 l2 l3...: ")
	assert.Contains(t, out, "Layers: 16 8 10\n")
	assert.Contains(t, out, "Enter learning rate: ")
	assert.Contains(t, out, "Epoch 0: ")
	assert.Contains(t, out, "Epoch 1: ")
	assert.NotContains(t, out, "Epoch 2: ")
	assert.Contains(t, out, "Saved model to "+cfg.Model.Path)

	model, err := serialization.Load(cfg.Model.Path)
	require.NoError(t, err)
	assert.Equal(t, []int{16, 8, 10}, model.State.Sizes)
	assert.Equal(t, "2", model.Header.Metadata["epochs"])
	assert.Equal(t, "20", model.Header.Metadata["train_size"])

	_, err = os.Stat(cfg.Training.Plot)
	require.NoError(t, err)
}

// TestSessionLoadAndEvaluate tests classification of samples by index.
func TestSessionLoadAndEvaluate(t *testing.T) {
	cfg := testConfig(t)
	_, err := runSession(t, cfg, "no\n\n\n")
	require.NoError(t, err)

	out, err := runSession(t, cfg, cfg.Model.Path+"\nyes\n3\n99\nx\n-1\n")
	require.NoError(t, err)

	assert.Contains(t, out, "Layers: 16 10\n")
	assert.Contains(t, out, "Evaluate (yes/no): ")
	assert.Equal(t, 1, strings.Count(out, "Predicted "))
	assert.Contains(t, out, " [3]\n")
	assert.Contains(t, out, "Invalid index \"x\"")
	assert.Equal(t, 4, strings.Count(out, "Enter MNIST index to classify: "))
}

// TestSessionEvaluateUntilEOF tests that end of input ends the evaluation loop.
func TestSessionEvaluateUntilEOF(t *testing.T) {
	cfg := testConfig(t)
	_, err := runSession(t, cfg, "no\n\n\n")
	require.NoError(t, err)

	out, err := runSession(t, cfg, cfg.Model.Path+"\nyes\n0")
	require.NoError(t, err)
	assert.Contains(t, out, " [0]\n")
}

// TestSessionEvaluateShortAnswer tests that "y" also selects evaluation.
func TestSessionEvaluateShortAnswer(t *testing.T) {
	cfg := testConfig(t)
	_, err := runSession(t, cfg, "no\n\n\n")
	require.NoError(t, err)

	out, err := runSession(t, cfg, cfg.Model.Path+"\ny\n2\n-1\n")
	require.NoError(t, err)
	assert.Contains(t, out, " [2]\n")
	assert.NotContains(t, out, "Epoch 1: ")
}

// TestSessionLoadAndContinue tests that a loaded model keeps training when not evaluated.
func TestSessionLoadAndContinue(t *testing.T) {
	cfg := testConfig(t)
	_, err := runSession(t, cfg, "no\n6\n\n")
	require.NoError(t, err)
	before, err := serialization.Load(cfg.Model.Path)
	require.NoError(t, err)

	out, err := runSession(t, cfg, cfg.Model.Path+"\nno\n1.5\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Epoch 1: ")

	after, err := serialization.Load(cfg.Model.Path)
	require.NoError(t, err)
	assert.Equal(t, before.State.Sizes, after.State.Sizes)
	assert.NotEqual(t, before.State.Weights, after.State.Weights)
	assert.Equal(t, "1.5", after.Header.Metadata["learning_rate"])
}

// TestSessionErrors tests rejected input.
func TestSessionErrors(t *testing.T) {
	t.Run("bad layer sizes", func(t *testing.T) {
		_, err := runSession(t, testConfig(t), "no\n8 x\n")
		require.ErrorIs(t, err, config.ErrInvalidConfig)
	})

	t.Run("bad learning rate", func(t *testing.T) {
		_, err := runSession(t, testConfig(t), "no\n8\n-1\n")
		require.ErrorIs(t, err, config.ErrInvalidConfig)
	})

	t.Run("missing model", func(t *testing.T) {
		_, err := runSession(t, testConfig(t), filepath.Join(t.TempDir(), "none.rzrnn")+"\n")
		require.ErrorIs(t, err, serialization.ErrNotFound)
	})

	t.Run("incompatible model", func(t *testing.T) {
		net, err := nn.New([]int{784, 10})
		require.NoError(t, err)
		path := filepath.Join(t.TempDir(), "big.rzrnn")
		require.NoError(t, serialization.Save(path, net.State(), nil))

		_, err = runSession(t, testConfig(t), path+"\n")
		require.ErrorIs(t, err, errIncompatibleModel)
	})
}
