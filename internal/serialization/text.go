package serialization

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/born-ml/rzrnn/internal/nn"
)

// WriteText encodes a sigmoid network in the plain text format:
//
//	<layer count>
//	<size 0> <size 1> ... <size L-1>
//	<bias> <w0> <w1> ...   (one line per neuron, layer by layer)
//
// Input neurons have a bias and no weights. Floats use the shortest representation that
// parses back to the same float32.
func WriteText(w io.Writer, s nn.State) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("invalid state: %w", err)
	}
	for i, k := range s.Activations {
		if k != nn.Sigmoid {
			return fmt.Errorf("%w: layer %d is %s", ErrTextActivations, i, k)
		}
	}

	bw := bufio.NewWriter(w)
	buf := strconv.AppendInt(nil, int64(len(s.Sizes)), 10)
	buf = append(buf, '\n')
	for i, size := range s.Sizes {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = strconv.AppendInt(buf, int64(size), 10)
	}
	buf = append(buf, '\n')
	if _, err := bw.Write(buf); err != nil {
		return fmt.Errorf("failed to write layer sizes: %w", err)
	}

	for li := range s.Sizes {
		for j, bias := range s.Biases[li] {
			buf = strconv.AppendFloat(buf[:0], float64(bias), 'g', -1, 32)
			if li > 0 {
				for _, wt := range s.Weights[li][j] {
					buf = append(buf, ' ')
					buf = strconv.AppendFloat(buf, float64(wt), 'g', -1, 32)
				}
			}
			buf = append(buf, '\n')
			if _, err := bw.Write(buf); err != nil {
				return fmt.Errorf("failed to write layer %d neuron %d: %w", li, j, err)
			}
		}
	}
	return bw.Flush()
}

// ReadText decodes a network written by WriteText. The result has sigmoid activations.
func ReadText(r io.Reader) (nn.State, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)

	next := func(what string) (string, error) {
		if sc.Scan() {
			return sc.Text(), nil
		}
		if err := sc.Err(); err != nil {
			return "", fmt.Errorf("failed to read %s: %w", what, err)
		}
		return "", fmt.Errorf("%w: reading %s", ErrTruncated, what)
	}
	nextInt := func(what string) (int, error) {
		tok, err := next(what)
		if err != nil {
			return 0, err
		}
		v, err := strconv.Atoi(tok)
		if err != nil {
			return 0, fmt.Errorf("invalid %s %q: %w", what, tok, err)
		}
		return v, nil
	}
	nextFloat := func(what string) (float32, error) {
		tok, err := next(what)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseFloat(tok, 32)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("invalid %s %q: %w", what, tok, err)
		}
		return float32(v), nil
	}

	count, err := nextInt("layer count")
	if err != nil {
		return nn.State{}, err
	}
	if count <= 0 || count > MaxLayers {
		return nn.State{}, &ValidationError{
			Type:    "layer_count",
			Details: fmt.Sprintf("got %d layers, want 1..%d", count, MaxLayers),
		}
	}
	sizes := make([]int, count)
	for i := range sizes {
		if sizes[i], err = nextInt("layer size"); err != nil {
			return nn.State{}, err
		}
	}
	if err := ValidateLayerSizes(sizes); err != nil {
		return nn.State{}, err
	}

	// Slices grow with the values actually read so a short file cannot force the
	// allocation its header declares.
	s := nn.State{
		Sizes:   sizes,
		Biases:  make([][]float32, count),
		Weights: make([][][]float32, count),
	}
	for li, size := range sizes {
		var fanIn int
		if li > 0 {
			fanIn = sizes[li-1]
		}
		for j := 0; j < size; j++ {
			bias, err := nextFloat("bias")
			if err != nil {
				return nn.State{}, err
			}
			s.Biases[li] = append(s.Biases[li], bias)
			var row []float32
			for k := 0; k < fanIn; k++ {
				wt, err := nextFloat("weight")
				if err != nil {
					return nn.State{}, err
				}
				row = append(row, wt)
			}
			if row == nil {
				row = []float32{}
			}
			s.Weights[li] = append(s.Weights[li], row)
		}
	}
	return s, nil
}
