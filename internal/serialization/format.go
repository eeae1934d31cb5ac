package serialization

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/born-ml/rzrnn/internal/nn"
)

// Format constants.
const (
	MagicBytes      = "RZNN"
	FormatVersion   = 1  // v1: JSON header + float32 data + SHA-256 checksum
	HeaderAlignment = 64 // Align tensor data to 64 bytes
	DTypeFloat32    = "float32"
	prefixSize      = 4 + 4 + 4 + 8 // magic + version + flags + header size
	float32Size     = 4
)

// Flags for the .rzrnn format.
const (
	FlagHasMetadata uint32 = 1 << 0 // custom metadata included
)

// Version is written into every header.
const Version = "0.1.0"

// Header represents the JSON header in a .rzrnn file.
type Header struct {
	FormatVersion int               `json:"format_version"` // Version of the .rzrnn format
	RzrnnVersion  string            `json:"rzrnn_version"`  // Version of the writer
	CreatedAt     time.Time         `json:"created_at"`     // When the file was created
	LayerSizes    []int             `json:"layer_sizes"`    // Neuron count per layer, input first
	Activations   []string          `json:"activations"`    // Activation name per layer
	Tensors       []TensorMeta      `json:"tensors"`        // Tensor table, in data order
	Metadata      map[string]string `json:"metadata"`       // Custom metadata
	Checksum      string            `json:"checksum"`       // "sha256:<hex>" of the data section
}

// TensorMeta describes a tensor in the data section.
type TensorMeta struct {
	Name   string `json:"name"`   // Tensor name (e.g., "layer.1.weight")
	DType  string `json:"dtype"`  // Data type, always "float32"
	Shape  []int  `json:"shape"`  // Tensor shape
	Offset int64  `json:"offset"` // Offset in the data section
	Size   int64  `json:"size"`   // Size in bytes
}

// Model is a decoded model file.
type Model struct {
	Header Header
	State  nn.State
}

// BiasName returns the tensor name of layer i's biases.
func BiasName(layer int) string {
	return "layer." + strconv.Itoa(layer) + ".bias"
}

// WeightName returns the tensor name of layer i's weight matrix.
func WeightName(layer int) string {
	return "layer." + strconv.Itoa(layer) + ".weight"
}

// parseTensorName splits "layer.<i>.<kind>" into its parts.
func parseTensorName(name string) (layer int, kind string, ok bool) {
	parts := strings.Split(name, ".")
	if len(parts) != 3 || parts[0] != "layer" {
		return 0, "", false
	}
	layer, err := strconv.Atoi(parts[1])
	if err != nil || layer < 0 {
		return 0, "", false
	}
	if parts[2] != "bias" && parts[2] != "weight" {
		return 0, "", false
	}
	return layer, parts[2], true
}

// tensorLayout returns the tensor table for the given layer sizes, in data order.
func tensorLayout(sizes []int) []TensorMeta {
	metas := make([]TensorMeta, 0, 2*len(sizes))
	var offset int64
	add := func(name string, shape ...int) {
		n := int64(1)
		for _, d := range shape {
			n *= int64(d)
		}
		metas = append(metas, TensorMeta{
			Name:   name,
			DType:  DTypeFloat32,
			Shape:  shape,
			Offset: offset,
			Size:   n * float32Size,
		})
		offset += n * float32Size
	}

	for i, size := range sizes {
		add(BiasName(i), size)
		if i > 0 {
			add(WeightName(i), size, sizes[i-1])
		}
	}
	return metas
}

// encodeState serializes biases and weights as float32 LE in tensorLayout order.
func encodeState(s nn.State) []byte {
	var n int
	for i, size := range s.Sizes {
		n += size
		if i > 0 {
			n += size * s.Sizes[i-1]
		}
	}

	buf := make([]byte, 0, n*float32Size)
	for i := range s.Sizes {
		buf = appendFloats(buf, s.Biases[i])
		if i > 0 {
			for _, row := range s.Weights[i] {
				buf = appendFloats(buf, row)
			}
		}
	}
	return buf
}

// decodeState rebuilds biases and weights from the data section. The header must have
// been validated against len(data).
func decodeState(sizes []int, acts []nn.ActivationKind, tensors []TensorMeta, data []byte) (nn.State, error) {
	s := nn.State{
		Sizes:       append([]int{}, sizes...),
		Activations: acts,
		Biases:      make([][]float32, len(sizes)),
		Weights:     make([][][]float32, len(sizes)),
	}
	s.Weights[0] = make([][]float32, sizes[0])
	for j := range s.Weights[0] {
		s.Weights[0][j] = []float32{}
	}

	byName := make(map[string]TensorMeta, len(tensors))
	for _, t := range tensors {
		byName[t.Name] = t
	}
	section := func(name string) ([]byte, error) {
		t, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingTensor, name)
		}
		return data[t.Offset : t.Offset+t.Size], nil
	}

	for i, size := range sizes {
		raw, err := section(BiasName(i))
		if err != nil {
			return nn.State{}, err
		}
		s.Biases[i] = readFloats(raw, size)
		if i == 0 {
			continue
		}

		raw, err = section(WeightName(i))
		if err != nil {
			return nn.State{}, err
		}
		fanIn := sizes[i-1]
		s.Weights[i] = make([][]float32, size)
		for j := range s.Weights[i] {
			s.Weights[i][j] = readFloats(raw[j*fanIn*float32Size:], fanIn)
		}
	}
	return s, nil
}

func appendFloats(buf []byte, values []float32) []byte {
	for _, v := range values {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
	}
	return buf
}

func readFloats(raw []byte, n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*float32Size:]))
	}
	return out
}

// activationNames converts kinds to header strings; nil means all sigmoid.
func activationNames(s nn.State) []string {
	names := make([]string, len(s.Sizes))
	for i := range names {
		k := nn.Sigmoid
		if s.Activations != nil {
			k = s.Activations[i]
		}
		names[i] = k.String()
	}
	return names
}

// parseActivations converts header strings back to kinds.
func parseActivations(names []string) ([]nn.ActivationKind, error) {
	if names == nil {
		return nil, nil
	}
	kinds := make([]nn.ActivationKind, len(names))
	for i, name := range names {
		k, err := nn.ParseActivation(name)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		kinds[i] = k
	}
	return kinds, nil
}
