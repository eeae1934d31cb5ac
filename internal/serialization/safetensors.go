package serialization

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/born-ml/rzrnn/internal/nn"
)

// SafeTensors metadata keys.
const (
	MetaLayerSizes  = "rzrnn.layer_sizes"
	MetaActivations = "rzrnn.activations"
)

const safeTensorsF32 = "F32"

// SafeTensorInfo describes a tensor in the SafeTensors header.
type SafeTensorInfo struct {
	DType       string   `json:"dtype"`
	Shape       []int    `json:"shape"`
	DataOffsets [2]int64 `json:"data_offsets"` // [start, end]
}

// SafeTensorsHeader is the JSON header of a SafeTensors file.
type SafeTensorsHeader struct {
	Metadata map[string]string
	Tensors  map[string]SafeTensorInfo
}

// UnmarshalJSON splits the flat SafeTensors header into metadata and tensors.
func (h *SafeTensorsHeader) UnmarshalJSON(data []byte) error {
	var rawMap map[string]json.RawMessage
	if err := json.Unmarshal(data, &rawMap); err != nil {
		return err
	}

	if metadataRaw, ok := rawMap["__metadata__"]; ok {
		if err := json.Unmarshal(metadataRaw, &h.Metadata); err != nil {
			return fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}

	h.Tensors = make(map[string]SafeTensorInfo, len(rawMap))
	for key, value := range rawMap {
		if key == "__metadata__" {
			continue
		}
		var info SafeTensorInfo
		if err := json.Unmarshal(value, &info); err != nil {
			return fmt.Errorf("failed to unmarshal tensor %s: %w", key, err)
		}
		h.Tensors[key] = info
	}
	return nil
}

// EncodeSafeTensors writes a network state in SafeTensors format.
//
// Format:
// [8 bytes: header_size (uint64 LE)]
// [header_size bytes: JSON header]
// [tensor data: raw bytes]
//
// Tensors are named as in the .rzrnn format and written in alphabetical order. Layer sizes
// and activations are stored in __metadata__ next to any caller metadata.
func EncodeSafeTensors(w io.Writer, s nn.State, metadata map[string]string) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("invalid state: %w", err)
	}

	data := encodeState(s)
	layout := tensorLayout(s.Sizes)
	sort.Slice(layout, func(i, j int) bool { return layout[i].Name < layout[j].Name })

	meta := make(map[string]string, len(metadata)+2)
	for k, v := range metadata {
		meta[k] = v
	}
	meta[MetaLayerSizes] = joinInts(s.Sizes)
	meta[MetaActivations] = strings.Join(activationNames(s), " ")

	header := make(map[string]any, len(layout)+1)
	header["__metadata__"] = meta

	var currentOffset int64
	for _, t := range layout {
		header[t.Name] = SafeTensorInfo{
			DType:       safeTensorsF32,
			Shape:       t.Shape,
			DataOffsets: [2]int64{currentOffset, currentOffset + t.Size},
		}
		currentOffset += t.Size
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}

	if err := binary.Write(w, binary.LittleEndian, uint64(len(headerJSON))); err != nil {
		return fmt.Errorf("failed to write header size: %w", err)
	}
	if _, err := w.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	// layout carries the offsets of the .rzrnn data section.
	for _, t := range layout {
		if _, err := w.Write(data[t.Offset : t.Offset+t.Size]); err != nil {
			return fmt.Errorf("failed to write tensor %s: %w", t.Name, err)
		}
	}
	return nil
}

// DecodeSafeTensors reads a network state written by EncodeSafeTensors.
//
// Layer sizes come from the metadata when present and otherwise from the bias shapes.
// The returned metadata excludes the rzrnn.* keys.
func DecodeSafeTensors(r io.Reader) (nn.State, map[string]string, error) {
	var headerSize uint64
	if err := binary.Read(r, binary.LittleEndian, &headerSize); err != nil {
		return nn.State{}, nil, truncated("header size", err)
	}
	if headerSize > MaxHeaderSize {
		return nn.State{}, nil, fmt.Errorf("%w: %d bytes", ErrHeaderTooLarge, headerSize)
	}

	headerBytes := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerBytes); err != nil {
		return nn.State{}, nil, truncated("header", err)
	}
	var header SafeTensorsHeader
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		return nn.State{}, nil, fmt.Errorf("failed to parse header JSON: %w", err)
	}

	sizes, err := safeTensorsSizes(header)
	if err != nil {
		return nn.State{}, nil, err
	}
	if err := ValidateLayerSizes(sizes); err != nil {
		return nn.State{}, nil, fmt.Errorf("validation failed: %w", err)
	}

	acts, err := safeTensorsActivations(header.Metadata, len(sizes))
	if err != nil {
		return nn.State{}, nil, err
	}

	tensors := make([]TensorMeta, 0, len(header.Tensors))
	for name, info := range header.Tensors {
		if info.DType != safeTensorsF32 {
			return nn.State{}, nil, &ValidationError{Type: "dtype", Tensor: name, Details: fmt.Sprintf("got %q, want %q", info.DType, safeTensorsF32)}
		}
		tensors = append(tensors, TensorMeta{
			Name:   name,
			DType:  DTypeFloat32,
			Shape:  info.Shape,
			Offset: info.DataOffsets[0],
			Size:   info.DataOffsets[1] - info.DataOffsets[0],
		})
	}
	dataSize := dataSectionSize(sizes)
	if err := ValidateTensors(sizes, tensors, dataSize); err != nil {
		return nn.State{}, nil, fmt.Errorf("validation failed: %w", err)
	}

	data, err := readData(r, dataSize)
	if err != nil {
		return nn.State{}, nil, err
	}

	state, err := decodeState(sizes, acts, tensors, data)
	if err != nil {
		return nn.State{}, nil, err
	}

	var meta map[string]string
	for k, v := range header.Metadata {
		if k == MetaLayerSizes || k == MetaActivations {
			continue
		}
		if meta == nil {
			meta = make(map[string]string)
		}
		meta[k] = v
	}
	return state, meta, nil
}

func safeTensorsSizes(h SafeTensorsHeader) ([]int, error) {
	if raw, ok := h.Metadata[MetaLayerSizes]; ok {
		fields := strings.Fields(raw)
		sizes := make([]int, len(fields))
		for i, f := range fields {
			v, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("invalid %s %q: %w", MetaLayerSizes, raw, err)
			}
			sizes[i] = v
		}
		return sizes, nil
	}

	// Without metadata every layer is identified by its bias vector.
	var sizes []int
	for i := 0; ; i++ {
		info, ok := h.Tensors[BiasName(i)]
		if !ok {
			break
		}
		if len(info.Shape) != 1 {
			return nil, &ValidationError{Type: "shape_mismatch", Tensor: BiasName(i), Details: fmt.Sprintf("shape %v, want 1-D", info.Shape)}
		}
		sizes = append(sizes, info.Shape[0])
	}
	if len(sizes) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingTensor, BiasName(0))
	}
	return sizes, nil
}

func safeTensorsActivations(meta map[string]string, layers int) ([]nn.ActivationKind, error) {
	raw, ok := meta[MetaActivations]
	if !ok {
		return nil, nil
	}
	names := strings.Fields(raw)
	if len(names) != layers {
		return nil, &ValidationError{
			Type:    "activation_count",
			Details: fmt.Sprintf("got %d activations for %d layers", len(names), layers),
		}
	}
	return parseActivations(names)
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}
