package serialization

import (
	"fmt"
	"sort"
)

// Validation limits for resource protection.
const (
	MaxHeaderSize    = 100 * 1024 * 1024 // 100MB - maximum header size
	MaxLayers        = 4096              // Maximum number of layers in a file
	MaxLayerSize     = 1 << 24           // Maximum neurons per layer
	MaxTensorNameLen = 64                // Maximum tensor name length
	MaxParameters    = 1 << 26           // Maximum biases plus weights in one network
	MaxDataSize      = MaxParameters * float32Size
)

// ValidationLevel controls the strictness of validation.
type ValidationLevel int

const (
	// ValidationStrict performs all validation checks (default, recommended).
	ValidationStrict ValidationLevel = iota
	// ValidationNormal checks layer sizes and tensor names only.
	ValidationNormal
	// ValidationNone skips validation (use only with trusted input).
	ValidationNone
)

// ValidateLayerSizes checks the layer count and every layer size against the limits.
func ValidateLayerSizes(sizes []int) error {
	if len(sizes) == 0 || len(sizes) > MaxLayers {
		return &ValidationError{
			Type:    "layer_count",
			Details: fmt.Sprintf("got %d layers, want 1..%d", len(sizes), MaxLayers),
		}
	}
	for i, size := range sizes {
		if size <= 0 || size > MaxLayerSize {
			return &ValidationError{
				Type:    "layer_size",
				Details: fmt.Sprintf("layer %d has %d neurons, want 1..%d", i, size, MaxLayerSize),
			}
		}
	}
	if n := parameterCount(sizes); n > MaxParameters {
		return &ValidationError{
			Type:    "parameter_count",
			Details: fmt.Sprintf("%d parameters, max %d", n, MaxParameters),
		}
	}
	return nil
}

// parameterCount returns biases plus weights for sizes already bounded by MaxLayers and
// MaxLayerSize, so the sum cannot overflow int64.
func parameterCount(sizes []int) int64 {
	var n int64
	for i, size := range sizes {
		n += int64(size)
		if i > 0 {
			n += int64(size) * int64(sizes[i-1])
		}
	}
	return n
}

// ValidateTensorName checks that a name has the form "layer.<i>.bias" or "layer.<i>.weight".
func ValidateTensorName(name string) error {
	if len(name) > MaxTensorNameLen {
		return &ValidationError{
			Type:    "name_too_long",
			Tensor:  name,
			Details: fmt.Sprintf("length %d > max %d", len(name), MaxTensorNameLen),
		}
	}
	if _, _, ok := parseTensorName(name); !ok {
		return &ValidationError{
			Type:    "invalid_name",
			Tensor:  name,
			Details: `want "layer.<index>.bias" or "layer.<index>.weight"`,
		}
	}
	return nil
}

// ValidateTensors checks the tensor table against the layer sizes and the data section size.
//
// Every expected tensor must be present exactly once with the right shape, lie inside the
// data section, and not overlap any other tensor.
func ValidateTensors(sizes []int, tensors []TensorMeta, dataSize int64) error {
	expected := tensorLayout(sizes)
	if len(tensors) != len(expected) {
		return &ValidationError{
			Type:    "tensor_count",
			Details: fmt.Sprintf("got %d tensors, want %d for %d layers", len(tensors), len(expected), len(sizes)),
		}
	}

	want := make(map[string]TensorMeta, len(expected))
	for _, t := range expected {
		want[t.Name] = t
	}

	for _, t := range tensors {
		if err := ValidateTensorName(t.Name); err != nil {
			return err
		}
		exp, ok := want[t.Name]
		if !ok {
			return &ValidationError{Type: "unexpected_tensor", Tensor: t.Name, Details: "not part of the layer layout (or duplicated)"}
		}
		delete(want, t.Name)

		if t.DType != DTypeFloat32 {
			return &ValidationError{Type: "dtype", Tensor: t.Name, Details: fmt.Sprintf("got %q, want %q", t.DType, DTypeFloat32)}
		}
		if !equalShape(t.Shape, exp.Shape) || t.Size != exp.Size {
			return &ValidationError{
				Type:    "shape_mismatch",
				Tensor:  t.Name,
				Details: fmt.Sprintf("shape %v (%d bytes), want %v (%d bytes)", t.Shape, t.Size, exp.Shape, exp.Size),
			}
		}
		if t.Offset < 0 || t.Offset+t.Size > dataSize {
			return &ValidationError{
				Type:    "out_of_bounds",
				Tensor:  t.Name,
				Details: fmt.Sprintf("offset %d + size %d > data_size %d", t.Offset, t.Size, dataSize),
			}
		}
	}

	// Sort by offset so that any overlap shows up between neighbours.
	sorted := append([]TensorMeta(nil), tensors...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Offset < sorted[j].Offset })
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if prev.Offset+prev.Size > cur.Offset {
			return &ValidationError{
				Type:    "offset_overlap",
				Tensor:  cur.Name,
				Details: fmt.Sprintf("overlaps %q at offset %d", prev.Name, cur.Offset),
			}
		}
	}

	return nil
}

// ValidateHeader performs header validation at the given level.
func ValidateHeader(h *Header, dataSize int64, level ValidationLevel) error {
	if level == ValidationNone {
		return nil
	}

	if err := ValidateLayerSizes(h.LayerSizes); err != nil {
		return err
	}
	if h.Activations != nil && len(h.Activations) != len(h.LayerSizes) {
		return &ValidationError{
			Type:    "activation_count",
			Details: fmt.Sprintf("got %d activations for %d layers", len(h.Activations), len(h.LayerSizes)),
		}
	}
	for _, t := range h.Tensors {
		if err := ValidateTensorName(t.Name); err != nil {
			return err
		}
	}

	if level == ValidationStrict {
		return ValidateTensors(h.LayerSizes, h.Tensors, dataSize)
	}
	return nil
}

// dataSectionSize returns the number of data bytes implied by the layer sizes.
func dataSectionSize(sizes []int) int64 {
	var total int64
	for _, t := range tensorLayout(sizes) {
		total += t.Size
	}
	return total
}

func equalShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
