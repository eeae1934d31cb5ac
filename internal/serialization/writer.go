package serialization

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/born-ml/rzrnn/internal/nn"
)

// Write encodes a network state in .rzrnn format.
//
// Layout:
//
//	magic "RZNN" | version u32 | flags u32 | header size u64 | header JSON | padding | data
//
// The data section holds every bias vector and weight matrix as little-endian float32,
// in the order given by the header's tensor table. The header carries the SHA-256 of the
// data section.
func Write(w io.Writer, s nn.State, metadata map[string]string) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("invalid state: %w", err)
	}
	if err := ValidateLayerSizes(s.Sizes); err != nil {
		return err
	}

	data := encodeState(s)
	header := Header{
		FormatVersion: FormatVersion,
		RzrnnVersion:  Version,
		CreatedAt:     time.Now().UTC(),
		LayerSizes:    append([]int{}, s.Sizes...),
		Activations:   activationNames(s),
		Tensors:       tensorLayout(s.Sizes),
		Metadata:      metadata,
		Checksum:      ComputeChecksum(data),
	}
	if header.Metadata == nil {
		header.Metadata = make(map[string]string)
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}

	flags := uint32(0)
	if len(header.Metadata) > 0 {
		flags |= FlagHasMetadata
	}

	prefix := make([]byte, 0, prefixSize)
	prefix = append(prefix, MagicBytes...)
	prefix = binary.LittleEndian.AppendUint32(prefix, FormatVersion)
	prefix = binary.LittleEndian.AppendUint32(prefix, flags)
	prefix = binary.LittleEndian.AppendUint64(prefix, uint64(len(headerJSON)))
	if _, err := w.Write(prefix); err != nil {
		return fmt.Errorf("failed to write prefix: %w", err)
	}

	if _, err := w.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	if padding := paddingFor(int64(len(headerJSON))); padding > 0 {
		if _, err := w.Write(make([]byte, padding)); err != nil {
			return fmt.Errorf("failed to write padding: %w", err)
		}
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write tensor data: %w", err)
	}
	return nil
}

// paddingFor returns the number of zero bytes between a header of the given size and the
// 64-byte aligned data section.
func paddingFor(headerSize int64) int64 {
	pos := int64(prefixSize) + headerSize
	return (HeaderAlignment - pos%HeaderAlignment) % HeaderAlignment
}
