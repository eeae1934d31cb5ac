package serialization

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ReaderOptions configures Read.
type ReaderOptions struct {
	SkipChecksumValidation bool            // Skip checksum validation (faster but less safe)
	ValidationLevel        ValidationLevel // Validation strictness level
}

// Read decodes a .rzrnn model with strict validation.
func Read(r io.Reader) (*Model, error) {
	return ReadWithOptions(r, ReaderOptions{ValidationLevel: ValidationStrict})
}

// ReadWithOptions decodes a .rzrnn model with custom options.
//
// Exactly the bytes described by the header are consumed; trailing data is left in r.
func ReadWithOptions(r io.Reader, opts ReaderOptions) (*Model, error) {
	prefix := make([]byte, prefixSize)
	if _, err := io.ReadFull(r, prefix); err != nil {
		return nil, truncated("prefix", err)
	}
	if string(prefix[:4]) != MagicBytes {
		return nil, fmt.Errorf("%w: got %q, want %q", ErrInvalidMagic, prefix[:4], MagicBytes)
	}
	if version := binary.LittleEndian.Uint32(prefix[4:8]); version != FormatVersion {
		return nil, fmt.Errorf("%w: got %d, expected %d", ErrUnsupportedVersion, version, FormatVersion)
	}
	headerSize := binary.LittleEndian.Uint64(prefix[12:20])
	if headerSize > MaxHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrHeaderTooLarge, headerSize)
	}

	headerBytes := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerBytes); err != nil {
		return nil, truncated("header", err)
	}
	var header Header
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		return nil, fmt.Errorf("failed to parse header JSON: %w", err)
	}

	//nolint:gosec // G115: headerSize is bounded by MaxHeaderSize.
	if padding := paddingFor(int64(headerSize)); padding > 0 {
		if _, err := io.CopyN(io.Discard, r, padding); err != nil {
			return nil, truncated("padding", err)
		}
	}

	// The data size always follows from the layer sizes, so they are checked at every level.
	if err := ValidateLayerSizes(header.LayerSizes); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	dataSize := dataSectionSize(header.LayerSizes)
	if err := ValidateHeader(&header, dataSize, opts.ValidationLevel); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if header.Activations != nil && len(header.Activations) != len(header.LayerSizes) {
		return nil, fmt.Errorf("validation failed: %w", &ValidationError{
			Type:    "activation_count",
			Details: fmt.Sprintf("got %d activations for %d layers", len(header.Activations), len(header.LayerSizes)),
		})
	}

	// Below strict validation the tensor table is not trusted and the canonical layout
	// for the layer sizes is used instead.
	tensors := header.Tensors
	if opts.ValidationLevel != ValidationStrict {
		tensors = tensorLayout(header.LayerSizes)
	}

	data, err := readData(r, dataSize)
	if err != nil {
		return nil, err
	}

	if !opts.SkipChecksumValidation {
		if err := ValidateChecksum(data, header.Checksum); err != nil {
			return nil, err
		}
	}

	acts, err := parseActivations(header.Activations)
	if err != nil {
		return nil, err
	}
	state, err := decodeState(header.LayerSizes, acts, tensors, data)
	if err != nil {
		return nil, err
	}
	return &Model{Header: header, State: state}, nil
}

// readData reads the data section. The buffer grows with the bytes actually present, so a
// header declaring more data than the stream holds fails with ErrTruncated without
// allocating the declared size up front.
func readData(r io.Reader, size int64) ([]byte, error) {
	if size > MaxDataSize {
		return nil, fmt.Errorf("validation failed: %w", &ValidationError{
			Type:    "data_size",
			Details: fmt.Sprintf("%d bytes, max %d", size, MaxDataSize),
		})
	}
	data, err := io.ReadAll(io.LimitReader(r, size))
	if err != nil {
		return nil, fmt.Errorf("failed to read tensor data: %w", err)
	}
	if int64(len(data)) < size {
		return nil, fmt.Errorf("%w: reading tensor data (%d of %d bytes)", ErrTruncated, len(data), size)
	}
	return data, nil
}

// truncated maps short reads to ErrTruncated.
func truncated(what string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: reading %s", ErrTruncated, what)
	}
	return fmt.Errorf("failed to read %s: %w", what, err)
}
