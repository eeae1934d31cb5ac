package serialization

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/born-ml/rzrnn/internal/nn"
)

// Format identifies an on-disk model encoding.
type Format int

const (
	// FormatBinary is the checksummed .rzrnn format.
	FormatBinary Format = iota
	// FormatText is the plain text format.
	FormatText
	// FormatSafeTensors is the SafeTensors format.
	FormatSafeTensors
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatBinary:
		return "rzrnn"
	case FormatText:
		return "text"
	case FormatSafeTensors:
		return "safetensors"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// FormatForPath picks the format from the file extension: ".txt" is text, ".safetensors" is
// SafeTensors and anything else is .rzrnn.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		return FormatText
	case ".safetensors":
		return FormatSafeTensors
	default:
		return FormatBinary
	}
}

// Save writes a network state to path in the format chosen by FormatForPath.
// Metadata is dropped by the text format.
func Save(path string, s nn.State, metadata map[string]string) error {
	return SaveFormat(path, FormatForPath(path), s, metadata)
}

// SaveFormat writes a network state to path in the given format.
func SaveFormat(path string, format Format, s nn.State, metadata map[string]string) (err error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model saving
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close file: %w", cerr)
		}
	}()

	bw := bufio.NewWriter(file)
	switch format {
	case FormatText:
		err = WriteText(bw, s)
	case FormatSafeTensors:
		err = EncodeSafeTensors(bw, s, metadata)
	default:
		err = Write(bw, s, metadata)
	}
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return bw.Flush()
}

// Load reads a model file in any supported format.
//
// Files starting with the .rzrnn magic are decoded as .rzrnn, ".safetensors" files as
// SafeTensors, and everything else as text. For text and SafeTensors files the header only
// carries the layer sizes, activations and metadata.
func Load(path string) (*Model, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model loading
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		_ = file.Close() // Read-only, close error carries no information
	}()

	br := bufio.NewReader(file)
	magic, err := br.Peek(len(MagicBytes))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var model *Model
	switch {
	case string(magic) == MagicBytes:
		model, err = Read(br)
	case FormatForPath(path) == FormatSafeTensors:
		var s nn.State
		var meta map[string]string
		s, meta, err = DecodeSafeTensors(br)
		model = modelFromState(s, meta)
	default:
		var s nn.State
		s, err = ReadText(br)
		model = modelFromState(s, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return model, nil
}

func modelFromState(s nn.State, metadata map[string]string) *Model {
	return &Model{
		Header: Header{
			LayerSizes:  append([]int{}, s.Sizes...),
			Activations: activationNames(s),
			Metadata:    metadata,
		},
		State: s,
	}
}
