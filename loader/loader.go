// Package loader saves and loads trained networks.
//
// This package wraps the internal serialization formats and exports a small public API:
// the checksummed .rzrnn binary format, the plain text format and SafeTensors.
//
// Example usage:
//
//	import (
//	    "github.com/born-ml/rzrnn/loader"
//	    "github.com/born-ml/rzrnn/nn"
//	)
//
//	// Save after training
//	if err := loader.SaveNetwork("model.rzrnn", net, map[string]string{"epochs": "10"}); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Load with format detection
//	net, header, err := loader.LoadNetwork("model.rzrnn")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Layers: %v\n", header.LayerSizes)
package loader

import (
	"fmt"

	"github.com/born-ml/rzrnn/internal/nn"
	"github.com/born-ml/rzrnn/internal/serialization"
)

// Format identifies an on-disk model encoding.
type Format = serialization.Format

// Supported model formats.
const (
	FormatBinary      Format = serialization.FormatBinary
	FormatText        Format = serialization.FormatText
	FormatSafeTensors Format = serialization.FormatSafeTensors
)

// Header describes a loaded model file.
type Header = serialization.Header

// Model is a decoded model file: its header and the network snapshot.
type Model = serialization.Model

// ValidationError provides detailed information about a rejected model file.
type ValidationError = serialization.ValidationError

// Errors returned while loading models.
var (
	ErrNotFound           = serialization.ErrNotFound
	ErrChecksumMismatch   = serialization.ErrChecksumMismatch
	ErrInvalidMagic       = serialization.ErrInvalidMagic
	ErrUnsupportedVersion = serialization.ErrUnsupportedVersion
	ErrTruncated          = serialization.ErrTruncated
)

// FormatForPath picks the format from the file extension.
func FormatForPath(path string) Format {
	return serialization.FormatForPath(path)
}

// Save writes a network snapshot in the format chosen by the file extension.
func Save(path string, s nn.State, metadata map[string]string) error {
	return serialization.Save(path, s, metadata)
}

// Load reads a model file, detecting the format.
func Load(path string) (*Model, error) {
	return serialization.Load(path)
}

// SaveNetwork snapshots net and saves it.
func SaveNetwork(path string, net *nn.Network, metadata map[string]string) error {
	return serialization.Save(path, net.State(), metadata)
}

// LoadNetwork loads a model file and rebuilds the network.
func LoadNetwork(path string) (*nn.Network, *Header, error) {
	model, err := serialization.Load(path)
	if err != nil {
		return nil, nil, err
	}
	net, err := nn.FromState(model.State)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", path, err)
	}
	return net, &model.Header, nil
}
