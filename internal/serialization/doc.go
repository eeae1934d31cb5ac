// Package serialization saves and loads trained networks.
//
// The native .rzrnn format is a small checksummed binary container:
//
//	Format Structure:
//	  [4 bytes: Magic "RZNN"]
//	  [4 bytes: Version (uint32 LE)]
//	  [4 bytes: Flags (uint32 LE)]
//	  [8 bytes: Header Size (uint64 LE)]
//	  [Header: JSON metadata, layer sizes, activations, tensor table, SHA-256]
//	  [Tensor data: float32 LE, 64-byte aligned, layer order]
//
// Tensors are named "layer.<i>.bias" (shape [n_i]) for every layer and
// "layer.<i>.weight" (shape [n_i, n_{i-1}]) for every layer after the input layer.
//
// Two interchange formats are also supported:
//   - Plain text: layer count, layer sizes, then one "bias w0 w1 ..." line per neuron.
//   - SafeTensors: the same tensors as F32, activations in "__metadata__".
//
// Example usage:
//
//	// Save a network
//	if err := serialization.Save("model.rzrnn", net.State(), nil); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Load it back (format is detected from the magic bytes)
//	model, err := serialization.Load("model.rzrnn")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	net, err := nn.FromState(model.State)
package serialization
