package serialization

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// checksumPrefix tags the algorithm in the stored checksum string.
const checksumPrefix = "sha256:"

// ComputeChecksum returns the tagged hex SHA-256 of data (e.g. "sha256:e3b0...").
func ComputeChecksum(data []byte) string {
	sum := sha256.Sum256(data)
	return checksumPrefix + hex.EncodeToString(sum[:])
}

// ValidateChecksum compares the checksum of data against a stored checksum.
// Returns ErrChecksumMismatch if they don't match.
func ValidateChecksum(data []byte, stored string) error {
	if computed := ComputeChecksum(data); computed != stored {
		return fmt.Errorf("%w: stored %s, computed %s", ErrChecksumMismatch, stored, computed)
	}
	return nil
}
