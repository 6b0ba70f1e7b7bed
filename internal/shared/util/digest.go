package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest returns the first 12 hex characters of the SHA-256 of data.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:12]
}
