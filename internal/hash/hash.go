// Package hash provides content hashing for skill bundles and cache keys.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
)

// ShortLength is the number of hex characters shown for abbreviated hashes.
const ShortLength = 12

// SHA256 returns the full hex-encoded SHA256 of s.
func SHA256(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}

// Short abbreviates a hex digest for display. Shorter inputs are returned as is.
func Short(digest string) string {
	if len(digest) <= ShortLength {
		return digest
	}
	return digest[:ShortLength]
}
