// Package checksum fingerprints month files so unchanged files can be skipped.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Changed reports whether data no longer matches the known digest. An empty
// digest always counts as changed.
func Changed(known string, data []byte) bool {
	return known == "" || known != Sum(data)
}
