package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashString creates a SHA-256 hash of the input string
func HashString(input string) string {
	h := sha256.New()
	h.Write([]byte(input))

	return hex.EncodeToString(h.Sum(nil))
}

// HashIdentity returns a short stable token for a submitter identity so that
// emails never appear verbatim in logs or stored submission records.
func HashIdentity(email string) string {
	return HashString(email)[:12]
}
