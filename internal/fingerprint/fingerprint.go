// Package fingerprint derives deterministic content digests used for
// duplicate-session detection and cache keys. The text and audio lanes hash
// differently and must never share a key space.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Text fingerprints transcript content. Leading/trailing whitespace and letter
// case are normalized away so retyped transcripts dedupe correctly.
func Text(s string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(s))))
	return hex.EncodeToString(sum[:])
}

// Audio fingerprints raw audio bytes with no normalization.
func Audio(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
