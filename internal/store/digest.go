package store

import (
	"crypto/sha256"
	"encoding/hex"
)

// digestDomain is the domain-separation prefix for save payload digests.
// The version suffix enables future algorithm migration.
const digestDomain = "ascent/save/v1"

// Digest computes the SHA-256 digest of a save payload with domain
// separation. Format: SHA256(domain + 0x00 + payload); the null byte
// separator prevents domain/payload boundary ambiguity.
//
// The digest is stored alongside the payload and re-verified on load to
// detect corruption in the underlying medium.
func Digest(payload []byte) string {
	h := sha256.New()
	h.Write([]byte(digestDomain))
	h.Write([]byte{0x00})
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}
