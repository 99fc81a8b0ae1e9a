package evidence

import (
	"crypto/sha256"
	"encoding/hex"
)

// hashByteLen is 16 bytes (128 bits), the truncated content hash width the
// spec requires for bundle_hash and goal_id/goalKey derivation.
const hashByteLen = 16

// ContentHash returns the lowercase hex-encoded, truncated-128-bit SHA-256
// digest of v's canonical form. Identical semantic values always produce
// identical hashes regardless of map key insertion order.
func ContentHash(v interface{}) (string, error) {
	data, err := Canonicalize(v)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:hashByteLen]), nil
}

// MustContentHash panics on canonicalization failure. Used only where v's
// shape is statically known to be canonicalizable (plain structs/maps of
// JSON-representable fields), never on externally-supplied data.
func MustContentHash(v interface{}) string {
	h, err := ContentHash(v)
	if err != nil {
		panic(err)
	}
	return h
}
