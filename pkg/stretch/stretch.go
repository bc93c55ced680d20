// Package stretch implements the iterated, salted MD5 used by the platform's
// login form to harden passwords before they leave the client.
//
// MD5 is not a security choice here: the server recomputes the same digest,
// so the output must match the platform byte for byte.
package stretch

import (
	"crypto/md5" // #nosec G501 -- protocol compatibility, not a security boundary
	"encoding/hex"
)

// DefaultIterations is used when a caller passes a non-positive count.
const DefaultIterations = 1024

// Hash returns the lowercase hex MD5 digest of s.
func Hash(s string) string {
	sum := md5.Sum([]byte(s)) // #nosec G401
	return hex.EncodeToString(sum[:])
}

// Stretch digests salt+secret, then re-digests hex(previous)+secret
// iterations times and returns the final digest as lowercase hex.
func Stretch(secret, salt string, iterations int) string {
	if iterations <= 0 {
		iterations = DefaultIterations
	}

	digest := Hash(salt + secret)
	for i := 0; i < iterations; i++ {
		digest = Hash(digest + secret)
	}
	return digest
}

// Credential builds the composite password_hashes field the login endpoint
// expects from three salts: "<hash1>,<hash2>,<salt1>".
func Credential(password string, salts [3]string, iterations int) string {
	first := Stretch(password, salts[0], iterations)
	second := Stretch(password, salts[2], iterations)
	return Hash(first+salts[1]) + "," + second + "," + salts[1]
}
