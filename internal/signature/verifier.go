// Package signature implements HMAC verification of webhook payloads.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Prefix is the algorithm marker providers may put in front of the hex digest.
const Prefix = "sha256="

// Compute returns the lowercase hex HMAC-SHA256 of body keyed by secret.
// The body must be the exact raw request bytes: re-serializing parsed JSON
// changes whitespace and key order and produces a different digest.
func Compute(body []byte, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

// Normalize strips surrounding whitespace and the sha256= prefix from a
// signature header value.
func Normalize(sig string) string {
	s := strings.TrimSpace(sig)
	return strings.TrimPrefix(s, Prefix)
}

// Verify reports whether supplied is a valid HMAC-SHA256 signature of body
// under secret. The supplied value may carry the sha256= prefix. Comparison
// happens on the decoded digest bytes in constant time; malformed hex or a
// length mismatch yields false without an error.
func Verify(body []byte, secret, supplied string) bool {
	got, err := hex.DecodeString(Normalize(supplied))
	if err != nil {
		return false
	}

	h := hmac.New(sha256.New, []byte(secret))
	h.Write(body)
	expected := h.Sum(nil)

	return hmac.Equal(got, expected)
}

// SecretEqual compares two shared secrets in constant time.
func SecretEqual(supplied, stored string) bool {
	return hmac.Equal([]byte(supplied), []byte(stored))
}
