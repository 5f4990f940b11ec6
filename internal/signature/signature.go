// Package signature implements webhook payload verification for the Meta
// X-Hub-Signature-256 header scheme.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const headerPrefix = "sha256="

// Verify reports whether header carries a valid HMAC-SHA256 signature of
// body under secret. The header must be in the "sha256=<hex>" form Meta
// sends; anything else fails closed.
func Verify(secret, body []byte, header string) bool {
	if len(secret) == 0 || !strings.HasPrefix(header, headerPrefix) {
		return false
	}
	provided, err := hex.DecodeString(strings.TrimPrefix(header, headerPrefix))
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	expected := mac.Sum(nil)
	if len(provided) != len(expected) {
		return false
	}
	return hmac.Equal(provided, expected)
}

// Sign produces the header value Meta would send for body. Used by tests and
// local tooling to fabricate valid requests.
func Sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return headerPrefix + hex.EncodeToString(mac.Sum(nil))
}
