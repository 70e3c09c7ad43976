package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// VerifySignature reports whether signature is a valid HMAC-SHA256 hex
// digest of body under secret. The digest is computed over the exact
// bytes received; re-encoded JSON would not round-trip byte-for-byte.
// An optional "sha256=" prefix on the signature is accepted. A missing
// secret or signature fails closed, and the comparison runs in
// constant time.
func VerifySignature(secret, body []byte, signature string) bool {
	if len(secret) == 0 || signature == "" {
		return false
	}

	signature = strings.TrimPrefix(signature, "sha256=")

	provided, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, secret)
	mac.Write(body)

	return hmac.Equal(provided, mac.Sum(nil))
}
