package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sign(secret, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	body := `{"event":"payment.completed","data":{"id":"p1","amount":480}}`
	secret := "s3cr3t"

	tests := []struct {
		name      string
		secret    string
		body      string
		signature string
		want      bool
	}{
		{
			name:      "valid signature",
			secret:    secret,
			body:      body,
			signature: sign(secret, body),
			want:      true,
		},
		{
			name:      "valid signature with sha256 prefix",
			secret:    secret,
			body:      body,
			signature: "sha256=" + sign(secret, body),
			want:      true,
		},
		{
			name:      "body tampered after signing",
			secret:    secret,
			body:      `{"event":"payment.completed","data":{"id":"p1","amount":481}}`,
			signature: sign(secret, body),
			want:      false,
		},
		{
			name:      "signature computed with wrong secret",
			secret:    secret,
			body:      body,
			signature: sign("wrong", body),
			want:      false,
		},
		{
			name:      "missing signature header",
			secret:    secret,
			body:      body,
			signature: "",
			want:      false,
		},
		{
			name:      "missing secret fails closed",
			secret:    "",
			body:      body,
			signature: sign(secret, body),
			want:      false,
		},
		{
			name:      "malformed hex",
			secret:    secret,
			body:      body,
			signature: "not-hex-at-all",
			want:      false,
		},
		{
			name:      "truncated signature",
			secret:    secret,
			body:      body,
			signature: sign(secret, body)[:32],
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := VerifySignature([]byte(tt.secret), []byte(tt.body), tt.signature)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVerifySignatureSingleByteMutation(t *testing.T) {
	secret := []byte("s3cr3t")
	body := []byte(`{"event":"payment.completed","data":{"id":"p1","amount":480}}`)
	signature := sign(string(secret), string(body))

	assert.True(t, VerifySignature(secret, body, signature))

	for i := range body {
		mutated := make([]byte, len(body))
		copy(mutated, body)
		mutated[i] ^= 0x01

		assert.False(t, VerifySignature(secret, mutated, signature), "mutation at byte %d accepted", i)
	}
}
