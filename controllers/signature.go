package controllers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// VerifySignature validates the raw request body against Meta's
// X-Hub-Signature-256 header: "sha256=" + hex(HMAC-SHA256(appSecret, body)).
// Anything malformed or missing fails closed.
func VerifySignature(body []byte, header, appSecret string) bool {
	if appSecret == "" {
		return false
	}

	sig := strings.TrimSpace(header)
	if !strings.HasPrefix(sig, "sha256=") {
		return false
	}
	provided, err := hex.DecodeString(strings.TrimPrefix(sig, "sha256="))
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write(body)
	return hmac.Equal(provided, mac.Sum(nil))
}
