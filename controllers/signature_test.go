package controllers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"object":"page"}`)
	secret := "app-secret"

	assert.True(t, VerifySignature(body, sign(body, secret), secret))

	assert.False(t, VerifySignature(body, sign(body, "other-secret"), secret))
	assert.False(t, VerifySignature([]byte(`tampered`), sign(body, secret), secret))
	assert.False(t, VerifySignature(body, "", secret), "missing header")
	assert.False(t, VerifySignature(body, "sha1=abc", secret), "wrong algorithm prefix")
	assert.False(t, VerifySignature(body, "sha256=not-hex", secret))
	assert.False(t, VerifySignature(body, sign(body, secret), ""), "unset secret fails closed")
}
