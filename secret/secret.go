// Package secret encrypts and decrypts per-tenant page access tokens.
// The rest of the service only sees the Box interface; key handling stays
// here.
package secret

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

// Box is the encrypt/decrypt capability handed to the webhook pipeline.
type Box interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

type aesBox struct {
	gcm cipher.AEAD
}

// NewBox builds an AES-256-GCM Box from a 32-byte key.
func NewBox(key []byte) (Box, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("token key must be 32 bytes, got %d", len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &aesBox{gcm: gcm}, nil
}

// Encrypt returns base64(nonce || sealed).
func (b *aesBox) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, b.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	sealed := b.gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (b *aesBox) Decrypt(ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("decode token: %w", err)
	}
	if len(raw) < b.gcm.NonceSize() {
		return "", errors.New("token ciphertext too short")
	}
	nonce, sealed := raw[:b.gcm.NonceSize()], raw[b.gcm.NonceSize():]
	plain, err := b.gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("open token: %w", err)
	}
	return string(plain), nil
}
