// Package vault encrypts secret payloads at rest using AES-256-GCM.
package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

// ErrInvalidKey is returned when the encryption key is not 32 bytes.
var ErrInvalidKey = errors.New("vault: invalid encryption key")

// Vault encrypts/decrypts secret content using AES-256-GCM.
type Vault struct {
	aead cipher.AEAD
}

// New creates a Vault with the given 32-byte encryption key.
func New(key []byte) (*Vault, error) {
	if len(key) != 32 {
		return nil, ErrInvalidKey
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("vault.New: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("vault.New: %w", err)
	}

	return &Vault{aead: aead}, nil
}

// Encrypt encrypts plaintext and returns base64-encoded ciphertext.
// The output format is base64(nonce || ciphertext).
func (v *Vault) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, v.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("vault.Encrypt: generate nonce: %w", err)
	}

	// Seal appends the encrypted data to nonce, producing nonce || ciphertext.
	sealed := v.aead.Seal(nonce, nonce, []byte(plaintext), nil)

	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt decrypts base64-encoded ciphertext and returns plaintext.
// Expects the format base64(nonce || ciphertext).
func (v *Vault) Decrypt(ciphertext string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("vault.Decrypt: base64 decode: %w", err)
	}

	nonceSize := v.aead.NonceSize()
	if len(data) < nonceSize {
		return "", errors.New("vault.Decrypt: ciphertext too short")
	}

	nonce := data[:nonceSize]
	encrypted := data[nonceSize:]

	plaintext, err := v.aead.Open(nil, nonce, encrypted, nil)
	if err != nil {
		return "", fmt.Errorf("vault.Decrypt: %w", err)
	}

	return string(plaintext), nil
}
