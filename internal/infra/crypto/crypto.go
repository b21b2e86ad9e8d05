// Package crypto seals the values of a storage tier with AES-256-GCM.
package crypto

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/runoshun/taskboard/internal/domain"
)

const (
	// NonceSize is the size of the nonce for AES-GCM (12 bytes).
	NonceSize = 12
	// KeySize is the size of the AES-256 key (32 bytes).
	KeySize = 32
)

var (
	// ErrInvalidKey is returned when the encryption key is invalid.
	ErrInvalidKey = errors.New("invalid encryption key: must be 32 bytes (64 hex characters)")
	// ErrDecryptionFailed is returned when decryption fails.
	ErrDecryptionFailed = errors.New("decryption failed: invalid ciphertext or key")
	// ErrCiphertextTooShort is returned when the ciphertext is too short.
	ErrCiphertextTooShort = errors.New("ciphertext too short")
)

// Encryptor handles AES-256-GCM encryption with deterministic nonces.
//
// The nonce is an HMAC of the plaintext, so equal values seal to equal
// bytes and an unchanged board does not produce a new git blob.
type Encryptor struct {
	gcm    cipher.AEAD
	macKey []byte
}

// NewEncryptor creates a new Encryptor with the given hex-encoded key.
func NewEncryptor(hexKey string) (*Encryptor, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil || len(key) != KeySize {
		return nil, ErrInvalidKey
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create GCM: %w", err)
	}

	// Separate the nonce key from the cipher key.
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte("taskboard nonce"))
	return &Encryptor{gcm: gcm, macKey: mac.Sum(nil)}, nil
}

// Encrypt returns nonce (12 bytes) + ciphertext + auth tag.
func (e *Encryptor) Encrypt(plaintext []byte) []byte {
	mac := hmac.New(sha256.New, e.macKey)
	mac.Write(plaintext)
	nonce := mac.Sum(nil)[:NonceSize]
	return e.gcm.Seal(nonce, nonce, plaintext, nil)
}

// Decrypt opens the output of Encrypt.
func (e *Encryptor) Decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < NonceSize {
		return nil, ErrCiphertextTooShort
	}
	plaintext, err := e.gcm.Open(nil, ciphertext[:NonceSize], ciphertext[NonceSize:], nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

// Adapter is a domain.StorageAdapter that encrypts values before handing
// them to the wrapped tier.
type Adapter struct {
	inner domain.StorageAdapter
	enc   *Encryptor
}

var _ domain.StorageAdapter = (*Adapter)(nil)

// Wrap returns inner with its values sealed under hexKey.
func Wrap(inner domain.StorageAdapter, hexKey string) (*Adapter, error) {
	enc, err := NewEncryptor(hexKey)
	if err != nil {
		return nil, err
	}
	return &Adapter{inner: inner, enc: enc}, nil
}

// Name returns the name of the wrapped tier.
func (a *Adapter) Name() string {
	return a.inner.Name()
}

// Write seals value and writes it to the wrapped tier.
func (a *Adapter) Write(ctx context.Context, key string, value []byte) error {
	return a.inner.Write(ctx, key, a.enc.Encrypt(value))
}

// Read reads and opens the value under key. A value that does not open
// is reported as corrupt, never returned.
func (a *Adapter) Read(ctx context.Context, key string) ([]byte, error) {
	sealed, err := a.inner.Read(ctx, key)
	if err != nil {
		return nil, err
	}
	plain, err := a.enc.Decrypt(sealed)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return plain, nil
}

// Clear removes key from the wrapped tier.
func (a *Adapter) Clear(ctx context.Context, key string) error {
	return a.inner.Clear(ctx, key)
}
