// Package secret encrypts profile and session records at rest.
//
// Records are sealed with AES-256-GCM under a key derived via
// HKDF-SHA256 from a master key held in a local file. The sealed blob
// is nonce||ciphertext and is opaque to every other component.
package secret

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/hkdf"
)

// ErrDecrypt is returned when a blob fails decryption or its integrity
// check. Callers treat this the same as a missing record.
var ErrDecrypt = errors.New("secret: decryption failed")

// KeySize is the master key length in bytes.
const KeySize = 32

// hkdfInfo binds derived keys to this store's purpose.
const hkdfInfo = "voxkit-record-store"

// Box seals and opens record blobs.
type Box struct {
	aead cipher.AEAD
}

// NewBox derives the record encryption key from masterKey and returns
// a ready-to-use Box.
func NewBox(masterKey []byte) (*Box, error) {
	if len(masterKey) != KeySize {
		return nil, fmt.Errorf("secret: master key must be %d bytes, got %d", KeySize, len(masterKey))
	}
	h := hkdf.New(sha256.New, masterKey, nil, []byte(hkdfInfo))
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(h, key); err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Box{aead: aead}, nil
}

// Seal encrypts plaintext and returns nonce||ciphertext.
func (b *Box) Seal(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, b.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return b.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Open decrypts a blob produced by Seal. Any tampering or truncation
// yields ErrDecrypt.
func (b *Box) Open(blob []byte) ([]byte, error) {
	ns := b.aead.NonceSize()
	if len(blob) < ns {
		return nil, ErrDecrypt
	}
	pt, err := b.aead.Open(nil, blob[:ns], blob[ns:], nil)
	if err != nil {
		return nil, ErrDecrypt
	}
	return pt, nil
}

// LoadOrCreateKey reads the master key from path, generating and
// persisting a fresh one (mode 0600) on first run.
func LoadOrCreateKey(path string) ([]byte, error) {
	key, err := os.ReadFile(path)
	if err == nil {
		if len(key) != KeySize {
			return nil, fmt.Errorf("secret: key file %s has wrong size %d", path, len(key))
		}
		return key, nil
	}
	if !os.IsNotExist(err) {
		return nil, err
	}

	key = make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, key, 0o600); err != nil {
		return nil, err
	}
	return key, nil
}
