// Package crypto seals persisted blobs with AES-256-GCM.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"sync"
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
	// ErrOpenFailed is returned when a sealed blob cannot be authenticated.
	ErrOpenFailed = errors.New("open sealed blob: invalid ciphertext or key")
	// ErrCiphertextTooShort is returned when the ciphertext is too short.
	ErrCiphertextTooShort = errors.New("ciphertext too short")
)

// Sealer encrypts and decrypts blobs.
// Sealing the same plaintext twice in one process returns the same
// ciphertext so an unchanged collection maps to an unchanged git blob.
type Sealer struct {
	gcm  cipher.AEAD
	memo map[[sha256.Size]byte][]byte
	mu   sync.Mutex
}

// NewSealer creates a Sealer from a hex-encoded 32-byte key.
func NewSealer(hexKey string) (*Sealer, error) {
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

	return &Sealer{
		gcm:  gcm,
		memo: make(map[[sha256.Size]byte][]byte),
	}, nil
}

// GenerateKey returns a random hex-encoded key suitable for NewSealer.
func GenerateKey() (string, error) {
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return "", fmt.Errorf("generate key: %w", err)
	}
	return hex.EncodeToString(key), nil
}

// Seal encrypts plaintext. The result is nonce || ciphertext || tag.
func (s *Sealer) Seal(plaintext []byte) ([]byte, error) {
	sum := sha256.Sum256(plaintext)

	s.mu.Lock()
	defer s.mu.Unlock()

	if sealed, ok := s.memo[sum]; ok {
		return sealed, nil
	}

	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	sealed := s.gcm.Seal(nonce, nonce, plaintext, nil)
	s.memo[sum] = sealed
	return sealed, nil
}

// Open decrypts a blob produced by Seal.
func (s *Sealer) Open(sealed []byte) ([]byte, error) {
	if len(sealed) < NonceSize {
		return nil, ErrCiphertextTooShort
	}

	plaintext, err := s.gcm.Open(nil, sealed[:NonceSize], sealed[NonceSize:], nil)
	if err != nil {
		return nil, ErrOpenFailed
	}

	// Remember the pairing so re-sealing the same content is stable.
	sum := sha256.Sum256(plaintext)
	s.mu.Lock()
	if _, ok := s.memo[sum]; !ok {
		s.memo[sum] = append([]byte(nil), sealed...)
	}
	s.mu.Unlock()

	return plaintext, nil
}
