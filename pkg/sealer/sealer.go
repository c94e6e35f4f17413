package sealer

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
)

// Sealer issues opaque slot tokens. A token encrypts the master, date and
// wall-clock time of an offered slot, so clients can echo an offer back
// without being able to forge or inspect it.
type Sealer struct {
	key []byte
}

// New derives the AES key from the configured secret. Hashing means the
// secret can be any length instead of exactly 32 bytes.
func New(secret string) *Sealer {
	sum := sha256.Sum256([]byte(secret))
	return &Sealer{key: sum[:]}
}

// SealSlot packs masterID, date ("2006-01-02") and clock ("15:04") into a
// URL-safe AES-GCM token with a random nonce prefix.
func (s *Sealer) SealSlot(masterID, date, clock string) (string, error) {
	plaintext := []byte(masterID + ":" + date + ":" + clock)

	block, err := aes.NewCipher(s.key)
	if err != nil {
		return "", err
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aesgcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ct := aesgcm.Seal(nonce, nonce, plaintext, nil)
	return base64.RawURLEncoding.EncodeToString(ct), nil
}

// ParseSlot reverses SealSlot. Tampered, truncated or foreign-key tokens
// all fail decryption.
func (s *Sealer) ParseSlot(token string) (string, string, string, error) {
	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", "", "", err
	}

	block, err := aes.NewCipher(s.key)
	if err != nil {
		return "", "", "", err
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", "", "", err
	}

	nonceSize := aesgcm.NonceSize()
	if len(data) < nonceSize {
		return "", "", "", fmt.Errorf("token too short")
	}
	nonce := data[:nonceSize]
	ciphertext := data[nonceSize:]

	pt, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", "", "", err
	}

	// The clock keeps its colon because SplitN caps at three parts.
	parts := strings.SplitN(string(pt), ":", 3)
	if len(parts) != 3 {
		return "", "", "", fmt.Errorf("invalid token format")
	}

	return parts[0], parts[1], parts[2], nil
}
