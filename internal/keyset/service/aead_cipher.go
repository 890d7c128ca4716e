package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	keysetDomain "github.com/allisson/keyrotator/internal/keyset/domain"
)

// AEADCipher implements SymmetricCipher on top of an AEAD construction. The IV
// half of the symmetric key is used as the nonce; every envelope draws a fresh
// key, so a nonce is never reused under the same key.
type AEADCipher struct {
	algorithm keysetDomain.Algorithm
	nonceSize int
	newAEAD   func(key []byte) (cipher.AEAD, error)
}

// NewAESGCMCipher creates an AES-256-GCM cipher.
func NewAESGCMCipher() *AEADCipher {
	return &AEADCipher{
		algorithm: keysetDomain.AESGCM,
		nonceSize: 12,
		newAEAD: func(key []byte) (cipher.AEAD, error) {
			block, err := aes.NewCipher(key)
			if err != nil {
				return nil, err
			}
			return cipher.NewGCM(block)
		},
	}
}

// NewChaCha20Poly1305Cipher creates a ChaCha20-Poly1305 cipher.
func NewChaCha20Poly1305Cipher() *AEADCipher {
	return &AEADCipher{
		algorithm: keysetDomain.ChaCha20,
		nonceSize: chacha20poly1305.NonceSize,
		newAEAD:   chacha20poly1305.New,
	}
}

// Algorithm returns the AEAD algorithm name.
func (c *AEADCipher) Algorithm() keysetDomain.Algorithm {
	return c.algorithm
}

// GenerateKey returns a random 32-byte key and a nonce-sized IV.
func (c *AEADCipher) GenerateKey() (keysetDomain.SymmetricKey, error) {
	return randomSymmetricKey(c.nonceSize)
}

// Encrypt seals plaintext with the key's IV as nonce and no additional data.
func (c *AEADCipher) Encrypt(key keysetDomain.SymmetricKey, plaintext []byte) ([]byte, error) {
	aead, err := c.aead(key)
	if err != nil {
		return nil, err
	}
	return aead.Seal(nil, key.IV, plaintext, nil), nil
}

// Decrypt opens ciphertext and verifies its authentication tag.
func (c *AEADCipher) Decrypt(key keysetDomain.SymmetricKey, ciphertext []byte) ([]byte, error) {
	aead, err := c.aead(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", keysetDomain.ErrDecryptionFailed, err)
	}

	plaintext, err := aead.Open(nil, key.IV, ciphertext, nil)
	if err != nil {
		return nil, keysetDomain.ErrDecryptionFailed
	}
	return plaintext, nil
}

func (c *AEADCipher) aead(key keysetDomain.SymmetricKey) (cipher.AEAD, error) {
	if len(key.Key) != symmetricKeySize {
		return nil, fmt.Errorf("%w: %s key must be %d bytes, got %d",
			keysetDomain.ErrInvalidKeySize, c.algorithm, symmetricKeySize, len(key.Key))
	}
	if len(key.IV) != c.nonceSize {
		return nil, fmt.Errorf("%w: %s nonce must be %d bytes, got %d",
			keysetDomain.ErrInvalidKeySize, c.algorithm, c.nonceSize, len(key.IV))
	}

	aead, err := c.newAEAD(key.Key)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create %s cipher: %v", keysetDomain.ErrEncryptionFailed, c.algorithm, err)
	}
	return aead, nil
}

// NewSymmetricCipher returns the cipher implementing alg.
func NewSymmetricCipher(alg keysetDomain.Algorithm) (SymmetricCipher, error) {
	switch alg {
	case keysetDomain.AESCBC:
		return NewAESCBCCipher(), nil
	case keysetDomain.AESGCM:
		return NewAESGCMCipher(), nil
	case keysetDomain.ChaCha20:
		return NewChaCha20Poly1305Cipher(), nil
	default:
		return nil, fmt.Errorf("%w: %q", keysetDomain.ErrUnsupportedAlgorithm, alg)
	}
}

func randomSymmetricKey(ivSize int) (keysetDomain.SymmetricKey, error) {
	key := make([]byte, symmetricKeySize)
	if _, err := rand.Read(key); err != nil {
		return keysetDomain.SymmetricKey{}, fmt.Errorf("failed to generate key: %w", err)
	}

	iv := make([]byte, ivSize)
	if _, err := rand.Read(iv); err != nil {
		keysetDomain.Zero(key)
		return keysetDomain.SymmetricKey{}, fmt.Errorf("failed to generate iv: %w", err)
	}

	return keysetDomain.SymmetricKey{Key: key, IV: iv}, nil
}
