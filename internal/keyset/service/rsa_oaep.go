package service

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"fmt"

	keysetDomain "github.com/allisson/keyrotator/internal/keyset/domain"
)

// RSAOAEPCipher implements AsymmetricCipher with RSA-OAEP over SHA-256 and an
// empty label.
type RSAOAEPCipher struct{}

// NewRSAOAEPCipher creates an RSA-OAEP-SHA256 cipher.
func NewRSAOAEPCipher() *RSAOAEPCipher {
	return &RSAOAEPCipher{}
}

// GenerateKeyPair creates a new RSA key. bits must lie within
// [MinRSAKeyBits, MaxRSAKeyBits].
func (c *RSAOAEPCipher) GenerateKeyPair(bits int) (*rsa.PrivateKey, error) {
	if bits < keysetDomain.MinRSAKeyBits || bits > keysetDomain.MaxRSAKeyBits {
		return nil, fmt.Errorf("%w: rsa modulus of %d bits", keysetDomain.ErrInvalidKeySize, bits)
	}

	privateKey, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to generate rsa key: %v", keysetDomain.ErrEncryptionFailed, err)
	}
	return privateKey, nil
}

// Wrap encrypts plaintext with RSA-OAEP under publicKey.
func (c *RSAOAEPCipher) Wrap(publicKey *rsa.PublicKey, plaintext []byte) ([]byte, error) {
	ciphertext, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, publicKey, plaintext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: rsa wrap: %v", keysetDomain.ErrEncryptionFailed, err)
	}
	return ciphertext, nil
}

// Unwrap decrypts an RSA-OAEP payload with privateKey.
func (c *RSAOAEPCipher) Unwrap(privateKey *rsa.PrivateKey, ciphertext []byte) ([]byte, error) {
	plaintext, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, privateKey, ciphertext, nil)
	if err != nil {
		return nil, keysetDomain.ErrDecryptionFailed
	}
	return plaintext, nil
}
