package service

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	keysetDomain "github.com/allisson/keyrotator/internal/keyset/domain"
)

// symmetricKeySize is the key length shared by every supported symmetric algorithm.
const symmetricKeySize = 32

// AESCBCCipher implements SymmetricCipher with AES-256-CBC and PKCS#7 padding.
//
// CBC provides confidentiality only. Integrity of envelopes relies on the
// wrapped key: a tampered ciphertext usually fails padding checks but is not
// guaranteed to. Prefer AESGCM or ChaCha20 for new deployments.
type AESCBCCipher struct{}

// NewAESCBCCipher creates an AES-256-CBC cipher.
func NewAESCBCCipher() *AESCBCCipher {
	return &AESCBCCipher{}
}

// Algorithm returns AESCBC.
func (c *AESCBCCipher) Algorithm() keysetDomain.Algorithm {
	return keysetDomain.AESCBC
}

// GenerateKey returns a random 32-byte key and 16-byte IV.
func (c *AESCBCCipher) GenerateKey() (keysetDomain.SymmetricKey, error) {
	return randomSymmetricKey(aes.BlockSize)
}

// Encrypt pads plaintext with PKCS#7 and encrypts it in CBC mode.
func (c *AESCBCCipher) Encrypt(key keysetDomain.SymmetricKey, plaintext []byte) ([]byte, error) {
	block, err := c.block(key)
	if err != nil {
		return nil, err
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, key.IV).CryptBlocks(ciphertext, padded)
	return ciphertext, nil
}

// Decrypt decrypts CBC ciphertext and strips its PKCS#7 padding.
func (c *AESCBCCipher) Decrypt(key keysetDomain.SymmetricKey, ciphertext []byte) ([]byte, error) {
	block, err := c.block(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", keysetDomain.ErrDecryptionFailed, err)
	}

	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, keysetDomain.ErrDecryptionFailed
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, key.IV).CryptBlocks(plaintext, ciphertext)

	unpadded, ok := pkcs7Unpad(plaintext, aes.BlockSize)
	if !ok {
		keysetDomain.Zero(plaintext)
		return nil, keysetDomain.ErrDecryptionFailed
	}
	return unpadded, nil
}

func (c *AESCBCCipher) block(key keysetDomain.SymmetricKey) (cipher.Block, error) {
	if len(key.Key) != symmetricKeySize {
		return nil, fmt.Errorf("%w: aes key must be %d bytes, got %d",
			keysetDomain.ErrInvalidKeySize, symmetricKeySize, len(key.Key))
	}
	if len(key.IV) != aes.BlockSize {
		return nil, fmt.Errorf("%w: aes-cbc iv must be %d bytes, got %d",
			keysetDomain.ErrInvalidKeySize, aes.BlockSize, len(key.IV))
	}

	block, err := aes.NewCipher(key.Key)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create AES cipher: %v", keysetDomain.ErrEncryptionFailed, err)
	}
	return block, nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	return append(bytes.Clone(data), bytes.Repeat([]byte{byte(padding)}, padding)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, bool) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, false
	}
	padding := int(data[len(data)-1])
	if padding == 0 || padding > blockSize {
		return nil, false
	}
	for _, b := range data[len(data)-padding:] {
		if int(b) != padding {
			return nil, false
		}
	}
	return data[:len(data)-padding], true
}
