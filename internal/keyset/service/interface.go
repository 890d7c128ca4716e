// Package service provides the cryptographic primitives behind key sets: RSA
// key pairs and OAEP wrapping, the symmetric ciphers used for envelope
// payloads, PEM encoding with optional KMS sealing, and identifier generation.
package service

import (
	"context"
	"crypto/rsa"

	keysetDomain "github.com/allisson/keyrotator/internal/keyset/domain"
)

// AsymmetricCipher generates RSA key pairs and wraps small payloads under them.
type AsymmetricCipher interface {
	// GenerateKeyPair creates a new RSA private key with the given modulus size.
	GenerateKeyPair(bits int) (*rsa.PrivateKey, error)

	// Wrap encrypts plaintext under the public key.
	Wrap(publicKey *rsa.PublicKey, plaintext []byte) ([]byte, error)

	// Unwrap decrypts a payload produced by Wrap.
	Unwrap(privateKey *rsa.PrivateKey, ciphertext []byte) ([]byte, error)
}

// SymmetricCipher encrypts envelope payloads with a key and IV pair.
type SymmetricCipher interface {
	// Algorithm returns the algorithm implemented by this cipher.
	Algorithm() keysetDomain.Algorithm

	// GenerateKey returns a fresh random key and IV sized for this cipher.
	GenerateKey() (keysetDomain.SymmetricKey, error)

	// Encrypt encrypts plaintext under key.
	Encrypt(key keysetDomain.SymmetricKey, plaintext []byte) ([]byte, error)

	// Decrypt decrypts ciphertext produced by Encrypt under the same key.
	Decrypt(key keysetDomain.SymmetricKey, ciphertext []byte) ([]byte, error)
}

// IdentifierGenerator allocates key set identifiers.
type IdentifierGenerator interface {
	Generate() (string, error)
}

// KeyCodec converts RSA keys to and from their PEM file contents.
type KeyCodec interface {
	EncodePublicKey(publicKey *rsa.PublicKey) ([]byte, error)
	EncodePrivateKey(ctx context.Context, privateKey *rsa.PrivateKey) ([]byte, error)
	DecodePublicKey(data []byte) (*rsa.PublicKey, error)
	DecodePrivateKey(ctx context.Context, data []byte) (*rsa.PrivateKey, error)
}

// Keeper seals and unseals bytes with an external key. *secrets.Keeper from
// gocloud.dev satisfies it.
type Keeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

// KMSService opens keepers from gocloud secrets URIs.
type KMSService interface {
	// OpenKeeper opens a Keeper for the configured KMS provider.
	// Returns an error if the KMS provider URI is invalid or connection fails.
	OpenKeeper(ctx context.Context, keyURI string) (Keeper, error)
}
