// Package usecase implements hybrid envelope encryption over the key sets
// managed by the keyset module.
//
// Every Encrypt call draws a fresh symmetric key and IV, encrypts the plaintext
// with it, wraps "base64(key).base64(iv)" under the RSA public key of an active
// key set and returns the textual envelope. Decrypt resolves the private key in
// the active stage first and then the retired stage, so values encrypted under
// rotated-out key sets stay readable.
package usecase

import (
	"context"

	envelopeDomain "github.com/allisson/keyrotator/internal/envelope/domain"
	apperrors "github.com/allisson/keyrotator/internal/errors"
	keysetDomain "github.com/allisson/keyrotator/internal/keyset/domain"
	keysetService "github.com/allisson/keyrotator/internal/keyset/service"
	keysetUseCase "github.com/allisson/keyrotator/internal/keyset/usecase"
)

// EnvelopeUseCase defines the envelope encryption operations.
type EnvelopeUseCase interface {
	// Encrypt returns the envelope of plaintext under the active key set id.
	// An empty plaintext yields an empty envelope and no error.
	Encrypt(ctx context.Context, plaintext, keySetID string) (string, error)

	// Decrypt returns the plaintext of envelope. An empty envelope yields an
	// empty plaintext and no error.
	Decrypt(ctx context.Context, envelope string) (string, error)

	// IdentifierOf returns the key set identifier embedded in envelope.
	IdentifierOf(ctx context.Context, envelope string) (string, error)
}

type envelopeUseCase struct {
	resolver   keysetUseCase.KeyResolver
	asymmetric keysetService.AsymmetricCipher
	symmetric  keysetService.SymmetricCipher
}

// NewEnvelopeUseCase creates an EnvelopeUseCase.
func NewEnvelopeUseCase(
	resolver keysetUseCase.KeyResolver,
	asymmetric keysetService.AsymmetricCipher,
	symmetric keysetService.SymmetricCipher,
) EnvelopeUseCase {
	return &envelopeUseCase{
		resolver:   resolver,
		asymmetric: asymmetric,
		symmetric:  symmetric,
	}
}

// Encrypt encrypts plaintext under a fresh symmetric key wrapped by the public
// key of the active key set keySetID.
func (e *envelopeUseCase) Encrypt(ctx context.Context, plaintext, keySetID string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	if err := keysetDomain.ValidateIdentifier(keySetID); err != nil {
		return "", err
	}

	publicKey, err := e.resolver.PublicKey(ctx, keySetID)
	if err != nil {
		return "", err
	}

	key, err := e.symmetric.GenerateKey()
	if err != nil {
		return "", err
	}
	defer key.Zero()

	ciphertext, err := e.symmetric.Encrypt(key, []byte(plaintext))
	if err != nil {
		return "", err
	}

	payload := key.Serialize()
	defer keysetDomain.Zero(payload)

	wrappedKey, err := e.asymmetric.Wrap(publicKey, payload)
	if err != nil {
		return "", err
	}

	envelope := envelopeDomain.Envelope{
		Ciphertext: ciphertext,
		WrappedKey: wrappedKey,
		KeySetID:   keySetID,
	}
	return envelope.String(), nil
}

// Decrypt parses envelope, unwraps its symmetric key with the private key of
// the embedded key set and decrypts the ciphertext.
func (e *envelopeUseCase) Decrypt(ctx context.Context, envelope string) (string, error) {
	if envelope == "" {
		return "", nil
	}

	parsed, err := envelopeDomain.Parse(envelope)
	if err != nil {
		return "", err
	}

	privateKey, err := e.resolver.PrivateKey(ctx, parsed.KeySetID)
	if err != nil {
		return "", err
	}

	payload, err := e.asymmetric.Unwrap(privateKey, parsed.WrappedKey)
	if err != nil {
		return "", err
	}
	defer keysetDomain.Zero(payload)

	key, err := keysetDomain.ParseSymmetricKey(payload)
	if err != nil {
		return "", apperrors.Join(keysetDomain.ErrDecryptionFailed, err)
	}
	defer key.Zero()

	plaintext, err := e.symmetric.Decrypt(key, parsed.Ciphertext)
	if err != nil {
		return "", err
	}
	defer keysetDomain.Zero(plaintext)

	return string(plaintext), nil
}

// IdentifierOf parses the key set identifier without touching key material.
func (e *envelopeUseCase) IdentifierOf(ctx context.Context, envelope string) (string, error) {
	return envelopeDomain.ParseIdentifier(envelope)
}
