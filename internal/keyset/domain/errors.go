package domain

import (
	"github.com/allisson/keyrotator/internal/errors"
)

// Key set error definitions.
//
// Each error wraps one of the sentinels from internal/errors so callers can
// branch on the failure class (validation, resolution, cryptographic, storage,
// verification) without knowing the concrete cause.
var (
	// ErrEmptyIdentifier indicates a key set identifier was not provided.
	ErrEmptyIdentifier = errors.Wrap(errors.ErrInvalidInput, "key set identifier is empty")

	// ErrInvalidIdentifier indicates an identifier contains the envelope delimiters
	// "." or "::".
	ErrInvalidIdentifier = errors.Wrap(errors.ErrInvalidInput, "key set identifier contains a reserved delimiter")

	// ErrInvalidStage indicates an unknown lifecycle stage.
	ErrInvalidStage = errors.Wrap(errors.ErrInvalidInput, "invalid key set stage")

	// ErrUnsupportedAlgorithm indicates the requested symmetric algorithm is not supported.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates the RSA modulus size or symmetric key length is out of range.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrKeySetNotFound indicates no complete key set exists for an identifier in the
	// searched stages.
	ErrKeySetNotFound = errors.Wrap(errors.ErrNotFound, "key set not found")

	// ErrNoActiveKeySet indicates the active directory holds no complete key set.
	ErrNoActiveKeySet = errors.Wrap(errors.ErrNotFound, "no active key set")

	// ErrInvalidWrappedKey indicates an unwrapped payload is not two "."-separated
	// base64 fields.
	ErrInvalidWrappedKey = errors.Wrap(errors.ErrCryptoFailure, "malformed wrapped symmetric key")

	// ErrInvalidKeyMaterial indicates a PEM file could not be parsed into an RSA key.
	ErrInvalidKeyMaterial = errors.Wrap(errors.ErrCryptoFailure, "invalid RSA key material")

	// ErrEncryptionFailed indicates a wrap or encrypt primitive failed.
	ErrEncryptionFailed = errors.Wrap(errors.ErrCryptoFailure, "encryption failed")

	// ErrDecryptionFailed indicates an unwrap or decrypt primitive failed.
	//
	// The specific cause is not disclosed to callers.
	ErrDecryptionFailed = errors.Wrap(errors.ErrCryptoFailure, "decryption failed")

	// ErrRoundTripMismatch indicates the generator's re-read of a freshly written
	// wrapped key did not reproduce the generated key and IV.
	ErrRoundTripMismatch = errors.Wrap(errors.ErrVerificationFailed, "wrapped key round trip mismatch")

	// ErrKeyStoreUnavailable indicates the key directory could not be read or written.
	ErrKeyStoreUnavailable = errors.Wrap(errors.ErrStorageFailure, "key store unavailable")
)
