package domain

import (
	"fmt"
	"strings"
)

// Stage is the lifecycle location of a key set inside the key directory.
type Stage string

const (
	// StageStaging holds generated key sets that have not been promoted yet.
	StageStaging Stage = "staging"

	// StageActive holds the single key set used for new encryptions.
	StageActive Stage = "active"

	// StageRetired holds demoted key sets, kept indefinitely for decryption.
	StageRetired Stage = "retired"
)

// Stages lists every lifecycle stage in promotion order.
var Stages = []Stage{StageStaging, StageActive, StageRetired}

// Dir returns the subdirectory name of the stage below the key directory root.
func (s Stage) Dir() string {
	switch s {
	case StageStaging:
		return "update"
	case StageActive:
		return "current"
	case StageRetired:
		return "history"
	default:
		return ""
	}
}

// Valid reports whether s is one of the known stages.
func (s Stage) Valid() bool {
	return s.Dir() != ""
}

// ParseStage converts a stage name or its directory name into a Stage.
func ParseStage(value string) (Stage, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "staging", "update":
		return StageStaging, nil
	case "active", "current":
		return StageActive, nil
	case "retired", "history":
		return StageRetired, nil
	default:
		return "", fmt.Errorf("%w: %q (valid options: staging, active, retired)", ErrInvalidStage, value)
	}
}

// Algorithm names the symmetric primitive used for envelope payloads.
//
// Envelopes do not record the algorithm, so a deployment must keep the same
// algorithm for as long as envelopes produced under it need to be decrypted.
type Algorithm string

const (
	// AESCBC is AES-256 in CBC mode with PKCS#7 padding and a 16-byte IV.
	AESCBC Algorithm = "aes-cbc"

	// AESGCM is AES-256-GCM with a 12-byte nonce carried in the IV slot.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 is ChaCha20-Poly1305 with a 12-byte nonce carried in the IV slot.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

// ParseAlgorithm converts a string to an Algorithm.
func ParseAlgorithm(value string) (Algorithm, error) {
	switch Algorithm(value) {
	case AESCBC, AESGCM, ChaCha20:
		return Algorithm(value), nil
	default:
		return "", fmt.Errorf(
			"%w: %q (valid options: aes-cbc, aes-gcm, chacha20-poly1305)",
			ErrUnsupportedAlgorithm,
			value,
		)
	}
}

// Key file naming.
const (
	// IdentifierLength is the length of a generated key set identifier.
	IdentifierLength = 8

	// WrappedKeyExtension is the extension of the RSA-wrapped symmetric key blob.
	WrappedKeyExtension = ".der"

	// PublicKeySuffix is the suffix of the RSA public key PEM file.
	PublicKeySuffix = ".public.pem"

	// PrivateKeySuffix is the suffix of the RSA private key PEM file.
	PrivateKeySuffix = ".private.pem"

	// PendingSuffix marks a wrapped key that is still being verified. Staged
	// groups holding it are incomplete and never promoted.
	PendingSuffix = ".pending"
)

// RSA key sizes accepted by the generator.
const (
	MinRSAKeyBits = 2048
	MaxRSAKeyBits = 4096
)
