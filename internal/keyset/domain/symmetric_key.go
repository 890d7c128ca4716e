package domain

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"
)

// SymmetricKey is the key and IV pair that gets wrapped under an RSA public key.
type SymmetricKey struct {
	Key []byte
	IV  []byte
}

// Serialize encodes the pair as base64(key) + "." + base64(iv).
func (s SymmetricKey) Serialize() []byte {
	encoded := base64.StdEncoding.EncodeToString(s.Key) + "." + base64.StdEncoding.EncodeToString(s.IV)
	return []byte(encoded)
}

// Equal reports whether both key and IV match byte for byte.
func (s SymmetricKey) Equal(other SymmetricKey) bool {
	return subtle.ConstantTimeCompare(s.Key, other.Key) == 1 && subtle.ConstantTimeCompare(s.IV, other.IV) == 1
}

// Zero wipes key and IV.
func (s SymmetricKey) Zero() {
	Zero(s.Key)
	Zero(s.IV)
}

// ParseSymmetricKey decodes the output of Serialize. Anything other than exactly
// two non-empty base64 fields yields ErrInvalidWrappedKey.
func ParseSymmetricKey(payload []byte) (SymmetricKey, error) {
	parts := strings.Split(string(payload), ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return SymmetricKey{}, fmt.Errorf("%w: expected 2 fields, got %d", ErrInvalidWrappedKey, len(parts))
	}

	key, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return SymmetricKey{}, fmt.Errorf("%w: key: %v", ErrInvalidWrappedKey, err)
	}

	iv, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		Zero(key)
		return SymmetricKey{}, fmt.Errorf("%w: iv: %v", ErrInvalidWrappedKey, err)
	}

	return SymmetricKey{Key: key, IV: iv}, nil
}
