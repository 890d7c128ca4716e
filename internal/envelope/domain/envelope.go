// Package domain defines the textual envelope that binds a ciphertext to the
// wrapped symmetric key and the key set that produced it.
//
// Wire format:
//
//	<base64(ciphertext)>::<base64(wrapped key)>.<key set identifier>
//
// The identifier is everything after the last "."; the first "::" in the
// remainder separates ciphertext from wrapped key. Standard base64 never
// produces ":" or ".", so neither delimiter can appear inside the encoded parts.
package domain

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/allisson/keyrotator/internal/errors"
	keysetDomain "github.com/allisson/keyrotator/internal/keyset/domain"
)

const (
	// PartSeparator separates the ciphertext from the wrapped key.
	PartSeparator = "::"

	// IdentifierDelimiter precedes the key set identifier.
	IdentifierDelimiter = "."
)

var (
	// ErrMalformedEnvelope indicates the input is not a valid envelope.
	ErrMalformedEnvelope = errors.Wrap(errors.ErrInvalidInput, "malformed envelope")

	// ErrMissingIdentifier indicates there is no "." or nothing follows the last one.
	ErrMissingIdentifier = errors.Wrap(ErrMalformedEnvelope, "missing key set identifier")

	// ErrMissingSeparator indicates the "::" separator is absent.
	ErrMissingSeparator = errors.Wrap(ErrMalformedEnvelope, "missing ciphertext separator")

	// ErrInvalidEncoding indicates the ciphertext or wrapped key is not valid,
	// non-empty base64.
	ErrInvalidEncoding = errors.Wrap(ErrMalformedEnvelope, "invalid base64 encoding")
)

// Envelope is one encrypted value.
type Envelope struct {
	Ciphertext []byte
	WrappedKey []byte
	KeySetID   string
}

// String serializes the envelope into its wire format.
func (e Envelope) String() string {
	var b strings.Builder
	b.WriteString(base64.StdEncoding.EncodeToString(e.Ciphertext))
	b.WriteString(PartSeparator)
	b.WriteString(base64.StdEncoding.EncodeToString(e.WrappedKey))
	b.WriteString(IdentifierDelimiter)
	b.WriteString(e.KeySetID)
	return b.String()
}

// Parse decodes an envelope string. All failures wrap ErrMalformedEnvelope,
// except an identifier containing "::", which fails identifier validation.
func Parse(s string) (*Envelope, error) {
	keySetID, err := ParseIdentifier(s)
	if err != nil {
		return nil, err
	}

	rest := s[:len(s)-len(keySetID)-len(IdentifierDelimiter)]
	encodedCiphertext, encodedWrappedKey, found := strings.Cut(rest, PartSeparator)
	if !found {
		return nil, ErrMissingSeparator
	}

	ciphertext, err := decodePart(encodedCiphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: ciphertext: %v", ErrInvalidEncoding, err)
	}

	wrappedKey, err := decodePart(encodedWrappedKey)
	if err != nil {
		return nil, fmt.Errorf("%w: wrapped key: %v", ErrInvalidEncoding, err)
	}

	return &Envelope{
		Ciphertext: ciphertext,
		WrappedKey: wrappedKey,
		KeySetID:   keySetID,
	}, nil
}

// ParseIdentifier returns the key set identifier of an envelope without
// decoding the rest of it.
func ParseIdentifier(s string) (string, error) {
	idx := strings.LastIndex(s, IdentifierDelimiter)
	if idx < 0 || idx == len(s)-1 {
		return "", ErrMissingIdentifier
	}

	keySetID := s[idx+1:]
	if err := keysetDomain.ValidateIdentifier(keySetID); err != nil {
		return "", err
	}
	if !strings.Contains(s[:idx], PartSeparator) {
		return "", ErrMissingSeparator
	}
	return keySetID, nil
}

func decodePart(encoded string) ([]byte, error) {
	if encoded == "" {
		return nil, errors.New("empty")
	}
	return base64.StdEncoding.DecodeString(encoded)
}
