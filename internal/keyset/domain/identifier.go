package domain

import (
	"regexp"
	"strings"
)

var canonicalIdentifier = regexp.MustCompile(`^[A-Za-z0-9]{8}$`)

// IsCanonicalIdentifier reports whether id has the generated shape: exactly
// IdentifierLength characters from [A-Za-z0-9].
func IsCanonicalIdentifier(id string) bool {
	return canonicalIdentifier.MatchString(id)
}

// ValidateIdentifier checks that id can be embedded in an envelope. The last "."
// of an envelope separates the identifier, so neither "." nor "::" may appear.
func ValidateIdentifier(id string) error {
	if id == "" {
		return ErrEmptyIdentifier
	}
	if strings.Contains(id, ".") || strings.Contains(id, "::") {
		return ErrInvalidIdentifier
	}
	return nil
}
