package service

import (
	"crypto/rand"
	"fmt"
	"math/big"

	keysetDomain "github.com/allisson/keyrotator/internal/keyset/domain"
)

const alphanumericChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

type alphanumericGenerator struct {
	length int
}

// NewIdentifierGenerator creates a generator of cryptographically random
// IdentifierLength-character [A-Za-z0-9] key set identifiers.
func NewIdentifierGenerator() IdentifierGenerator {
	return &alphanumericGenerator{length: keysetDomain.IdentifierLength}
}

// Generate returns a fresh identifier.
func (g *alphanumericGenerator) Generate() (string, error) {
	token := make([]byte, g.length)
	charsLen := big.NewInt(int64(len(alphanumericChars)))

	for i := range token {
		n, err := rand.Int(rand.Reader, charsLen)
		if err != nil {
			return "", fmt.Errorf("failed to generate random character: %w", err)
		}
		token[i] = alphanumericChars[n.Int64()]
	}

	return string(token), nil
}
