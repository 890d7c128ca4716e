package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/keyrotator/internal/errors"
	keysetDomain "github.com/allisson/keyrotator/internal/keyset/domain"
)

func TestEnvelope_String(t *testing.T) {
	envelope := Envelope{
		Ciphertext: []byte("hi"),
		WrappedKey: []byte("key"),
		KeySetID:   "AbCd1234",
	}

	assert.Equal(t, "aGk=::a2V5.AbCd1234", envelope.String())
}

func TestParse(t *testing.T) {
	t.Run("valid envelope", func(t *testing.T) {
		envelope, err := Parse("aGk=::a2V5.AbCd1234")
		require.NoError(t, err)
		assert.Equal(t, []byte("hi"), envelope.Ciphertext)
		assert.Equal(t, []byte("key"), envelope.WrappedKey)
		assert.Equal(t, "AbCd1234", envelope.KeySetID)
	})

	t.Run("serialization is reversible", func(t *testing.T) {
		original := Envelope{
			Ciphertext: []byte{0x00, 0xff, 0x10, 0x20},
			WrappedKey: []byte{0xde, 0xad, 0xbe, 0xef, 0x01},
			KeySetID:   "Zz9Yy8Xx",
		}

		parsed, err := Parse(original.String())
		require.NoError(t, err)
		assert.Equal(t, original, *parsed)
	})

	tests := []struct {
		name  string
		input string
		err   error
	}{
		{name: "empty", input: "", err: ErrMissingIdentifier},
		{name: "no identifier delimiter", input: "not-a-valid-envelope", err: ErrMissingIdentifier},
		{name: "trailing delimiter", input: "aGk=::a2V5.", err: ErrMissingIdentifier},
		{name: "missing separator", input: "aGk=a2V5.AbCd1234", err: ErrMissingSeparator},
		{name: "single colon", input: "aGk=:a2V5.AbCd1234", err: ErrMissingSeparator},
		{name: "invalid ciphertext base64", input: "!!!!::a2V5.AbCd1234", err: ErrInvalidEncoding},
		{name: "invalid wrapped key base64", input: "aGk=::a2V5*.AbCd1234", err: ErrInvalidEncoding},
		{name: "empty ciphertext", input: "::a2V5.AbCd1234", err: ErrInvalidEncoding},
		{name: "empty wrapped key", input: "aGk=::.AbCd1234", err: ErrInvalidEncoding},
		{name: "identifier with separator", input: "aGk=::a2V5.Ab::1234", err: keysetDomain.ErrInvalidIdentifier},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			envelope, err := Parse(tt.input)
			assert.Nil(t, envelope)
			assert.ErrorIs(t, err, tt.err)
			assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
		})
	}
}

func TestParseIdentifier(t *testing.T) {
	id, err := ParseIdentifier("aGk=::a2V5.AbCd1234")
	require.NoError(t, err)
	assert.Equal(t, "AbCd1234", id)

	_, err = ParseIdentifier("not-a-valid-envelope")
	assert.ErrorIs(t, err, ErrMalformedEnvelope)

	_, err = ParseIdentifier("aGk=a2V5.AbCd1234")
	assert.ErrorIs(t, err, ErrMissingSeparator)
}
