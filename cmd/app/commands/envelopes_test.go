package commands

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	envelopeDomain "github.com/allisson/keyrotator/internal/envelope/domain"
	envelopeMocks "github.com/allisson/keyrotator/internal/envelope/usecase/mocks"
	keysetDomain "github.com/allisson/keyrotator/internal/keyset/domain"
	keysetMocks "github.com/allisson/keyrotator/internal/keyset/usecase/mocks"
)

const testEnvelope = "aGk=::a2V5.AbCd1234"

func TestRunEncrypt(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults-to-active-key-set", func(t *testing.T) {
		envelopes := &envelopeMocks.MockEnvelopeUseCase{}
		keySets := &keysetMocks.MockKeySetUseCase{}
		keySets.On("CurrentActiveIdentifier", ctx).Return("AbCd1234", nil)
		envelopes.On("Encrypt", ctx, "hi", "AbCd1234").Return(testEnvelope, nil)

		var out bytes.Buffer
		err := RunEncrypt(ctx, envelopes, keySets, &out, "hi", "", "text")

		require.NoError(t, err)
		assert.Equal(t, testEnvelope+"\n", out.String())
		envelopes.AssertExpectations(t)
		keySets.AssertExpectations(t)
	})

	t.Run("explicit-key-set-json", func(t *testing.T) {
		envelopes := &envelopeMocks.MockEnvelopeUseCase{}
		keySets := &keysetMocks.MockKeySetUseCase{}
		envelopes.On("Encrypt", ctx, "hi", "AbCd1234").Return(testEnvelope, nil)

		var out bytes.Buffer
		err := RunEncrypt(ctx, envelopes, keySets, &out, "hi", "AbCd1234", "json")

		require.NoError(t, err)
		assert.JSONEq(t, `{"envelope":"aGk=::a2V5.AbCd1234","key_set_id":"AbCd1234"}`, out.String())
		keySets.AssertNotCalled(t, "CurrentActiveIdentifier", ctx)
	})

	t.Run("no-active-key-set", func(t *testing.T) {
		envelopes := &envelopeMocks.MockEnvelopeUseCase{}
		keySets := &keysetMocks.MockKeySetUseCase{}
		keySets.On("CurrentActiveIdentifier", ctx).Return("", keysetDomain.ErrNoActiveKeySet)

		err := RunEncrypt(ctx, envelopes, keySets, &bytes.Buffer{}, "hi", "", "text")

		require.ErrorIs(t, err, keysetDomain.ErrNoActiveKeySet)
	})

	t.Run("delimiter-in-key-set", func(t *testing.T) {
		envelopes := &envelopeMocks.MockEnvelopeUseCase{}
		keySets := &keysetMocks.MockKeySetUseCase{}
		envelopes.On("Encrypt", ctx, "hi", "bad.name").Return("", keysetDomain.ErrInvalidIdentifier)

		err := RunEncrypt(ctx, envelopes, keySets, &bytes.Buffer{}, "hi", "bad.name", "text")

		require.ErrorIs(t, err, keysetDomain.ErrInvalidIdentifier)
	})
}

func TestRunDecrypt(t *testing.T) {
	ctx := context.Background()

	t.Run("text-output", func(t *testing.T) {
		envelopes := &envelopeMocks.MockEnvelopeUseCase{}
		envelopes.On("Decrypt", ctx, testEnvelope).Return("hi", nil)

		var out bytes.Buffer
		require.NoError(t, RunDecrypt(ctx, envelopes, &out, testEnvelope, "text"))
		assert.Equal(t, "hi\n", out.String())
		envelopes.AssertNotCalled(t, "IdentifierOf", ctx, testEnvelope)
	})

	t.Run("json-output", func(t *testing.T) {
		envelopes := &envelopeMocks.MockEnvelopeUseCase{}
		envelopes.On("Decrypt", ctx, testEnvelope).Return("hi", nil)
		envelopes.On("IdentifierOf", ctx, testEnvelope).Return("AbCd1234", nil)

		var out bytes.Buffer
		require.NoError(t, RunDecrypt(ctx, envelopes, &out, testEnvelope, "json"))
		assert.JSONEq(t, `{"plaintext":"hi","key_set_id":"AbCd1234"}`, out.String())
	})

	t.Run("malformed-envelope", func(t *testing.T) {
		envelopes := &envelopeMocks.MockEnvelopeUseCase{}
		envelopes.On("Decrypt", ctx, "garbage").Return("", envelopeDomain.ErrMissingIdentifier)

		err := RunDecrypt(ctx, envelopes, &bytes.Buffer{}, "garbage", "text")

		require.ErrorIs(t, err, envelopeDomain.ErrMissingIdentifier)
	})
}
