package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	envelopeDomain "github.com/allisson/keyrotator/internal/envelope/domain"
	"github.com/allisson/keyrotator/internal/envelope/http/dto"
	envelopeMocks "github.com/allisson/keyrotator/internal/envelope/usecase/mocks"
	"github.com/allisson/keyrotator/internal/httputil"
	keysetDomain "github.com/allisson/keyrotator/internal/keyset/domain"
	keysetMocks "github.com/allisson/keyrotator/internal/keyset/usecase/mocks"
)

const testEnvelope = "aGk=::a2V5.AbCd1234"

// setupTestEnvelopeHandler creates a test envelope handler with mocked dependencies.
func setupTestEnvelopeHandler(
	t *testing.T,
) (*EnvelopeHandler, *envelopeMocks.MockEnvelopeUseCase, *keysetMocks.MockKeySetUseCase) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	mockEnvelope := &envelopeMocks.MockEnvelopeUseCase{}
	mockKeySets := &keysetMocks.MockKeySetUseCase{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Cleanup(func() {
		mockEnvelope.AssertExpectations(t)
		mockKeySets.AssertExpectations(t)
	})

	return NewEnvelopeHandler(mockEnvelope, mockKeySets, logger), mockEnvelope, mockKeySets
}

func TestEnvelopeHandler_EncryptHandler(t *testing.T) {
	t.Run("Success_DefaultsToActiveKeySet", func(t *testing.T) {
		handler, mockEnvelope, mockKeySets := setupTestEnvelopeHandler(t)

		mockKeySets.On("CurrentActiveIdentifier", mock.Anything).Return("AbCd1234", nil).Once()
		mockEnvelope.On("Encrypt", mock.Anything, "alice@example.com", "AbCd1234").Return(testEnvelope, nil).Once()

		c, w := createTestContext(http.MethodPost, "/v1/envelopes/encrypt", dto.EncryptRequest{
			Plaintext: "alice@example.com",
		})

		handler.EncryptHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.EncryptResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, testEnvelope, response.Envelope)
		assert.Equal(t, "AbCd1234", response.KeySetID)
	})

	t.Run("Success_ExplicitKeySet", func(t *testing.T) {
		handler, mockEnvelope, _ := setupTestEnvelopeHandler(t)

		mockEnvelope.On("Encrypt", mock.Anything, "value", "Zz9Yy8Xx").Return("dg==::a2V5.Zz9Yy8Xx", nil).Once()

		c, w := createTestContext(http.MethodPost, "/v1/envelopes/encrypt", dto.EncryptRequest{
			Plaintext: "value",
			KeySetID:  "Zz9Yy8Xx",
		})

		handler.EncryptHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Error_NoActiveKeySet", func(t *testing.T) {
		handler, _, mockKeySets := setupTestEnvelopeHandler(t)

		mockKeySets.On("CurrentActiveIdentifier", mock.Anything).Return("", keysetDomain.ErrNoActiveKeySet).Once()

		c, w := createTestContext(http.MethodPost, "/v1/envelopes/encrypt", dto.EncryptRequest{Plaintext: "value"})

		handler.EncryptHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Error_DelimiterInKeySet", func(t *testing.T) {
		handler, mockEnvelope, _ := setupTestEnvelopeHandler(t)

		mockEnvelope.On("Encrypt", mock.Anything, "value", "bad.name").
			Return("", keysetDomain.ErrInvalidIdentifier).
			Once()

		c, w := createTestContext(http.MethodPost, "/v1/envelopes/encrypt", dto.EncryptRequest{
			Plaintext: "value",
			KeySetID:  "bad.name",
		})

		handler.EncryptHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var response httputil.ErrorResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "invalid_input", response.Error)
	})

	t.Run("Error_MissingPlaintext", func(t *testing.T) {
		handler, _, _ := setupTestEnvelopeHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/envelopes/encrypt", dto.EncryptRequest{})

		handler.EncryptHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var response httputil.ErrorResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "validation_error", response.Error)
	})

	t.Run("Error_InvalidJSON", func(t *testing.T) {
		handler, _, _ := setupTestEnvelopeHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/envelopes/encrypt", nil)

		handler.EncryptHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestEnvelopeHandler_DecryptHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockEnvelope, _ := setupTestEnvelopeHandler(t)

		mockEnvelope.On("Decrypt", mock.Anything, testEnvelope).Return("alice@example.com", nil).Once()
		mockEnvelope.On("IdentifierOf", mock.Anything, testEnvelope).Return("AbCd1234", nil).Once()

		c, w := createTestContext(http.MethodPost, "/v1/envelopes/decrypt", dto.EnvelopeRequest{Envelope: testEnvelope})

		handler.DecryptHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.DecryptResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "alice@example.com", response.Plaintext)
		assert.Equal(t, "AbCd1234", response.KeySetID)
	})

	t.Run("Error_MalformedEnvelope", func(t *testing.T) {
		handler, mockEnvelope, _ := setupTestEnvelopeHandler(t)

		mockEnvelope.On("Decrypt", mock.Anything, "not-a-valid-envelope").
			Return("", envelopeDomain.ErrMissingIdentifier).
			Once()

		c, w := createTestContext(http.MethodPost, "/v1/envelopes/decrypt", dto.EnvelopeRequest{
			Envelope: "not-a-valid-envelope",
		})

		handler.DecryptHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Error_DecryptionFailed", func(t *testing.T) {
		handler, mockEnvelope, _ := setupTestEnvelopeHandler(t)

		mockEnvelope.On("Decrypt", mock.Anything, testEnvelope).Return("", keysetDomain.ErrDecryptionFailed).Once()

		c, w := createTestContext(http.MethodPost, "/v1/envelopes/decrypt", dto.EnvelopeRequest{Envelope: testEnvelope})

		handler.DecryptHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var response httputil.ErrorResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "decryption_failed", response.Error)
	})

	t.Run("Error_UnknownKeySet", func(t *testing.T) {
		handler, mockEnvelope, _ := setupTestEnvelopeHandler(t)

		mockEnvelope.On("Decrypt", mock.Anything, testEnvelope).Return("", keysetDomain.ErrKeySetNotFound).Once()

		c, w := createTestContext(http.MethodPost, "/v1/envelopes/decrypt", dto.EnvelopeRequest{Envelope: testEnvelope})

		handler.DecryptHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestEnvelopeHandler_IdentifierHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockEnvelope, _ := setupTestEnvelopeHandler(t)

		mockEnvelope.On("IdentifierOf", mock.Anything, testEnvelope).Return("AbCd1234", nil).Once()

		c, w := createTestContext(http.MethodPost, "/v1/envelopes/identifier", dto.EnvelopeRequest{
			Envelope: testEnvelope,
		})

		handler.IdentifierHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"key_set_id":"AbCd1234"}`, w.Body.String())
	})

	t.Run("Error_BlankEnvelope", func(t *testing.T) {
		handler, _, _ := setupTestEnvelopeHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/envelopes/identifier", dto.EnvelopeRequest{Envelope: "  "})

		handler.IdentifierHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}
