// Package http provides HTTP handlers for envelope encryption.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/keyrotator/internal/envelope/http/dto"
	envelopeUseCase "github.com/allisson/keyrotator/internal/envelope/usecase"
	"github.com/allisson/keyrotator/internal/httputil"
	keysetUseCase "github.com/allisson/keyrotator/internal/keyset/usecase"
	customValidation "github.com/allisson/keyrotator/internal/validation"
)

// EnvelopeHandler handles HTTP requests for envelope encryption and decryption.
type EnvelopeHandler struct {
	envelopeUseCase envelopeUseCase.EnvelopeUseCase
	keySetUseCase   keysetUseCase.KeySetUseCase
	logger          *slog.Logger
}

// NewEnvelopeHandler creates a new envelope handler with required dependencies.
func NewEnvelopeHandler(
	envelopeUseCase envelopeUseCase.EnvelopeUseCase,
	keySetUseCase keysetUseCase.KeySetUseCase,
	logger *slog.Logger,
) *EnvelopeHandler {
	return &EnvelopeHandler{
		envelopeUseCase: envelopeUseCase,
		keySetUseCase:   keySetUseCase,
		logger:          logger,
	}
}

// EncryptHandler encrypts a plaintext value.
// POST /v1/envelopes/encrypt - Uses the current active key set unless key_set_id is given.
func (h *EnvelopeHandler) EncryptHandler(c *gin.Context) {
	var req dto.EncryptRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	keySetID := req.KeySetID
	if keySetID == "" {
		activeID, err := h.keySetUseCase.CurrentActiveIdentifier(c.Request.Context())
		if err != nil {
			httputil.HandleErrorGin(c, err, h.logger)
			return
		}
		keySetID = activeID
	}

	envelope, err := h.envelopeUseCase.Encrypt(c.Request.Context(), req.Plaintext, keySetID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.EncryptResponse{Envelope: envelope, KeySetID: keySetID})
}

// DecryptHandler decrypts an envelope with the active or a retired key set.
// POST /v1/envelopes/decrypt
func (h *EnvelopeHandler) DecryptHandler(c *gin.Context) {
	var req dto.EnvelopeRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	ctx := c.Request.Context()
	plaintext, err := h.envelopeUseCase.Decrypt(ctx, req.Envelope)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	keySetID, err := h.envelopeUseCase.IdentifierOf(ctx, req.Envelope)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.DecryptResponse{Plaintext: plaintext, KeySetID: keySetID})
}

// IdentifierHandler returns the key set identifier embedded in an envelope.
// POST /v1/envelopes/identifier
func (h *EnvelopeHandler) IdentifierHandler(c *gin.Context) {
	var req dto.EnvelopeRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	keySetID, err := h.envelopeUseCase.IdentifierOf(c.Request.Context(), req.Envelope)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.IdentifierResponse{KeySetID: keySetID})
}
