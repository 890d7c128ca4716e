// Package http provides HTTP handlers for key set management.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/keyrotator/internal/httputil"
	keysetDomain "github.com/allisson/keyrotator/internal/keyset/domain"
	"github.com/allisson/keyrotator/internal/keyset/http/dto"
	keysetUseCase "github.com/allisson/keyrotator/internal/keyset/usecase"
	customValidation "github.com/allisson/keyrotator/internal/validation"
)

// KeySetHandler handles HTTP requests for key set generation and rotation.
type KeySetHandler struct {
	keySetUseCase keysetUseCase.KeySetUseCase
	logger        *slog.Logger
}

// NewKeySetHandler creates a new key set handler with required dependencies.
func NewKeySetHandler(keySetUseCase keysetUseCase.KeySetUseCase, logger *slog.Logger) *KeySetHandler {
	return &KeySetHandler{
		keySetUseCase: keySetUseCase,
		logger:        logger,
	}
}

// GenerateHandler writes a new key set into the staging directory.
// POST /v1/keysets - Returns 201 Created with the staged key set.
func (h *KeySetHandler) GenerateHandler(c *gin.Context) {
	keySet, err := h.keySetUseCase.Generate(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapKeySetToResponse(keySet))
}

// RotateHandler promotes every complete staged key set.
// POST /v1/keysets/rotate
//
// A degraded run is reported with 500 so callers notice the active directory
// needs attention; the body still carries the full report.
func (h *KeySetHandler) RotateHandler(c *gin.Context) {
	report, err := h.keySetUseCase.RotatePending(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	status := http.StatusOK
	if report.Degraded() {
		h.logger.Error("key rotation left the active stage degraded",
			slog.String("run_id", report.RunID.String()),
		)
		status = http.StatusInternalServerError
	}

	c.JSON(status, dto.MapRotationReportToResponse(report))
}

// ActiveHandler returns the identifier of the current active key set.
// GET /v1/keysets/active
func (h *KeySetHandler) ActiveHandler(c *gin.Context) {
	id, err := h.keySetUseCase.CurrentActiveIdentifier(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ActiveKeySetResponse{ID: id})
}

// ListHandler lists the complete key sets of one stage.
// GET /v1/keysets?stage=active - Stage defaults to active.
func (h *KeySetHandler) ListHandler(c *gin.Context) {
	var query dto.ListKeySetsQuery

	if err := c.ShouldBindQuery(&query); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := query.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	stage, err := keysetDomain.ParseStage(query.Stage)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	keySets, err := h.keySetUseCase.ListKeySets(c.Request.Context(), stage)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapKeySetsToListResponse(keySets))
}
