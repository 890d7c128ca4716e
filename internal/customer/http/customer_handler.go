// Package http provides HTTP handlers for customer management.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/keyrotator/internal/customer/http/dto"
	customerUseCase "github.com/allisson/keyrotator/internal/customer/usecase"
	"github.com/allisson/keyrotator/internal/httputil"
	customValidation "github.com/allisson/keyrotator/internal/validation"
)

// CustomerHandler handles HTTP requests for customer records.
type CustomerHandler struct {
	customerUseCase  customerUseCase.CustomerUseCase
	defaultBatchSize int
	logger           *slog.Logger
}

// NewCustomerHandler creates a new customer handler with required dependencies.
func NewCustomerHandler(
	customerUseCase customerUseCase.CustomerUseCase,
	defaultBatchSize int,
	logger *slog.Logger,
) *CustomerHandler {
	return &CustomerHandler{
		customerUseCase:  customerUseCase,
		defaultBatchSize: defaultBatchSize,
		logger:           logger,
	}
}

// CreateHandler creates a customer with an encrypted email.
// POST /v1/customers - Returns 201 Created.
func (h *CustomerHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateCustomerRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	profile, err := h.customerUseCase.Create(c.Request.Context(), req.Name, req.Email)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapProfileToResponse(profile))
}

// GetHandler retrieves a customer by id.
// GET /v1/customers/:id
func (h *CustomerHandler) GetHandler(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid customer ID format: must be a valid UUID"),
			h.logger)
		return
	}

	profile, err := h.customerUseCase.Get(c.Request.Context(), customerID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapProfileToResponse(profile))
}

// UpdateHandler replaces a customer's name and email. The email is encrypted
// under the current active key set.
// PUT /v1/customers/:id - Returns 200 OK.
func (h *CustomerHandler) UpdateHandler(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid customer ID format: must be a valid UUID"),
			h.logger)
		return
	}

	var req dto.UpdateCustomerRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	profile, err := h.customerUseCase.Update(c.Request.Context(), customerID, req.Name, req.Email)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapProfileToResponse(profile))
}

// DeleteHandler removes a customer.
// DELETE /v1/customers/:id - Returns 204 No Content.
func (h *CustomerHandler) DeleteHandler(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid customer ID format: must be a valid UUID"),
			h.logger)
		return
	}

	if err := h.customerUseCase.Delete(c.Request.Context(), customerID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// ListHandler lists customers with pagination.
// GET /v1/customers?offset=0&limit=50
func (h *CustomerHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	profiles, err := h.customerUseCase.List(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapProfilesToListResponse(profiles))
}

// ReEncryptHandler re-encrypts every customer email onto the active key set.
// POST /v1/customers/reencrypt - The body is optional.
func (h *CustomerHandler) ReEncryptHandler(c *gin.Context) {
	var req dto.ReEncryptRequest

	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httputil.HandleBadRequestGin(c, err, h.logger)
			return
		}
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	batchSize := req.BatchSize
	if batchSize == 0 {
		batchSize = h.defaultBatchSize
	}

	report, err := h.customerUseCase.ReEncrypt(c.Request.Context(), batchSize)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, report)
}
