package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/study-seat-api/internal/dto"
	"github.com/noah-isme/study-seat-api/internal/models"
	"github.com/noah-isme/study-seat-api/pkg/response"
)

type registrationService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*models.Registration, error)
	Cancel(ctx context.Context, id string, req dto.CancelRegistrationRequest) (*models.Registration, error)
	Get(ctx context.Context, id string) (*models.Registration, error)
}

// RegistrationHandler exposes seat admission endpoints.
type RegistrationHandler struct {
	service registrationService
}

// NewRegistrationHandler constructs a registration handler.
func NewRegistrationHandler(svc registrationService) *RegistrationHandler {
	return &RegistrationHandler{service: svc}
}

// Register godoc
// @Summary Reserve a seat
// @Description Register a student for a seat in today's study session
// @Tags Registrations
// @Accept json
// @Produce json
// @Param payload body dto.RegisterRequest true "Registration payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 429 {object} response.Envelope
// @Router /registrations [post]
func (h *RegistrationHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req, "invalid registration payload") {
		return
	}

	reg, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, dto.NewRegistrationResponse(reg), nil)
}

// Get godoc
// @Summary Get registration
// @Tags Registrations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Registration ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /registrations/{id} [get]
func (h *RegistrationHandler) Get(c *gin.Context) {
	reg, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewRegistrationResponse(reg), nil)
}

// Cancel godoc
// @Summary Cancel registration
// @Description Release the seat held by a registration
// @Tags Registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Registration ID"
// @Param payload body dto.CancelRegistrationRequest false "Cancellation reason"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /registrations/{id}/cancel [post]
func (h *RegistrationHandler) Cancel(c *gin.Context) {
	var req dto.CancelRegistrationRequest
	if !bindOptionalJSON(c, &req, "invalid cancellation payload") {
		return
	}

	reg, err := h.service.Cancel(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewRegistrationResponse(reg), nil)
}
