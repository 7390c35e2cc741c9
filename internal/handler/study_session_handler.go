package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/study-seat-api/internal/dto"
	"github.com/noah-isme/study-seat-api/internal/models"
	appErrors "github.com/noah-isme/study-seat-api/pkg/errors"
	"github.com/noah-isme/study-seat-api/pkg/response"
)

type studySessionService interface {
	List(ctx context.Context) ([]models.StudySessionDetail, error)
	Get(ctx context.Context, id int64) (*models.StudySession, error)
	Create(ctx context.Context, req dto.CreateStudySessionRequest) (*models.StudySession, error)
	Update(ctx context.Context, id int64, req dto.UpdateStudySessionRequest) (*models.StudySession, error)
	Delete(ctx context.Context, id int64) (*models.StudySession, error)
}

// StudySessionHandler exposes session CRUD endpoints.
type StudySessionHandler struct {
	service studySessionService
}

// NewStudySessionHandler constructs a session handler.
func NewStudySessionHandler(svc studySessionService) *StudySessionHandler {
	return &StudySessionHandler{service: svc}
}

// List godoc
// @Summary List study sessions
// @Tags Sessions
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /sessions [get]
func (h *StudySessionHandler) List(c *gin.Context) {
	sessions, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sessions, nil)
}

// Get godoc
// @Summary Get study session
// @Tags Sessions
// @Produce json
// @Param id path int true "Session ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /sessions/{id} [get]
func (h *StudySessionHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id", appErrors.ErrSessionNotFound)
	if !ok {
		return
	}
	session, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// Create godoc
// @Summary Create study session
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateStudySessionRequest true "Session payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /sessions [post]
func (h *StudySessionHandler) Create(c *gin.Context) {
	var req dto.CreateStudySessionRequest
	if !bindJSON(c, &req, "invalid session payload") {
		return
	}
	session, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, session)
}

// Update godoc
// @Summary Update study session
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Param payload body dto.UpdateStudySessionRequest true "Session patch"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /sessions/{id} [put]
func (h *StudySessionHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id", appErrors.ErrSessionNotFound)
	if !ok {
		return
	}
	var req dto.UpdateStudySessionRequest
	if !bindJSON(c, &req, "invalid session payload") {
		return
	}
	session, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// Delete godoc
// @Summary Delete study session
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /sessions/{id} [delete]
func (h *StudySessionHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id", appErrors.ErrSessionNotFound)
	if !ok {
		return
	}
	session, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}
