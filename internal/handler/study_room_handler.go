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

type studyRoomService interface {
	List(ctx context.Context) ([]models.StudyRoom, error)
	Get(ctx context.Context, id int64) (*models.StudyRoom, error)
	Create(ctx context.Context, req dto.CreateStudyRoomRequest) (*models.StudyRoom, error)
	Update(ctx context.Context, id int64, req dto.UpdateStudyRoomRequest) (*models.StudyRoom, error)
	Delete(ctx context.Context, id int64) (*models.StudyRoom, error)
}

// StudyRoomHandler exposes room CRUD endpoints.
type StudyRoomHandler struct {
	service studyRoomService
}

// NewStudyRoomHandler constructs a room handler.
func NewStudyRoomHandler(svc studyRoomService) *StudyRoomHandler {
	return &StudyRoomHandler{service: svc}
}

// List godoc
// @Summary List study rooms
// @Tags Rooms
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /rooms [get]
func (h *StudyRoomHandler) List(c *gin.Context) {
	rooms, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rooms, nil)
}

// Get godoc
// @Summary Get study room
// @Tags Rooms
// @Produce json
// @Param id path int true "Room ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /rooms/{id} [get]
func (h *StudyRoomHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id", appErrors.ErrRoomNotFound)
	if !ok {
		return
	}
	room, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, room, nil)
}

// Create godoc
// @Summary Create study room
// @Tags Rooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateStudyRoomRequest true "Room payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /rooms [post]
func (h *StudyRoomHandler) Create(c *gin.Context) {
	var req dto.CreateStudyRoomRequest
	if !bindJSON(c, &req, "invalid room payload") {
		return
	}
	room, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, room)
}

// Update godoc
// @Summary Update study room
// @Tags Rooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Room ID"
// @Param payload body dto.UpdateStudyRoomRequest true "Room patch"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /rooms/{id} [put]
func (h *StudyRoomHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id", appErrors.ErrRoomNotFound)
	if !ok {
		return
	}
	var req dto.UpdateStudyRoomRequest
	if !bindJSON(c, &req, "invalid room payload") {
		return
	}
	room, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, room, nil)
}

// Delete godoc
// @Summary Delete study room
// @Tags Rooms
// @Produce json
// @Security BearerAuth
// @Param id path int true "Room ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /rooms/{id} [delete]
func (h *StudyRoomHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id", appErrors.ErrRoomNotFound)
	if !ok {
		return
	}
	room, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, room, nil)
}
