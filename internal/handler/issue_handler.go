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

type issueService interface {
	ListTypes(ctx context.Context) ([]models.IssueType, error)
	GetType(ctx context.Context, id int64) (*models.IssueType, error)
	CreateType(ctx context.Context, req dto.CreateIssueTypeRequest) (*models.IssueType, error)
	UpdateType(ctx context.Context, id int64, req dto.UpdateIssueTypeRequest) (*models.IssueType, error)
	DeleteType(ctx context.Context, id int64) (*models.IssueType, error)
	Assign(ctx context.Context, registrationID string, req dto.AssignIssueRequest) (*dto.RegistrationIssueResponse, error)
	Memo(ctx context.Context, registrationID string, req dto.MemoRequest) (*dto.RegistrationIssueResponse, error)
	ForRegistration(ctx context.Context, registrationID string) (*dto.RegistrationIssueResponse, error)
}

// IssueHandler exposes the issue catalog and per-registration annotations.
type IssueHandler struct {
	service issueService
}

// NewIssueHandler constructs an issue handler.
func NewIssueHandler(svc issueService) *IssueHandler {
	return &IssueHandler{service: svc}
}

// ListTypes godoc
// @Summary List issue types
// @Tags Issues
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /issues [get]
func (h *IssueHandler) ListTypes(c *gin.Context) {
	types, err := h.service.ListTypes(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, types, nil)
}

// GetType godoc
// @Summary Get issue type
// @Tags Issues
// @Produce json
// @Param id path int true "Issue type ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /issues/{id} [get]
func (h *IssueHandler) GetType(c *gin.Context) {
	id, ok := pathID(c, "id", appErrors.ErrIssueTypeNotFound)
	if !ok {
		return
	}
	issueType, err := h.service.GetType(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, issueType, nil)
}

// CreateType godoc
// @Summary Create issue type
// @Tags Issues
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateIssueTypeRequest true "Issue type payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /issues [post]
func (h *IssueHandler) CreateType(c *gin.Context) {
	var req dto.CreateIssueTypeRequest
	if !bindJSON(c, &req, "invalid issue type payload") {
		return
	}
	issueType, err := h.service.CreateType(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, issueType)
}

// UpdateType godoc
// @Summary Update issue type
// @Tags Issues
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Issue type ID"
// @Param payload body dto.UpdateIssueTypeRequest true "Issue type payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /issues/{id} [put]
func (h *IssueHandler) UpdateType(c *gin.Context) {
	id, ok := pathID(c, "id", appErrors.ErrIssueTypeNotFound)
	if !ok {
		return
	}
	var req dto.UpdateIssueTypeRequest
	if !bindJSON(c, &req, "invalid issue type payload") {
		return
	}
	issueType, err := h.service.UpdateType(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, issueType, nil)
}

// DeleteType godoc
// @Summary Delete issue type
// @Tags Issues
// @Produce json
// @Security BearerAuth
// @Param id path int true "Issue type ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /issues/{id} [delete]
func (h *IssueHandler) DeleteType(c *gin.Context) {
	id, ok := pathID(c, "id", appErrors.ErrIssueTypeNotFound)
	if !ok {
		return
	}
	issueType, err := h.service.DeleteType(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, issueType, nil)
}

// Assign godoc
// @Summary Assign issue to registration
// @Tags Issues
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param registrationId path string true "Registration ID"
// @Param payload body dto.AssignIssueRequest true "Issue payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /issues/assign/{registrationId} [post]
func (h *IssueHandler) Assign(c *gin.Context) {
	var req dto.AssignIssueRequest
	if !bindJSON(c, &req, "invalid issue payload") {
		return
	}
	res, err := h.service.Assign(c.Request.Context(), c.Param("registrationId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Memo godoc
// @Summary Write registration memo
// @Tags Issues
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param registrationId path string true "Registration ID"
// @Param payload body dto.MemoRequest true "Memo payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /issues/memo/{registrationId} [post]
func (h *IssueHandler) Memo(c *gin.Context) {
	var req dto.MemoRequest
	if !bindJSON(c, &req, "invalid memo payload") {
		return
	}
	res, err := h.service.Memo(c.Request.Context(), c.Param("registrationId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// ForRegistration godoc
// @Summary Issue and memo of a registration
// @Tags Issues
// @Produce json
// @Security BearerAuth
// @Param registrationId path string true "Registration ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /issues/student/{registrationId} [get]
func (h *IssueHandler) ForRegistration(c *gin.Context) {
	res, err := h.service.ForRegistration(c.Request.Context(), c.Param("registrationId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}
