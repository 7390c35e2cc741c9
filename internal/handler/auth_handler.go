package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/study-seat-api/internal/dto"
	"github.com/noah-isme/study-seat-api/pkg/response"
)

type tokenIssuer interface {
	IssueToken(ctx context.Context, req dto.TokenRequest) (*dto.TokenResponse, error)
}

// AuthHandler exchanges the administrator access key for tokens.
type AuthHandler struct {
	service tokenIssuer
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc tokenIssuer) *AuthHandler {
	return &AuthHandler{service: svc}
}

// Token godoc
// @Summary Issue access token
// @Description Exchange the administrator access key for a bearer token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body dto.TokenRequest true "Access key"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth [post]
func (h *AuthHandler) Token(c *gin.Context) {
	var req dto.TokenRequest
	if !bindJSON(c, &req, "invalid token payload") {
		return
	}

	res, err := h.service.IssueToken(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res, nil)
}
