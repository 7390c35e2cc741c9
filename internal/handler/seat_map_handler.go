package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/study-seat-api/internal/dto"
	"github.com/noah-isme/study-seat-api/internal/middleware"
	"github.com/noah-isme/study-seat-api/internal/service"
	appErrors "github.com/noah-isme/study-seat-api/pkg/errors"
	"github.com/noah-isme/study-seat-api/pkg/response"
)

type seatMapService interface {
	Get(ctx context.Context, sessionID int64, date string, authenticated bool) (*dto.SeatMapResponse, error)
}

type rosterExporter interface {
	Export(ctx context.Context, sessionID int64, date, format string) (*service.ExportFile, error)
}

// SeatMapHandler serves the per-day seat map of a session.
type SeatMapHandler struct {
	seatMap  seatMapService
	exporter rosterExporter
}

// NewSeatMapHandler constructs a seat map handler.
func NewSeatMapHandler(seatMap seatMapService, exporter rosterExporter) *SeatMapHandler {
	return &SeatMapHandler{seatMap: seatMap, exporter: exporter}
}

// Get godoc
// @Summary Seat map for a day
// @Description Project the room layout with the active registrations of the day. Student data is redacted without a token.
// @Tags Registrations
// @Produce json
// @Param id path int true "Study session ID"
// @Param yyyy path int true "Year"
// @Param mm path int true "Month"
// @Param dd path int true "Day"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /sessions/{id}/registrations/{yyyy}/{mm}/{dd} [get]
func (h *SeatMapHandler) Get(c *gin.Context) {
	sessionID, ok := pathID(c, "id", appErrors.ErrSessionNotFound)
	if !ok {
		return
	}
	date, ok := pathDate(c)
	if !ok {
		return
	}

	authenticated := middleware.Claims(c) != nil
	view, err := h.seatMap.Get(c.Request.Context(), sessionID, date, authenticated)
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.SetView(c, authenticated)
	response.JSON(c, http.StatusOK, view, nil, middleware.ResponseMeta(c))
}

// Export godoc
// @Summary Export roster
// @Description Download the active registrations of a session on a day as CSV or PDF
// @Tags Registrations
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param id path int true "Study session ID"
// @Param yyyy path int true "Year"
// @Param mm path int true "Month"
// @Param dd path int true "Day"
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /sessions/{id}/registrations/{yyyy}/{mm}/{dd}/export [get]
func (h *SeatMapHandler) Export(c *gin.Context) {
	sessionID, ok := pathID(c, "id", appErrors.ErrSessionNotFound)
	if !ok {
		return
	}
	date, ok := pathDate(c)
	if !ok {
		return
	}
	var query dto.RosterExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export query"))
		return
	}

	file, err := h.exporter.Export(c.Request.Context(), sessionID, date, query.Format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}
