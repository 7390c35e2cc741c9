package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/study-seat-api/internal/models"
	appErrors "github.com/noah-isme/study-seat-api/pkg/errors"
	"github.com/noah-isme/study-seat-api/pkg/export"
)

// Roster export formats.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

type rosterSource interface {
	Roster(ctx context.Context, sessionID int64, date string) (*Roster, error)
}

// Renderer turns a dataset into a downloadable document.
type Renderer interface {
	Render(data export.Dataset) ([]byte, error)
	ContentType() string
	Extension() string
}

// ExportFile is a rendered roster ready to be streamed.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

var rosterHeaders = []string{"Seat", "Row", "Col", "Student ID", "Name", "Grade", "Class", "Number", "Registered At", "Issue", "Note"}

// ExportService renders session rosters for supervisors.
type ExportService struct {
	source    rosterSource
	renderers map[string]Renderer
	logger    *zap.Logger
}

// NewExportService constructs an ExportService. Nil renderers fall back to the CSV and PDF exporters.
func NewExportService(source rosterSource, logger *zap.Logger, csv, pdf Renderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		source:    source,
		renderers: map[string]Renderer{FormatCSV: csv, FormatPDF: pdf},
		logger:    logger,
	}
}

// Export renders the active registrations of a session on date in the requested format.
func (s *ExportService) Export(ctx context.Context, sessionID int64, date, format string) (*ExportFile, error) {
	if format == "" {
		format = FormatCSV
	}
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	roster, err := s.source.Roster(ctx, sessionID, date)
	if err != nil {
		return nil, err
	}

	body, err := renderer.Render(BuildRosterDataset(roster))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render roster")
	}

	s.logger.Info("roster exported",
		zap.Int64("session_id", sessionID),
		zap.String("date", date),
		zap.String("format", format),
		zap.Int("rows", len(roster.Registrations)),
	)
	return &ExportFile{
		Filename:    fmt.Sprintf("roster-%d-%s.%s", sessionID, date, renderer.Extension()),
		ContentType: renderer.ContentType(),
		Body:        body,
	}, nil
}

// BuildRosterDataset orders registrations by seat and resolves each seat label from the layout.
func BuildRosterDataset(roster *Roster) export.Dataset {
	regs := append([]models.Registration(nil), roster.Registrations...)
	sort.SliceStable(regs, func(i, j int) bool {
		ri, rj := atoiOr(regs[i].SeatRow), atoiOr(regs[j].SeatRow)
		if ri != rj {
			return ri < rj
		}
		return atoiOr(regs[i].SeatCol) < atoiOr(regs[j].SeatCol)
	})

	rows := make([][]string, 0, len(regs))
	for _, reg := range regs {
		label, _ := roster.Room.Layout.Cell(atoiOr(reg.SeatRow), atoiOr(reg.SeatCol))
		rows = append(rows, []string{
			label,
			reg.SeatRow,
			reg.SeatCol,
			reg.StudentID,
			reg.Name,
			strconv.Itoa(reg.Grade),
			strconv.Itoa(reg.ClassNumber),
			strconv.Itoa(reg.StudentNumber),
			reg.RegisteredAt.Format(time.RFC3339),
			deref(reg.IssueType),
			deref(reg.Note),
		})
	}

	return export.Dataset{
		Title:    roster.Session.Name,
		Subtitle: fmt.Sprintf("%s - %s - %d registered", roster.Room.Name, roster.Date, len(regs)),
		Headers:  rosterHeaders,
		Rows:     rows,
	}
}

func atoiOr(raw string) int {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return -1
	}
	return v
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
