package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/study-seat-api/internal/dto"
	"github.com/noah-isme/study-seat-api/internal/models"
	appErrors "github.com/noah-isme/study-seat-api/pkg/errors"
)

type activeRegistrationLister interface {
	ListActive(ctx context.Context, sessionID int64, date string) ([]models.Registration, error)
}

type sessionGetter interface {
	Get(ctx context.Context, id int64) (*models.StudySession, error)
}

func seatKey(row, col string) string {
	return row + "\x00" + col
}

// ProjectSeatMap renders the layout with the occupancy of the given active registrations.
// Registrations are matched on their stored string coordinates. Anonymous viewers receive a
// zero-valued student for every occupied seat.
func ProjectSeatMap(layout models.Grid, registrations []models.Registration, authenticated bool) ([][]dto.CellView, int) {
	bySeat := make(map[string]models.Registration, len(registrations))
	for _, reg := range registrations {
		if reg.Cancelled {
			continue
		}
		key := seatKey(reg.SeatRow, reg.SeatCol)
		if _, taken := bySeat[key]; !taken {
			bySeat[key] = reg
		}
	}

	grid := make([][]dto.CellView, len(layout))
	for r, row := range layout {
		cells := make([]dto.CellView, len(row))
		for c, label := range row {
			if label == models.AisleCell {
				cells[c] = dto.CellView{Type: dto.CellTypeAisle, Row: r, Col: c}
				continue
			}
			cell := dto.CellView{Type: dto.CellTypeSeat, ID: label, Row: r, Col: c}
			ref := SeatRef{Row: r, Col: c}
			if reg, ok := bySeat[seatKey(ref.RowKey(), ref.ColKey())]; ok {
				cell.Occupied = true
				student := dto.StudentView{}
				if authenticated {
					student = dto.StudentView{
						ID:           reg.ID,
						Name:         reg.Name,
						Grade:        reg.Grade,
						Class:        reg.ClassNumber,
						Number:       reg.StudentNumber,
						StudentID:    reg.StudentID,
						RegisteredAt: reg.RegisteredAt.Format(time.RFC3339),
					}
				}
				cell.Student = &student
			}
			cells[c] = cell
		}
		grid[r] = cells
	}
	return grid, len(bySeat)
}

// SeatMapService builds per-session, per-date occupancy views.
type SeatMapService struct {
	sessions      sessionGetter
	rooms         roomProvider
	registrations activeRegistrationLister
	logger        *zap.Logger
}

// NewSeatMapService constructs a SeatMapService.
func NewSeatMapService(sessions sessionGetter, rooms roomProvider, registrations activeRegistrationLister, logger *zap.Logger) *SeatMapService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SeatMapService{sessions: sessions, rooms: rooms, registrations: registrations, logger: logger}
}

// Get returns the seat map of sessionID on date (YYYY-MM-DD).
func (s *SeatMapService) Get(ctx context.Context, sessionID int64, date string, authenticated bool) (*dto.SeatMapResponse, error) {
	roster, err := s.Roster(ctx, sessionID, date)
	if err != nil {
		return nil, err
	}

	layout, count := ProjectSeatMap(roster.Room.Layout, roster.Registrations, authenticated)
	return &dto.SeatMapResponse{
		SessionID:         roster.Session.ID,
		SessionName:       roster.Session.Name,
		RoomID:            roster.Room.ID,
		Date:              date,
		Layout:            layout,
		SeatCount:         roster.Room.Layout.SeatCount(),
		RegistrationCount: count,
	}, nil
}

// Roster is the raw material of a seat map.
type Roster struct {
	Session       *models.StudySession
	Room          *models.StudyRoom
	Date          string
	Registrations []models.Registration
}

// Roster loads the session, its room and the active registrations of date.
func (s *SeatMapService) Roster(ctx context.Context, sessionID int64, date string) (*Roster, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	room, err := s.rooms.Get(ctx, session.RoomID)
	if err != nil {
		return nil, err
	}
	regs, err := s.registrations.ListActive(ctx, session.ID, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load registrations")
	}
	return &Roster{Session: session, Room: room, Date: date, Registrations: regs}, nil
}
