package dto

import (
	"time"

	"github.com/noah-isme/study-seat-api/internal/models"
)

// RegisterRequest defines the payload a student submits to claim a seat for today.
type RegisterRequest struct {
	Name          string `json:"name" validate:"required,max=50"`
	Grade         int    `json:"grade" validate:"required,oneof=1 2 3"`
	ClassNumber   int    `json:"class_number" validate:"required,min=1,max=99"`
	StudentNumber int    `json:"student_number" validate:"required,min=1,max=99"`
	SessionID     int64  `json:"session_id" validate:"required"`
	SeatRow       string `json:"seat_row" validate:"required,max=8"`
	SeatCol       string `json:"seat_col" validate:"required,max=8"`
}

// SeatPosition is a canonical seat coordinate pair.
type SeatPosition struct {
	Row string `json:"row"`
	Col string `json:"col"`
}

// RegistrationResponse describes an accepted or cancelled registration.
type RegistrationResponse struct {
	ID                 string       `json:"id"`
	Name               string       `json:"name"`
	Grade              int          `json:"grade"`
	ClassNumber        int          `json:"class_number"`
	StudentNumber      int          `json:"student_number"`
	StudentID          string       `json:"student_id"`
	SessionID          int64        `json:"session_id"`
	Seat               SeatPosition `json:"seat"`
	Date               string       `json:"date"`
	RegisteredAt       time.Time    `json:"registered_at"`
	Cancelled          bool         `json:"cancelled"`
	CancelledAt        *time.Time   `json:"cancelled_at,omitempty"`
	CancellationReason *string      `json:"cancellation_reason,omitempty"`
	IssueType          *string      `json:"issue_type,omitempty"`
	Note               *string      `json:"note,omitempty"`
}

// CancelRegistrationRequest carries an optional reason for releasing a seat.
type CancelRegistrationRequest struct {
	Reason *string `json:"reason" validate:"omitempty,max=200"`
}

// NewRegistrationResponse maps a stored registration to its API shape.
func NewRegistrationResponse(reg *models.Registration) RegistrationResponse {
	return RegistrationResponse{
		ID:                 reg.ID,
		Name:               reg.Name,
		Grade:              reg.Grade,
		ClassNumber:        reg.ClassNumber,
		StudentNumber:      reg.StudentNumber,
		StudentID:          reg.StudentID,
		SessionID:          reg.SessionID,
		Seat:               SeatPosition{Row: reg.SeatRow, Col: reg.SeatCol},
		Date:               reg.Date,
		RegisteredAt:       reg.RegisteredAt,
		Cancelled:          reg.Cancelled,
		CancelledAt:        reg.CancelledAt,
		CancellationReason: reg.CancellationReason,
		IssueType:          reg.IssueType,
		Note:               reg.Note,
	}
}
