package models

import (
	"fmt"
	"time"
)

// DateLayout is the calendar day format used for registration dates.
const DateLayout = "2006-01-02"

// Registration is a student's claim on one seat of a session for one day.
type Registration struct {
	ID                 string     `db:"id" json:"id"`
	Name               string     `db:"name" json:"name"`
	Grade              int        `db:"grade" json:"grade"`
	ClassNumber        int        `db:"class_number" json:"class_number"`
	StudentNumber      int        `db:"student_number" json:"student_number"`
	StudentID          string     `db:"student_id" json:"student_id"`
	SessionID          int64      `db:"session_id" json:"session_id"`
	SeatRow            string     `db:"seat_row" json:"seat_row"`
	SeatCol            string     `db:"seat_col" json:"seat_col"`
	Date               string     `db:"date" json:"date"`
	RegisteredAt       time.Time  `db:"registered_at" json:"registered_at"`
	Cancelled          bool       `db:"cancelled" json:"cancelled"`
	CancelledAt        *time.Time `db:"cancelled_at" json:"cancelled_at,omitempty"`
	CancellationReason *string    `db:"cancellation_reason" json:"cancellation_reason,omitempty"`
	IssueType          *string    `db:"issue_type" json:"issue_type,omitempty"`
	Note               *string    `db:"note" json:"note,omitempty"`
}

// StudentIDFor renders the "{grade}-{class}-{number}" student identifier.
func StudentIDFor(grade, classNumber, studentNumber int) string {
	return fmt.Sprintf("%d-%d-%d", grade, classNumber, studentNumber)
}
