// Package events defines registration messages published to the broker and the publisher that sends them.
package events

const (
	QueueRegistrationCreated   = "registration.created"
	QueueRegistrationCancelled = "registration.cancelled"
)

// RegistrationCreated is published after a seat registration commits. It carries enough for attendance
// boards to update without querying the primary database.
type RegistrationCreated struct {
	RegistrationID string `json:"registration_id"`
	SessionID      int64  `json:"session_id"`
	StudentID      string `json:"student_id"`
	Name           string `json:"name"`
	SeatRow        string `json:"seat_row"`
	SeatCol        string `json:"seat_col"`
	SeatLabel      string `json:"seat_label"`
	Date           string `json:"date"`
	RegisteredAt   string `json:"registered_at"`
}

// RegistrationCancelled is published after a registration is logically cancelled.
type RegistrationCancelled struct {
	RegistrationID string `json:"registration_id"`
	SessionID      int64  `json:"session_id"`
	Date           string `json:"date"`
	Reason         string `json:"reason,omitempty"`
	CancelledAt    string `json:"cancelled_at"`
}
