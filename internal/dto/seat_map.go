package dto

import "encoding/json"

// Cell types rendered in a seat map.
const (
	CellTypeSeat  = "seat"
	CellTypeAisle = "aisle"
)

// StudentView is the occupant of a seat. Anonymous viewers receive the zero value.
type StudentView struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Grade        int    `json:"grade"`
	Class        int    `json:"class"`
	Number       int    `json:"number"`
	StudentID    string `json:"student_id"`
	RegisteredAt string `json:"registered_at"`
}

// CellView is one cell of a projected seat map.
type CellView struct {
	Type     string
	ID       string
	Row      int
	Col      int
	Occupied bool
	Student  *StudentView
}

type seatCellJSON struct {
	Type     string       `json:"type"`
	ID       string       `json:"id"`
	Row      int          `json:"row"`
	Col      int          `json:"col"`
	Occupied bool         `json:"occupied"`
	Student  *StudentView `json:"student"`
}

// MarshalJSON renders aisles as {"type":"aisle"} and seats with every field, student=null when free.
func (c CellView) MarshalJSON() ([]byte, error) {
	if c.Type == CellTypeAisle {
		return json.Marshal(struct {
			Type string `json:"type"`
		}{Type: CellTypeAisle})
	}
	return json.Marshal(seatCellJSON{
		Type:     CellTypeSeat,
		ID:       c.ID,
		Row:      c.Row,
		Col:      c.Col,
		Occupied: c.Occupied,
		Student:  c.Student,
	})
}

// SeatMapResponse is the projected layout of a session for one date.
type SeatMapResponse struct {
	SessionID         int64        `json:"session_id"`
	SessionName       string       `json:"session_name"`
	RoomID            int64        `json:"room_id"`
	Date              string       `json:"date"`
	Layout            [][]CellView `json:"layout"`
	SeatCount         int          `json:"seat_count"`
	RegistrationCount int          `json:"registration_count"`
}

// RosterExportQuery selects the export representation.
type RosterExportQuery struct {
	Format string `form:"format" validate:"omitempty,oneof=csv pdf"`
}
