package models

import "time"

// StudyRoom is a physical room with a seat layout.
type StudyRoom struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Layout    Grid      `db:"layout" json:"layout"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
