package dto

import "github.com/noah-isme/study-seat-api/internal/models"

// CreateStudyRoomRequest defines the payload for creating a room.
type CreateStudyRoomRequest struct {
	Name   string      `json:"name" validate:"required,max=100"`
	Layout models.Grid `json:"layout" validate:"required,dive,dive,required,max=32"`
}

// UpdateStudyRoomRequest patches a room. Nil fields are left untouched.
type UpdateStudyRoomRequest struct {
	Name   *string      `json:"name" validate:"omitempty,min=1,max=100"`
	Layout *models.Grid `json:"layout" validate:"omitempty,dive,dive,required,max=32"`
}
