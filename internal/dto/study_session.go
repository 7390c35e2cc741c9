package dto

// CreateStudySessionRequest defines the payload for creating a session.
type CreateStudySessionRequest struct {
	Name          string `json:"name" validate:"required,max=100"`
	StartTime     string `json:"start_time" validate:"required,clock"`
	EndTime       string `json:"end_time" validate:"required,clock"`
	OneGrade      bool   `json:"one_grade"`
	TwoGrade      bool   `json:"two_grade"`
	ThreeGrade    bool   `json:"three_grade"`
	MinutesBefore int    `json:"minutes_before" validate:"min=0,max=720"`
	MinutesAfter  int    `json:"minutes_after" validate:"min=0,max=720"`
	RoomID        int64  `json:"room_id" validate:"required"`
}

// UpdateStudySessionRequest patches a session. Nil fields are left untouched.
type UpdateStudySessionRequest struct {
	Name          *string `json:"name" validate:"omitempty,min=1,max=100"`
	StartTime     *string `json:"start_time" validate:"omitempty,clock"`
	EndTime       *string `json:"end_time" validate:"omitempty,clock"`
	OneGrade      *bool   `json:"one_grade"`
	TwoGrade      *bool   `json:"two_grade"`
	ThreeGrade    *bool   `json:"three_grade"`
	MinutesBefore *int    `json:"minutes_before" validate:"omitempty,min=0,max=720"`
	MinutesAfter  *int    `json:"minutes_after" validate:"omitempty,min=0,max=720"`
	RoomID        *int64  `json:"room_id" validate:"omitempty,min=1"`
}

// Empty reports whether the patch changes nothing.
func (r UpdateStudySessionRequest) Empty() bool {
	return r.Name == nil && r.StartTime == nil && r.EndTime == nil &&
		r.OneGrade == nil && r.TwoGrade == nil && r.ThreeGrade == nil &&
		r.MinutesBefore == nil && r.MinutesAfter == nil && r.RoomID == nil
}
