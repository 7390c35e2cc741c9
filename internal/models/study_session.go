package models

// StudySession is a recurring daily study period bound to a room.
type StudySession struct {
	ID            int64  `db:"id" json:"id"`
	Name          string `db:"name" json:"name"`
	StartTime     string `db:"start_time" json:"start_time"`
	EndTime       string `db:"end_time" json:"end_time"`
	OneGrade      bool   `db:"one_grade" json:"one_grade"`
	TwoGrade      bool   `db:"two_grade" json:"two_grade"`
	ThreeGrade    bool   `db:"three_grade" json:"three_grade"`
	MinutesBefore int    `db:"minutes_before" json:"minutes_before"`
	MinutesAfter  int    `db:"minutes_after" json:"minutes_after"`
	RoomID        int64  `db:"room_id" json:"room_id"`
}

// AllowsGrade reports whether students of grade may use the session. Grades outside 1-3 are never allowed.
func (s StudySession) AllowsGrade(grade int) bool {
	switch grade {
	case 1:
		return s.OneGrade
	case 2:
		return s.TwoGrade
	case 3:
		return s.ThreeGrade
	default:
		return false
	}
}

// StudySessionDetail joins the room name for listings.
type StudySessionDetail struct {
	StudySession
	RoomName string `db:"room_name" json:"room_name"`
}
