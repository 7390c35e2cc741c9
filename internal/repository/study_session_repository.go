package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/study-seat-api/internal/dto"
	"github.com/noah-isme/study-seat-api/internal/models"
)

const studySessionColumns = "id, name, start_time, end_time, one_grade, two_grade, three_grade, minutes_before, minutes_after, room_id"

var studySessionUpdatable = []string{
	"name", "start_time", "end_time", "one_grade", "two_grade", "three_grade", "minutes_before", "minutes_after", "room_id",
}

// StudySessionRepository manages persistence for study sessions.
type StudySessionRepository struct {
	db *sqlx.DB
}

// NewStudySessionRepository constructs a new study session repository.
func NewStudySessionRepository(db *sqlx.DB) *StudySessionRepository {
	return &StudySessionRepository{db: db}
}

// List returns every session with its room name.
func (r *StudySessionRepository) List(ctx context.Context) ([]models.StudySessionDetail, error) {
	const query = `SELECT s.id, s.name, s.start_time, s.end_time, s.one_grade, s.two_grade, s.three_grade, s.minutes_before, s.minutes_after, s.room_id, COALESCE(r.name, '') AS room_name FROM study_sessions s LEFT JOIN study_rooms r ON r.id = s.room_id ORDER BY s.start_time, s.id`
	var sessions []models.StudySessionDetail
	if err := r.db.SelectContext(ctx, &sessions, query); err != nil {
		return nil, fmt.Errorf("list study sessions: %w", err)
	}
	return sessions, nil
}

// FindByID returns a session by id or sql.ErrNoRows.
func (r *StudySessionRepository) FindByID(ctx context.Context, id int64) (*models.StudySession, error) {
	query := fmt.Sprintf("SELECT %s FROM study_sessions WHERE id = $1", studySessionColumns)
	var session models.StudySession
	if err := r.db.GetContext(ctx, &session, query, id); err != nil {
		return nil, err
	}
	return &session, nil
}

// ExistsByName checks whether another session already uses the name.
func (r *StudySessionRepository) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	query := "SELECT 1 FROM study_sessions WHERE name = $1"
	args := []interface{}{name}
	if excludeID > 0 {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	query += " LIMIT 1"

	var exists int
	if err := r.db.GetContext(ctx, &exists, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check study session name: %w", err)
	}
	return true, nil
}

// Create inserts a session and fills its id.
func (r *StudySessionRepository) Create(ctx context.Context, session *models.StudySession) error {
	const query = `INSERT INTO study_sessions (name, start_time, end_time, one_grade, two_grade, three_grade, minutes_before, minutes_after, room_id) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	err := r.db.QueryRowxContext(ctx, query,
		session.Name, session.StartTime, session.EndTime,
		session.OneGrade, session.TwoGrade, session.ThreeGrade,
		session.MinutesBefore, session.MinutesAfter, session.RoomID,
	).Scan(&session.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateName
		}
		return fmt.Errorf("create study session: %w", err)
	}
	return nil
}

// Update applies the non-nil fields of the patch and returns the stored session.
func (r *StudySessionRepository) Update(ctx context.Context, id int64, patch dto.UpdateStudySessionRequest) (*models.StudySession, error) {
	b := NewUpdateBuilder("study_sessions", studySessionUpdatable...)
	SetIf(b, "name", patch.Name)
	SetIf(b, "start_time", patch.StartTime)
	SetIf(b, "end_time", patch.EndTime)
	SetIf(b, "one_grade", patch.OneGrade)
	SetIf(b, "two_grade", patch.TwoGrade)
	SetIf(b, "three_grade", patch.ThreeGrade)
	SetIf(b, "minutes_before", patch.MinutesBefore)
	SetIf(b, "minutes_after", patch.MinutesAfter)
	SetIf(b, "room_id", patch.RoomID)

	if b.Empty() {
		return r.FindByID(ctx, id)
	}

	query, args, err := b.Build("id", id, studySessionColumns)
	if err != nil {
		return nil, err
	}

	var session models.StudySession
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(&session); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		if isUniqueViolation(err) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("update study session: %w", err)
	}
	return &session, nil
}

// Delete removes a session and returns the deleted record.
func (r *StudySessionRepository) Delete(ctx context.Context, id int64) (*models.StudySession, error) {
	query := fmt.Sprintf("DELETE FROM study_sessions WHERE id = $1 RETURNING %s", studySessionColumns)
	var session models.StudySession
	if err := r.db.QueryRowxContext(ctx, query, id).StructScan(&session); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("delete study session: %w", err)
	}
	return &session, nil
}

// CountRegistrations returns how many registrations, active or not, reference the session.
func (r *StudySessionRepository) CountRegistrations(ctx context.Context, sessionID int64) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM registrations WHERE session_id = $1`, sessionID); err != nil {
		return 0, fmt.Errorf("count registrations for session: %w", err)
	}
	return total, nil
}
