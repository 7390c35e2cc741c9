package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/study-seat-api/internal/dto"
	"github.com/noah-isme/study-seat-api/internal/models"
)

const studyRoomColumns = "id, name, layout, created_at, updated_at"

// StudyRoomRepository manages persistence for study rooms.
type StudyRoomRepository struct {
	db *sqlx.DB
}

// NewStudyRoomRepository constructs a new study room repository.
func NewStudyRoomRepository(db *sqlx.DB) *StudyRoomRepository {
	return &StudyRoomRepository{db: db}
}

// List returns every room ordered by id.
func (r *StudyRoomRepository) List(ctx context.Context) ([]models.StudyRoom, error) {
	query := fmt.Sprintf("SELECT %s FROM study_rooms ORDER BY id", studyRoomColumns)
	var rooms []models.StudyRoom
	if err := r.db.SelectContext(ctx, &rooms, query); err != nil {
		return nil, fmt.Errorf("list study rooms: %w", err)
	}
	return rooms, nil
}

// FindByID returns a room by id or sql.ErrNoRows.
func (r *StudyRoomRepository) FindByID(ctx context.Context, id int64) (*models.StudyRoom, error) {
	query := fmt.Sprintf("SELECT %s FROM study_rooms WHERE id = $1", studyRoomColumns)
	var room models.StudyRoom
	if err := r.db.GetContext(ctx, &room, query, id); err != nil {
		return nil, err
	}
	return &room, nil
}

// ExistsByName checks whether another room already uses the name.
func (r *StudyRoomRepository) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	query := "SELECT 1 FROM study_rooms WHERE name = $1"
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
		return false, fmt.Errorf("check study room name: %w", err)
	}
	return true, nil
}

// Create inserts a room and fills its generated fields.
func (r *StudyRoomRepository) Create(ctx context.Context, room *models.StudyRoom) error {
	now := time.Now().UTC()
	room.CreatedAt = now
	room.UpdatedAt = now
	if room.Layout == nil {
		room.Layout = models.Grid{}
	}

	const query = `INSERT INTO study_rooms (name, layout, created_at, updated_at) VALUES ($1, $2, $3, $4) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, room.Name, room.Layout, room.CreatedAt, room.UpdatedAt).Scan(&room.ID); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateName
		}
		return fmt.Errorf("create study room: %w", err)
	}
	return nil
}

// Update applies the patch and returns the stored room.
func (r *StudyRoomRepository) Update(ctx context.Context, id int64, patch dto.UpdateStudyRoomRequest) (*models.StudyRoom, error) {
	b := NewUpdateBuilder("study_rooms", "name", "layout", "updated_at")
	SetIf(b, "name", patch.Name)
	SetIf(b, "layout", patch.Layout)
	b.Set("updated_at", time.Now().UTC())

	query, args, err := b.Build("id", id, studyRoomColumns)
	if err != nil {
		return nil, err
	}

	var room models.StudyRoom
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(&room); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		if isUniqueViolation(err) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("update study room: %w", err)
	}
	return &room, nil
}

// Delete removes a room and returns the deleted record.
func (r *StudyRoomRepository) Delete(ctx context.Context, id int64) (*models.StudyRoom, error) {
	query := fmt.Sprintf("DELETE FROM study_rooms WHERE id = $1 RETURNING %s", studyRoomColumns)
	var room models.StudyRoom
	if err := r.db.QueryRowxContext(ctx, query, id).StructScan(&room); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("delete study room: %w", err)
	}
	return &room, nil
}

// CountSessions returns how many sessions reference the room.
func (r *StudyRoomRepository) CountSessions(ctx context.Context, roomID int64) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM study_sessions WHERE room_id = $1`, roomID); err != nil {
		return 0, fmt.Errorf("count sessions for room: %w", err)
	}
	return total, nil
}
