package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/study-seat-api/internal/models"
)

const registrationColumns = "id, name, grade, class_number, student_number, student_id, session_id, seat_row, seat_col, TO_CHAR(date, 'YYYY-MM-DD') AS date, registered_at, cancelled, cancelled_at, cancellation_reason, issue_type, note"

const (
	seatOccupiedQuery      = `SELECT EXISTS (SELECT 1 FROM registrations WHERE session_id = $1 AND date = $2 AND seat_row = $3 AND seat_col = $4 AND NOT cancelled)`
	studentRegisteredQuery = `SELECT EXISTS (SELECT 1 FROM registrations WHERE session_id = $1 AND date = $2 AND student_id = $3 AND NOT cancelled)`
	insertRegistration     = `INSERT INTO registrations (id, name, grade, class_number, student_number, student_id, session_id, seat_row, seat_col, date, registered_at, cancelled) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, FALSE)`
)

// RegistrationRepository persists seat registrations.
type RegistrationRepository struct {
	db *sqlx.DB
}

// NewRegistrationRepository constructs a new registration repository.
func NewRegistrationRepository(db *sqlx.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

// CreateActive runs the occupancy checks and the insert in one serializable transaction.
// Conflicts surface as ErrSeatOccupied or ErrStudentRegistered whether they are seen by the
// checks, by the partial unique indexes, or by a serialization failure.
func (r *RegistrationRepository) CreateActive(ctx context.Context, reg *models.Registration) (err error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("begin registration tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var taken bool
	if err = tx.GetContext(ctx, &taken, seatOccupiedQuery, reg.SessionID, reg.Date, reg.SeatRow, reg.SeatCol); err != nil {
		return r.admissionError(ctx, tx, reg, err, "check seat occupancy")
	}
	if taken {
		return ErrSeatOccupied
	}

	var registered bool
	if err = tx.GetContext(ctx, &registered, studentRegisteredQuery, reg.SessionID, reg.Date, reg.StudentID); err != nil {
		return r.admissionError(ctx, tx, reg, err, "check student registration")
	}
	if registered {
		return ErrStudentRegistered
	}

	if _, err = tx.ExecContext(ctx, insertRegistration,
		reg.ID, reg.Name, reg.Grade, reg.ClassNumber, reg.StudentNumber, reg.StudentID,
		reg.SessionID, reg.SeatRow, reg.SeatCol, reg.Date, reg.RegisteredAt,
	); err != nil {
		return r.admissionError(ctx, tx, reg, err, "insert registration")
	}

	if err = tx.Commit(); err != nil {
		return r.admissionError(ctx, tx, reg, err, "commit registration")
	}
	reg.Cancelled = false
	return nil
}

// admissionError maps store-level conflicts onto the domain sentinels.
func (r *RegistrationRepository) admissionError(ctx context.Context, tx *sqlx.Tx, reg *models.Registration, err error, op string) error {
	switch {
	case isUniqueViolation(err):
		pqErr, _ := pqError(err)
		switch pqErr.Constraint {
		case constraintActiveSeat:
			return ErrSeatOccupied
		case constraintActiveStudent:
			return ErrStudentRegistered
		}
	case isSerializationFailure(err):
		_ = tx.Rollback()
		if conflict := r.classifyConflict(ctx, reg); conflict != nil {
			return conflict
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// classifyConflict re-reads committed state after a serialization failure, seat first.
func (r *RegistrationRepository) classifyConflict(ctx context.Context, reg *models.Registration) error {
	var taken bool
	if err := r.db.GetContext(ctx, &taken, seatOccupiedQuery, reg.SessionID, reg.Date, reg.SeatRow, reg.SeatCol); err == nil && taken {
		return ErrSeatOccupied
	}
	var registered bool
	if err := r.db.GetContext(ctx, &registered, studentRegisteredQuery, reg.SessionID, reg.Date, reg.StudentID); err == nil && registered {
		return ErrStudentRegistered
	}
	return nil
}

// ListActive returns the non-cancelled registrations of a session on one date.
func (r *RegistrationRepository) ListActive(ctx context.Context, sessionID int64, date string) ([]models.Registration, error) {
	query := fmt.Sprintf("SELECT %s FROM registrations WHERE session_id = $1 AND date = $2 AND NOT cancelled ORDER BY registered_at, id", registrationColumns)
	var regs []models.Registration
	if err := r.db.SelectContext(ctx, &regs, query, sessionID, date); err != nil {
		return nil, fmt.Errorf("list active registrations: %w", err)
	}
	return regs, nil
}

// FindByID returns a registration or sql.ErrNoRows.
func (r *RegistrationRepository) FindByID(ctx context.Context, id string) (*models.Registration, error) {
	query := fmt.Sprintf("SELECT %s FROM registrations WHERE id = $1", registrationColumns)
	var reg models.Registration
	if err := r.db.GetContext(ctx, &reg, query, id); err != nil {
		return nil, err
	}
	return &reg, nil
}

// Cancel marks an active registration as cancelled and releases its seat.
func (r *RegistrationRepository) Cancel(ctx context.Context, id string, reason *string, at time.Time) (*models.Registration, error) {
	query := fmt.Sprintf("UPDATE registrations SET cancelled = TRUE, cancelled_at = $2, cancellation_reason = $3 WHERE id = $1 AND NOT cancelled RETURNING %s", registrationColumns)
	var reg models.Registration
	if err := r.db.QueryRowxContext(ctx, query, id, at, reason).StructScan(&reg); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("cancel registration: %w", err)
		}
		if _, findErr := r.FindByID(ctx, id); findErr != nil {
			return nil, findErr
		}
		return nil, ErrAlreadyCancelled
	}
	return &reg, nil
}

// SetIssueType records the issue description on a registration.
func (r *RegistrationRepository) SetIssueType(ctx context.Context, id, issue string) (*models.Registration, error) {
	return r.setColumn(ctx, "issue_type", id, issue)
}

// SetNote records the memo on a registration.
func (r *RegistrationRepository) SetNote(ctx context.Context, id, note string) (*models.Registration, error) {
	return r.setColumn(ctx, "note", id, note)
}

func (r *RegistrationRepository) setColumn(ctx context.Context, column, id string, value interface{}) (*models.Registration, error) {
	b := NewUpdateBuilder("registrations", "issue_type", "note")
	query, args, err := b.Set(column, value).Build("id", id, registrationColumns)
	if err != nil {
		return nil, err
	}
	var reg models.Registration
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(&reg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("set registration %s: %w", column, err)
	}
	return &reg, nil
}
