package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/study-seat-api/internal/models"
)

var registrationRowColumns = []string{
	"id", "name", "grade", "class_number", "student_number", "student_id", "session_id",
	"seat_row", "seat_col", "date", "registered_at", "cancelled", "cancelled_at",
	"cancellation_reason", "issue_type", "note",
}

func sampleRegistration() *models.Registration {
	return &models.Registration{
		ID:            "8f0c1c1e-4f57-4d1a-9d0f-5d2b8a4d9a10",
		Name:          "Kim",
		Grade:         2,
		ClassNumber:   3,
		StudentNumber: 14,
		StudentID:     "2-3-14",
		SessionID:     1,
		SeatRow:       "0",
		SeatCol:       "3",
		Date:          "2024-05-02",
		RegisteredAt:  time.Date(2024, 5, 2, 9, 12, 0, 0, time.UTC),
	}
}

func expectOccupancy(mock sqlmock.Sqlmock, seat, student bool) {
	mock.ExpectQuery(regexp.QuoteMeta("AND seat_row = $3 AND seat_col = $4 AND NOT cancelled")).
		WithArgs(int64(1), "2024-05-02", "0", "3").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(seat))
	if seat {
		return
	}
	mock.ExpectQuery(regexp.QuoteMeta("AND student_id = $3 AND NOT cancelled")).
		WithArgs(int64(1), "2024-05-02", "2-3-14").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(student))
}

func TestRegistrationRepositoryCreateActive(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRegistrationRepository(db)
	reg := sampleRegistration()

	mock.ExpectBegin()
	expectOccupancy(mock, false, false)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO registrations")).
		WithArgs(reg.ID, "Kim", 2, 3, 14, "2-3-14", int64(1), "0", "3", "2024-05-02", reg.RegisteredAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.CreateActive(context.Background(), reg))
}

func TestRegistrationRepositoryCreateActiveSeatTaken(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRegistrationRepository(db)

	mock.ExpectBegin()
	expectOccupancy(mock, true, false)
	mock.ExpectRollback()

	err := repo.CreateActive(context.Background(), sampleRegistration())
	assert.ErrorIs(t, err, ErrSeatOccupied)
}

func TestRegistrationRepositoryCreateActiveStudentRegistered(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRegistrationRepository(db)

	mock.ExpectBegin()
	expectOccupancy(mock, false, true)
	mock.ExpectRollback()

	err := repo.CreateActive(context.Background(), sampleRegistration())
	assert.ErrorIs(t, err, ErrStudentRegistered)
}

func TestRegistrationRepositoryMapsUniqueViolationByConstraint(t *testing.T) {
	cases := map[string]error{
		constraintActiveSeat:    ErrSeatOccupied,
		constraintActiveStudent: ErrStudentRegistered,
	}
	for constraint, want := range cases {
		t.Run(constraint, func(t *testing.T) {
			db, mock, cleanup := newRepoMock(t)
			defer cleanup()
			repo := NewRegistrationRepository(db)

			mock.ExpectBegin()
			expectOccupancy(mock, false, false)
			mock.ExpectExec(regexp.QuoteMeta("INSERT INTO registrations")).
				WillReturnError(&pq.Error{Code: pgUniqueViolation, Constraint: constraint})
			mock.ExpectRollback()

			err := repo.CreateActive(context.Background(), sampleRegistration())
			assert.ErrorIs(t, err, want)
		})
	}
}

func TestRegistrationRepositoryClassifiesSerializationFailure(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRegistrationRepository(db)

	mock.ExpectBegin()
	expectOccupancy(mock, false, false)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO registrations")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit().WillReturnError(&pq.Error{Code: pgSerializationFailure})
	// committed state re-read: the seat is free but the student now holds another seat
	expectOccupancy(mock, false, true)

	err := repo.CreateActive(context.Background(), sampleRegistration())
	assert.ErrorIs(t, err, ErrStudentRegistered)
}

func TestRegistrationRepositoryUnclassifiedSerializationFailureIsInternal(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRegistrationRepository(db)

	mock.ExpectBegin()
	expectOccupancy(mock, false, false)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO registrations")).
		WillReturnError(&pq.Error{Code: pgSerializationFailure})
	mock.ExpectRollback()
	expectOccupancy(mock, false, false)

	err := repo.CreateActive(context.Background(), sampleRegistration())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSeatOccupied)
	assert.NotErrorIs(t, err, ErrStudentRegistered)
}

func TestRegistrationRepositoryListActive(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRegistrationRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(registrationRowColumns).
		AddRow("r1", "Kim", 2, 3, 14, "2-3-14", int64(1), "0", "3", "2024-05-02", now, false, nil, nil, nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta("FROM registrations WHERE session_id = $1 AND date = $2 AND NOT cancelled")).
		WithArgs(int64(1), "2024-05-02").
		WillReturnRows(rows)

	regs, err := repo.ListActive(context.Background(), 1, "2024-05-02")
	require.NoError(t, err)
	require.Len(t, regs, 1)
	assert.Equal(t, "3", regs[0].SeatCol)
	assert.Nil(t, regs[0].Note)
}

func TestRegistrationRepositoryCancelAlreadyCancelled(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRegistrationRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE registrations SET cancelled = TRUE")).
		WithArgs("r1", sqlmock.AnyArg(), nil).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta("FROM registrations WHERE id = $1")).
		WithArgs("r1").
		WillReturnRows(sqlmock.NewRows(registrationRowColumns).
			AddRow("r1", "Kim", 2, 3, 14, "2-3-14", int64(1), "0", "3", "2024-05-02", time.Now(), true, time.Now(), nil, nil, nil))

	_, err := repo.Cancel(context.Background(), "r1", nil, time.Now())
	assert.ErrorIs(t, err, ErrAlreadyCancelled)
}

func TestRegistrationRepositoryCancelMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRegistrationRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE registrations SET cancelled = TRUE")).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta("FROM registrations WHERE id = $1")).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Cancel(context.Background(), "missing", nil, time.Now())
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestRegistrationRepositorySetNote(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRegistrationRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE registrations SET note = $1 WHERE id = $2 RETURNING")).
		WithArgs("left early", "r1").
		WillReturnRows(sqlmock.NewRows(registrationRowColumns).
			AddRow("r1", "Kim", 2, 3, 14, "2-3-14", int64(1), "0", "3", "2024-05-02", time.Now(), false, nil, nil, nil, "left early"))

	reg, err := repo.SetNote(context.Background(), "r1", "left early")
	require.NoError(t, err)
	require.NotNil(t, reg.Note)
	assert.Equal(t, "left early", *reg.Note)
}
