package repository

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrSeatOccupied reports an active registration already holding the seat.
	ErrSeatOccupied = errors.New("seat already occupied")
	// ErrStudentRegistered reports an active registration already held by the student.
	ErrStudentRegistered = errors.New("student already registered")
	// ErrAlreadyCancelled reports a cancellation of an inactive registration.
	ErrAlreadyCancelled = errors.New("registration already cancelled")
	// ErrDuplicateName reports a unique name clash.
	ErrDuplicateName = errors.New("name already exists")
)

// Postgres error codes this package reacts to.
const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgSerializationFailure = "40001"
)

const (
	constraintActiveSeat    = "registrations_active_seat_uniq"
	constraintActiveStudent = "registrations_active_student_uniq"
)

func pqError(err error) (*pq.Error, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr, true
	}
	return nil, false
}

func isUniqueViolation(err error) bool {
	pqErr, ok := pqError(err)
	return ok && string(pqErr.Code) == pgUniqueViolation
}

func isSerializationFailure(err error) bool {
	pqErr, ok := pqError(err)
	return ok && string(pqErr.Code) == pgSerializationFailure
}
