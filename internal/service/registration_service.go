package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/study-seat-api/internal/dto"
	"github.com/noah-isme/study-seat-api/internal/models"
	"github.com/noah-isme/study-seat-api/internal/repository"
	appErrors "github.com/noah-isme/study-seat-api/pkg/errors"
	"github.com/noah-isme/study-seat-api/pkg/events"
)

const eventPublishTimeout = 3 * time.Second

type registrationStore interface {
	CreateActive(ctx context.Context, reg *models.Registration) error
	FindByID(ctx context.Context, id string) (*models.Registration, error)
	Cancel(ctx context.Context, id string, reason *string, at time.Time) (*models.Registration, error)
}

type sessionLookup interface {
	FindByID(ctx context.Context, id int64) (*models.StudySession, error)
}

// RegistrationService admits students to seats.
type RegistrationService struct {
	store     registrationStore
	sessions  sessionLookup
	rooms     roomProvider
	publisher events.Publisher
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewRegistrationService constructs a RegistrationService. Dates and windows are evaluated in loc.
func NewRegistrationService(store registrationStore, sessions sessionLookup, rooms roomProvider, publisher events.Publisher, metrics *MetricsService, loc *time.Location, validate *validator.Validate, logger *zap.Logger) *RegistrationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if loc == nil {
		loc = time.Local
	}
	return &RegistrationService{
		store:     store,
		sessions:  sessions,
		rooms:     rooms,
		publisher: publisher,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		now:       func() time.Time { return time.Now().In(loc) },
	}
}

// Register claims a seat for today. Checks short-circuit in order: session, window, grade, room, seat,
// then seat and student uniqueness inside the store transaction.
func (s *RegistrationService) Register(ctx context.Context, req dto.RegisterRequest) (*models.Registration, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, s.reject(OutcomeInvalid, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload"))
	}

	session, err := s.sessions.FindByID(ctx, req.SessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, s.reject(OutcomeSessionNotFound, appErrors.Clone(appErrors.ErrSessionNotFound, "study session not found"))
		}
		return nil, s.reject(OutcomeError, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load study session"))
	}

	now := s.now()
	opensAt, closesAt, err := RegistrationWindow(now, *session)
	if err != nil {
		return nil, s.reject(OutcomeError, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "study session has an invalid start time"))
	}
	if now.Before(opensAt) || now.After(closesAt) {
		openLabel, closeLabel := opensAt.Format(clockLayout), closesAt.Format(clockLayout)
		return nil, s.reject(OutcomeOutOfWindow, appErrors.WithDetails(appErrors.ErrOutOfWindow,
			fmt.Sprintf("registration is open from %s to %s", openLabel, closeLabel),
			map[string]string{"window_open": openLabel, "window_close": closeLabel}))
	}

	if !IsGradeEligible(req.Grade, *session) {
		return nil, s.reject(OutcomeGradeNotEligible, appErrors.Clone(appErrors.ErrGradeNotEligible, fmt.Sprintf("grade %d is not eligible for this study session", req.Grade)))
	}

	room, err := s.rooms.Get(ctx, session.RoomID)
	if err != nil {
		if errors.Is(err, appErrors.ErrRoomNotFound) {
			return nil, s.reject(OutcomeRoomNotFound, err)
		}
		return nil, s.reject(OutcomeError, err)
	}

	seat, err := ValidateSeat(room.Layout, req.SeatRow, req.SeatCol)
	if err != nil {
		return nil, s.reject(OutcomeInvalidSeat, err)
	}

	reg := &models.Registration{
		ID:            uuid.NewString(),
		Name:          req.Name,
		Grade:         req.Grade,
		ClassNumber:   req.ClassNumber,
		StudentNumber: req.StudentNumber,
		StudentID:     models.StudentIDFor(req.Grade, req.ClassNumber, req.StudentNumber),
		SessionID:     session.ID,
		SeatRow:       seat.RowKey(),
		SeatCol:       seat.ColKey(),
		Date:          now.Format(models.DateLayout),
		RegisteredAt:  now,
	}

	if err := s.store.CreateActive(ctx, reg); err != nil {
		switch {
		case errors.Is(err, repository.ErrSeatOccupied):
			return nil, s.reject(OutcomeSeatTaken, appErrors.Clone(appErrors.ErrSeatTaken, "this seat is already taken"))
		case errors.Is(err, repository.ErrStudentRegistered):
			return nil, s.reject(OutcomeAlreadyRegistered, appErrors.Clone(appErrors.ErrAlreadyRegistered, "student already has a registration for this session today"))
		}
		return nil, s.reject(OutcomeError, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save registration"))
	}

	s.metrics.RecordAdmission(OutcomeAccepted)
	s.logger.Info("registration accepted",
		zap.String("registration_id", reg.ID),
		zap.Int64("session_id", reg.SessionID),
		zap.String("student_id", reg.StudentID),
		zap.String("seat", seat.RowKey()+"-"+seat.ColKey()),
		zap.String("date", reg.Date),
	)

	s.publish(ctx, events.QueueRegistrationCreated, events.RegistrationCreated{
		RegistrationID: reg.ID,
		SessionID:      reg.SessionID,
		StudentID:      reg.StudentID,
		Name:           reg.Name,
		SeatRow:        reg.SeatRow,
		SeatCol:        reg.SeatCol,
		SeatLabel:      seat.Label,
		Date:           reg.Date,
		RegisteredAt:   reg.RegisteredAt.Format(time.RFC3339),
	})
	return reg, nil
}

// Cancel releases the seat held by an active registration.
func (s *RegistrationService) Cancel(ctx context.Context, id string, req dto.CancelRegistrationRequest) (*models.Registration, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid cancellation payload")
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, appErrors.Clone(appErrors.ErrRegistrationNotFound, "registration not found")
	}

	reg, err := s.store.Cancel(ctx, id, req.Reason, s.now())
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, appErrors.Clone(appErrors.ErrRegistrationNotFound, "registration not found")
		case errors.Is(err, repository.ErrAlreadyCancelled):
			return nil, appErrors.Clone(appErrors.ErrConflict, "registration is already cancelled")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to cancel registration")
	}

	s.logger.Info("registration cancelled", zap.String("registration_id", reg.ID), zap.Int64("session_id", reg.SessionID))

	evt := events.RegistrationCancelled{RegistrationID: reg.ID, SessionID: reg.SessionID, Date: reg.Date}
	if reg.CancellationReason != nil {
		evt.Reason = *reg.CancellationReason
	}
	if reg.CancelledAt != nil {
		evt.CancelledAt = reg.CancelledAt.Format(time.RFC3339)
	}
	s.publish(ctx, events.QueueRegistrationCancelled, evt)
	return reg, nil
}

// Get returns a registration by id.
func (s *RegistrationService) Get(ctx context.Context, id string) (*models.Registration, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, appErrors.Clone(appErrors.ErrRegistrationNotFound, "registration not found")
	}
	reg, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrRegistrationNotFound, "registration not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load registration")
	}
	return reg, nil
}

func (s *RegistrationService) reject(outcome string, err error) error {
	s.metrics.RecordAdmission(outcome)
	if outcome == OutcomeError {
		s.logger.Error("registration failed", zap.Error(err))
	} else {
		s.logger.Info("registration rejected",
			zap.String("outcome", outcome),
			zap.String("code", appErrors.FromError(err).Code),
			zap.Error(err),
		)
	}
	return err
}

// publish hands the event to the broker once the registration is committed. Failures are logged only.
func (s *RegistrationService) publish(ctx context.Context, queue string, event interface{}) {
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), eventPublishTimeout)
	defer cancel()

	err := s.publisher.Publish(pubCtx, queue, event)
	s.metrics.RecordEventPublish(queue, err)
	if err != nil {
		s.logger.Warn("registration event not published", zap.String("queue", queue), zap.Error(err))
	}
}
