package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/study-seat-api/internal/dto"
	"github.com/noah-isme/study-seat-api/internal/models"
	"github.com/noah-isme/study-seat-api/internal/repository"
	appErrors "github.com/noah-isme/study-seat-api/pkg/errors"
)

type studySessionRepository interface {
	List(ctx context.Context) ([]models.StudySessionDetail, error)
	FindByID(ctx context.Context, id int64) (*models.StudySession, error)
	ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error)
	Create(ctx context.Context, session *models.StudySession) error
	Update(ctx context.Context, id int64, patch dto.UpdateStudySessionRequest) (*models.StudySession, error)
	Delete(ctx context.Context, id int64) (*models.StudySession, error)
	CountRegistrations(ctx context.Context, sessionID int64) (int, error)
}

type roomProvider interface {
	Get(ctx context.Context, id int64) (*models.StudyRoom, error)
}

// StudySessionService manages study sessions.
type StudySessionService struct {
	repo      studySessionRepository
	rooms     roomProvider
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudySessionService constructs a StudySessionService.
func NewStudySessionService(repo studySessionRepository, rooms roomProvider, validate *validator.Validate, logger *zap.Logger) *StudySessionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &StudySessionService{repo: repo, rooms: rooms, validator: validate, logger: logger}
	svc.validator.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		_, _, err := ParseClock(fl.Field().String())
		return err == nil
	})
	return svc
}

// List returns all sessions with their room names.
func (s *StudySessionService) List(ctx context.Context) ([]models.StudySessionDetail, error) {
	sessions, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list study sessions")
	}
	if sessions == nil {
		sessions = []models.StudySessionDetail{}
	}
	return sessions, nil
}

// Get returns a session by id.
func (s *StudySessionService) Get(ctx context.Context, id int64) (*models.StudySession, error) {
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrSessionNotFound, "study session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load study session")
	}
	return session, nil
}

// Create adds a session bound to an existing room.
func (s *StudySessionService) Create(ctx context.Context, req dto.CreateStudySessionRequest) (*models.StudySession, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid study session payload")
	}
	if _, err := s.rooms.Get(ctx, req.RoomID); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueName(ctx, req.Name, 0); err != nil {
		return nil, err
	}

	session := &models.StudySession{
		Name:          req.Name,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		OneGrade:      req.OneGrade,
		TwoGrade:      req.TwoGrade,
		ThreeGrade:    req.ThreeGrade,
		MinutesBefore: req.MinutesBefore,
		MinutesAfter:  req.MinutesAfter,
		RoomID:        req.RoomID,
	}
	if err := s.repo.Create(ctx, session); err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "study session name already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create study session")
	}
	s.logger.Info("study session created", zap.Int64("session_id", session.ID), zap.Int64("room_id", session.RoomID))
	return session, nil
}

// Update applies a partial patch to a session.
func (s *StudySessionService) Update(ctx context.Context, id int64, req dto.UpdateStudySessionRequest) (*models.StudySession, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid study session payload")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if req.RoomID != nil {
		if _, err := s.rooms.Get(ctx, *req.RoomID); err != nil {
			return nil, err
		}
	}
	if req.Name != nil {
		if err := s.ensureUniqueName(ctx, *req.Name, id); err != nil {
			return nil, err
		}
	}

	session, err := s.repo.Update(ctx, id, req)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, appErrors.Clone(appErrors.ErrSessionNotFound, "study session not found")
		case errors.Is(err, repository.ErrDuplicateName):
			return nil, appErrors.Clone(appErrors.ErrConflict, "study session name already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update study session")
	}
	return session, nil
}

// Delete removes a session that has no registrations.
func (s *StudySessionService) Delete(ctx context.Context, id int64) (*models.StudySession, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	if count, err := s.repo.CountRegistrations(ctx, id); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check study session registrations")
	} else if count > 0 {
		return nil, appErrors.Clone(appErrors.ErrConflict, "study session has registrations")
	}

	session, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrSessionNotFound, "study session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete study session")
	}
	return session, nil
}

func (s *StudySessionService) ensureUniqueName(ctx context.Context, name string, excludeID int64) error {
	exists, err := s.repo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check study session name")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "study session name already exists")
	}
	return nil
}
