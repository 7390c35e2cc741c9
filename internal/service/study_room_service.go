package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/study-seat-api/internal/dto"
	"github.com/noah-isme/study-seat-api/internal/models"
	"github.com/noah-isme/study-seat-api/internal/repository"
	appErrors "github.com/noah-isme/study-seat-api/pkg/errors"
)

type studyRoomRepository interface {
	List(ctx context.Context) ([]models.StudyRoom, error)
	FindByID(ctx context.Context, id int64) (*models.StudyRoom, error)
	ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error)
	Create(ctx context.Context, room *models.StudyRoom) error
	Update(ctx context.Context, id int64, patch dto.UpdateStudyRoomRequest) (*models.StudyRoom, error)
	Delete(ctx context.Context, id int64) (*models.StudyRoom, error)
	CountSessions(ctx context.Context, roomID int64) (int, error)
}

type roomCache interface {
	Get(ctx context.Context, key string, dest interface{}) bool
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration)
	Evict(ctx context.Context, keys ...string)
}

// StudyRoomService manages rooms and serves layouts through the cache.
type StudyRoomService struct {
	repo      studyRoomRepository
	cache     roomCache
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudyRoomService constructs a StudyRoomService. cache may be nil.
func NewStudyRoomService(repo studyRoomRepository, cache roomCache, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *StudyRoomService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudyRoomService{repo: repo, cache: cache, cacheTTL: cacheTTL, validator: validate, logger: logger}
}

func roomCacheKey(id int64) string {
	return fmt.Sprintf("room:%d", id)
}

// List returns every room.
func (s *StudyRoomService) List(ctx context.Context) ([]models.StudyRoom, error) {
	rooms, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list study rooms")
	}
	if rooms == nil {
		rooms = []models.StudyRoom{}
	}
	return rooms, nil
}

// Get returns a room, consulting the layout cache first.
func (s *StudyRoomService) Get(ctx context.Context, id int64) (*models.StudyRoom, error) {
	key := roomCacheKey(id)
	if s.cache != nil {
		var cached models.StudyRoom
		if s.cache.Get(ctx, key, &cached) {
			return &cached, nil
		}
	}

	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrRoomNotFound, "study room not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load study room")
	}

	if s.cache != nil {
		s.cache.Set(ctx, key, room, s.cacheTTL)
	}
	return room, nil
}

// Create adds a new room.
func (s *StudyRoomService) Create(ctx context.Context, req dto.CreateStudyRoomRequest) (*models.StudyRoom, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid study room payload")
	}

	exists, err := s.repo.ExistsByName(ctx, req.Name, 0)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check study room name")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "study room name already exists")
	}

	room := &models.StudyRoom{Name: req.Name, Layout: req.Layout}
	if err := s.repo.Create(ctx, room); err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "study room name already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create study room")
	}
	s.logger.Info("study room created", zap.Int64("room_id", room.ID), zap.Int("seats", room.Layout.SeatCount()))
	return room, nil
}

// Update patches a room and evicts its cached layout.
func (s *StudyRoomService) Update(ctx context.Context, id int64, req dto.UpdateStudyRoomRequest) (*models.StudyRoom, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid study room payload")
	}

	if req.Name != nil {
		exists, err := s.repo.ExistsByName(ctx, *req.Name, id)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check study room name")
		}
		if exists {
			return nil, appErrors.Clone(appErrors.ErrConflict, "study room name already exists")
		}
	}

	room, err := s.repo.Update(ctx, id, req)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, appErrors.Clone(appErrors.ErrRoomNotFound, "study room not found")
		case errors.Is(err, repository.ErrDuplicateName):
			return nil, appErrors.Clone(appErrors.ErrConflict, "study room name already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update study room")
	}
	s.evict(ctx, id)
	return room, nil
}

// Delete removes a room that no session references.
func (s *StudyRoomService) Delete(ctx context.Context, id int64) (*models.StudyRoom, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrRoomNotFound, "study room not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load study room")
	}

	if count, err := s.repo.CountSessions(ctx, id); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check study room sessions")
	} else if count > 0 {
		return nil, appErrors.Clone(appErrors.ErrConflict, "study room is used by study sessions")
	}

	room, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrRoomNotFound, "study room not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete study room")
	}
	s.evict(ctx, id)
	return room, nil
}

func (s *StudyRoomService) evict(ctx context.Context, id int64) {
	if s.cache != nil {
		s.cache.Evict(ctx, roomCacheKey(id))
	}
}
