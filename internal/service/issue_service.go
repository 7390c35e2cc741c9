package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/study-seat-api/internal/dto"
	"github.com/noah-isme/study-seat-api/internal/models"
	appErrors "github.com/noah-isme/study-seat-api/pkg/errors"
)

type issueTypeRepository interface {
	List(ctx context.Context) ([]models.IssueType, error)
	FindByID(ctx context.Context, id int64) (*models.IssueType, error)
	Create(ctx context.Context, item *models.IssueType) error
	Update(ctx context.Context, id int64, description string) (*models.IssueType, error)
	Delete(ctx context.Context, id int64) (*models.IssueType, error)
}

type registrationAnnotator interface {
	FindByID(ctx context.Context, id string) (*models.Registration, error)
	SetIssueType(ctx context.Context, id, issue string) (*models.Registration, error)
	SetNote(ctx context.Context, id, note string) (*models.Registration, error)
}

// IssueService manages the issue catalog and the issue and memo recorded on registrations.
type IssueService struct {
	types         issueTypeRepository
	registrations registrationAnnotator
	validator     *validator.Validate
	logger        *zap.Logger
}

// NewIssueService constructs an IssueService.
func NewIssueService(types issueTypeRepository, registrations registrationAnnotator, validate *validator.Validate, logger *zap.Logger) *IssueService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IssueService{types: types, registrations: registrations, validator: validate, logger: logger}
}

// ListTypes returns the catalog.
func (s *IssueService) ListTypes(ctx context.Context) ([]models.IssueType, error) {
	items, err := s.types.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list issue types")
	}
	if items == nil {
		items = []models.IssueType{}
	}
	return items, nil
}

// GetType returns one catalog entry.
func (s *IssueService) GetType(ctx context.Context, id int64) (*models.IssueType, error) {
	item, err := s.types.FindByID(ctx, id)
	if err != nil {
		return nil, issueTypeError(err, "failed to load issue type")
	}
	return item, nil
}

// CreateType adds a catalog entry.
func (s *IssueService) CreateType(ctx context.Context, req dto.CreateIssueTypeRequest) (*models.IssueType, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid issue type payload")
	}
	item := &models.IssueType{Description: req.Description}
	if err := s.types.Create(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create issue type")
	}
	return item, nil
}

// UpdateType replaces a catalog entry's description.
func (s *IssueService) UpdateType(ctx context.Context, id int64, req dto.UpdateIssueTypeRequest) (*models.IssueType, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid issue type payload")
	}
	item, err := s.types.Update(ctx, id, req.Description)
	if err != nil {
		return nil, issueTypeError(err, "failed to update issue type")
	}
	return item, nil
}

// DeleteType removes a catalog entry. Registrations keep their recorded text.
func (s *IssueService) DeleteType(ctx context.Context, id int64) (*models.IssueType, error) {
	item, err := s.types.Delete(ctx, id)
	if err != nil {
		return nil, issueTypeError(err, "failed to delete issue type")
	}
	return item, nil
}

// Assign records an issue description on a registration.
func (s *IssueService) Assign(ctx context.Context, registrationID string, req dto.AssignIssueRequest) (*dto.RegistrationIssueResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid issue payload")
	}
	if err := validRegistrationID(registrationID); err != nil {
		return nil, err
	}
	reg, err := s.registrations.SetIssueType(ctx, registrationID, req.IssueDescription)
	if err != nil {
		return nil, registrationError(err, "failed to assign issue")
	}
	s.logger.Info("issue assigned", zap.String("registration_id", reg.ID))
	return issueResponse(reg), nil
}

// Memo records a free-text note on a registration.
func (s *IssueService) Memo(ctx context.Context, registrationID string, req dto.MemoRequest) (*dto.RegistrationIssueResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid memo payload")
	}
	if err := validRegistrationID(registrationID); err != nil {
		return nil, err
	}
	reg, err := s.registrations.SetNote(ctx, registrationID, req.Memo)
	if err != nil {
		return nil, registrationError(err, "failed to save memo")
	}
	return issueResponse(reg), nil
}

// ForRegistration returns the issue and note attached to a registration.
func (s *IssueService) ForRegistration(ctx context.Context, registrationID string) (*dto.RegistrationIssueResponse, error) {
	if err := validRegistrationID(registrationID); err != nil {
		return nil, err
	}
	reg, err := s.registrations.FindByID(ctx, registrationID)
	if err != nil {
		return nil, registrationError(err, "failed to load registration")
	}
	return issueResponse(reg), nil
}

func issueResponse(reg *models.Registration) *dto.RegistrationIssueResponse {
	return &dto.RegistrationIssueResponse{
		RegistrationID: reg.ID,
		StudentID:      reg.StudentID,
		Name:           reg.Name,
		IssueType:      reg.IssueType,
		Note:           reg.Note,
	}
}

func validRegistrationID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return appErrors.Clone(appErrors.ErrRegistrationNotFound, "registration not found")
	}
	return nil
}

func issueTypeError(err error, message string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrIssueTypeNotFound, "issue type not found")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

func registrationError(err error, message string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrRegistrationNotFound, "registration not found")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}
