package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/study-seat-api/internal/dto"
	"github.com/noah-isme/study-seat-api/internal/models"
	appErrors "github.com/noah-isme/study-seat-api/pkg/errors"
)

const knownRegistration = "8f0c1c1e-4f57-4d1a-9d0f-5d2b8a4d9a10"

type issueTypeRepoStub struct {
	items map[int64]*models.IssueType
}

func (r *issueTypeRepoStub) List(ctx context.Context) ([]models.IssueType, error) { return nil, nil }

func (r *issueTypeRepoStub) FindByID(ctx context.Context, id int64) (*models.IssueType, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return item, nil
}

func (r *issueTypeRepoStub) Create(ctx context.Context, item *models.IssueType) error {
	item.ID = int64(len(r.items) + 1)
	r.items[item.ID] = item
	return nil
}

func (r *issueTypeRepoStub) Update(ctx context.Context, id int64, description string) (*models.IssueType, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	item.Description = description
	return item, nil
}

func (r *issueTypeRepoStub) Delete(ctx context.Context, id int64) (*models.IssueType, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	delete(r.items, id)
	return item, nil
}

type annotatorStub struct {
	reg *models.Registration
}

func (a *annotatorStub) FindByID(ctx context.Context, id string) (*models.Registration, error) {
	if a.reg == nil || a.reg.ID != id {
		return nil, sql.ErrNoRows
	}
	return a.reg, nil
}

func (a *annotatorStub) SetIssueType(ctx context.Context, id, issue string) (*models.Registration, error) {
	reg, err := a.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	reg.IssueType = &issue
	return reg, nil
}

func (a *annotatorStub) SetNote(ctx context.Context, id, note string) (*models.Registration, error) {
	reg, err := a.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	reg.Note = &note
	return reg, nil
}

func newIssueFixture() *IssueService {
	types := &issueTypeRepoStub{items: map[int64]*models.IssueType{}}
	regs := &annotatorStub{reg: &models.Registration{ID: knownRegistration, StudentID: "2-3-14", Name: "Kim"}}
	return NewIssueService(types, regs, nil, nil)
}

func TestIssueServiceAssignMemoAndRead(t *testing.T) {
	svc := newIssueFixture()
	ctx := context.Background()

	resp, err := svc.Assign(ctx, knownRegistration, dto.AssignIssueRequest{IssueDescription: "late"})
	require.NoError(t, err)
	require.NotNil(t, resp.IssueType)
	assert.Equal(t, "late", *resp.IssueType)
	assert.Nil(t, resp.Note)

	_, err = svc.Memo(ctx, knownRegistration, dto.MemoRequest{Memo: "arrived 09:20"})
	require.NoError(t, err)

	read, err := svc.ForRegistration(ctx, knownRegistration)
	require.NoError(t, err)
	assert.Equal(t, "late", *read.IssueType)
	assert.Equal(t, "arrived 09:20", *read.Note)
	assert.Equal(t, "2-3-14", read.StudentID)
}

func TestIssueServiceUnknownRegistration(t *testing.T) {
	svc := newIssueFixture()
	ctx := context.Background()

	_, err := svc.Assign(ctx, "nope", dto.AssignIssueRequest{IssueDescription: "late"})
	assert.True(t, errors.Is(err, appErrors.ErrRegistrationNotFound))

	_, err = svc.ForRegistration(ctx, "1b4e28ba-2fa1-11d2-883f-0016d3cca427")
	assert.True(t, errors.Is(err, appErrors.ErrRegistrationNotFound))

	_, err = svc.Memo(ctx, knownRegistration, dto.MemoRequest{})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestIssueServiceTypeCatalog(t *testing.T) {
	svc := newIssueFixture()
	ctx := context.Background()

	item, err := svc.CreateType(ctx, dto.CreateIssueTypeRequest{Description: "absent"})
	require.NoError(t, err)

	updated, err := svc.UpdateType(ctx, item.ID, dto.UpdateIssueTypeRequest{Description: "absent without notice"})
	require.NoError(t, err)
	assert.Equal(t, "absent without notice", updated.Description)

	_, err = svc.DeleteType(ctx, item.ID)
	require.NoError(t, err)

	_, err = svc.GetType(ctx, item.ID)
	assert.True(t, errors.Is(err, appErrors.ErrIssueTypeNotFound))

	list, err := svc.ListTypes(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
}
