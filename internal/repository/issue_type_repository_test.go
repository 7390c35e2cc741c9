package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/study-seat-api/internal/models"
)

func TestIssueTypeRepositoryCreateAndList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewIssueTypeRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO issue_types (description) VALUES ($1) RETURNING id")).
		WithArgs("late").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, description FROM issue_types ORDER BY id")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "description"}).AddRow(int64(1), "late"))

	item := &models.IssueType{Description: "late"}
	require.NoError(t, repo.Create(context.Background(), item))
	assert.Equal(t, int64(1), item.ID)

	items, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "late", items[0].Description)
}

func TestIssueTypeRepositoryDeleteMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewIssueTypeRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM issue_types WHERE id = $1")).
		WithArgs(int64(3)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Delete(context.Background(), 3)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
