package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/study-seat-api/internal/models"
)

// IssueTypeRepository manages the issue type catalog.
type IssueTypeRepository struct {
	db *sqlx.DB
}

// NewIssueTypeRepository constructs a new issue type repository.
func NewIssueTypeRepository(db *sqlx.DB) *IssueTypeRepository {
	return &IssueTypeRepository{db: db}
}

// List returns the catalog ordered by id.
func (r *IssueTypeRepository) List(ctx context.Context) ([]models.IssueType, error) {
	var items []models.IssueType
	if err := r.db.SelectContext(ctx, &items, `SELECT id, description FROM issue_types ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list issue types: %w", err)
	}
	return items, nil
}

// FindByID returns an issue type or sql.ErrNoRows.
func (r *IssueTypeRepository) FindByID(ctx context.Context, id int64) (*models.IssueType, error) {
	var item models.IssueType
	if err := r.db.GetContext(ctx, &item, `SELECT id, description FROM issue_types WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create inserts an issue type.
func (r *IssueTypeRepository) Create(ctx context.Context, item *models.IssueType) error {
	if err := r.db.QueryRowxContext(ctx, `INSERT INTO issue_types (description) VALUES ($1) RETURNING id`, item.Description).Scan(&item.ID); err != nil {
		return fmt.Errorf("create issue type: %w", err)
	}
	return nil
}

// Update replaces the description and returns the stored record.
func (r *IssueTypeRepository) Update(ctx context.Context, id int64, description string) (*models.IssueType, error) {
	var item models.IssueType
	err := r.db.QueryRowxContext(ctx, `UPDATE issue_types SET description = $1 WHERE id = $2 RETURNING id, description`, description, id).StructScan(&item)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("update issue type: %w", err)
	}
	return &item, nil
}

// Delete removes an issue type and returns it.
func (r *IssueTypeRepository) Delete(ctx context.Context, id int64) (*models.IssueType, error) {
	var item models.IssueType
	err := r.db.QueryRowxContext(ctx, `DELETE FROM issue_types WHERE id = $1 RETURNING id, description`, id).StructScan(&item)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("delete issue type: %w", err)
	}
	return &item, nil
}
