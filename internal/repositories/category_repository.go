package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	appErrors "github.com/aaravmahajanofficial/pos-inventory/internal/errors"
	"github.com/aaravmahajanofficial/pos-inventory/internal/models"
	"github.com/aaravmahajanofficial/pos-inventory/internal/utils"
	"github.com/google/uuid"
)

type CategoryRepository interface {
	CreateCategories(ctx context.Context, inputs []models.CategoryInput) ([]*models.Category, []string, error)
	GetCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	ListCategories(ctx context.Context) ([]*models.Category, error)
}

type categoryRepository struct {
	DB *sql.DB
}

func NewCategoryRepo(db *sql.DB) CategoryRepository {
	return &categoryRepository{DB: db}
}

// CreateCategories inserts every input in one transaction. Names that already
// exist are skipped and returned in the second result.
func (r *categoryRepository) CreateCategories(ctx context.Context, inputs []models.CategoryInput) ([]*models.Category, []string, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO categories (name, description)
		VALUES ($1, $2)
		ON CONFLICT (name) DO NOTHING
		RETURNING id, name, description, created_at, updated_at`

	created := make([]*models.Category, 0, len(inputs))
	skipped := []string{}

	for _, in := range inputs {
		category := &models.Category{}

		err := tx.QueryRowContext(dbCtx, query, in.Name, in.Description).
			Scan(&category.ID, &category.Name, &category.Description, &category.CreatedAt, &category.UpdatedAt)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				skipped = append(skipped, in.Name)
				continue
			}
			return nil, nil, fmt.Errorf("insert category %q: %w", in.Name, err)
		}

		created = append(created, category)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit categories: %w", err)
	}

	return created, skipped, nil
}

func (r *categoryRepository) GetCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT id, name, description, created_at, updated_at FROM categories WHERE id = $1`

	category := &models.Category{}

	err := r.DB.QueryRowContext(dbCtx, query, id).
		Scan(&category.ID, &category.Name, &category.Description, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("category %s: %w", id, appErrors.ErrNotFound)
		}
		return nil, fmt.Errorf("querying database: %w", err)
	}

	return category, nil
}

func (r *categoryRepository) ListCategories(ctx context.Context) ([]*models.Category, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT id, name, description, created_at, updated_at FROM categories ORDER BY name`

	rows, err := r.DB.QueryContext(dbCtx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []*models.Category{}

	for rows.Next() {
		category := &models.Category{}
		if err := rows.Scan(&category.ID, &category.Name, &category.Description, &category.CreatedAt, &category.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return categories, nil
}
