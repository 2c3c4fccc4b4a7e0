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

type CashierRepository interface {
	CreateCashier(ctx context.Context, cashier *models.Cashier) error
	GetCashierByUsername(ctx context.Context, username string) (*models.Cashier, error)
	GetCashierByID(ctx context.Context, id uuid.UUID) (*models.Cashier, error)
}

type cashierRepository struct {
	DB *sql.DB
}

func NewCashierRepo(db *sql.DB) CashierRepository {
	return &cashierRepository{DB: db}
}

func (r *cashierRepository) CreateCashier(ctx context.Context, cashier *models.Cashier) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO cashiers(name, username, password, role, created_at, updated_at)
		VALUES($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	err := r.DB.QueryRowContext(dbCtx, query, cashier.Name, cashier.Username, cashier.Password, cashier.Role).
		Scan(&cashier.ID, &cashier.CreatedAt, &cashier.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert cashier: %w", mapPQError(err))
	}

	return nil
}

// GetCashierByUsername includes the password hash for credential checks.
func (r *cashierRepository) GetCashierByUsername(ctx context.Context, username string) (*models.Cashier, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	cashier := &models.Cashier{}
	query := `SELECT id, name, username, password, role, created_at, updated_at
			  FROM cashiers
			  WHERE username = $1`

	err := r.DB.QueryRowContext(dbCtx, query, username).
		Scan(&cashier.ID, &cashier.Name, &cashier.Username, &cashier.Password, &cashier.Role, &cashier.CreatedAt, &cashier.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("cashier %q: %w", username, appErrors.ErrNotFound)
		}
		return nil, fmt.Errorf("querying database: %w", err)
	}

	return cashier, nil
}

func (r *cashierRepository) GetCashierByID(ctx context.Context, id uuid.UUID) (*models.Cashier, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	cashier := &models.Cashier{}

	query := `
	SELECT id, name, username, role, created_at, updated_at
	FROM cashiers
	WHERE id = $1
	`

	err := r.DB.QueryRowContext(dbCtx, query, id).
		Scan(&cashier.ID, &cashier.Name, &cashier.Username, &cashier.Role, &cashier.CreatedAt, &cashier.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("cashier %s: %w", id, appErrors.ErrNotFound)
		}
		return nil, fmt.Errorf("querying database: %w", err)
	}

	return cashier, nil
}
