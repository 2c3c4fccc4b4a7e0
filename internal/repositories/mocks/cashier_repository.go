package mocks

import (
	"context"

	"github.com/aaravmahajanofficial/pos-inventory/internal/models"
	repository "github.com/aaravmahajanofficial/pos-inventory/internal/repositories"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type CashierRepository struct {
	mock.Mock
}

func (m *CashierRepository) CreateCashier(ctx context.Context, cashier *models.Cashier) error {
	args := m.Called(ctx, cashier)
	return args.Error(0)
}

func (m *CashierRepository) GetCashierByUsername(ctx context.Context, username string) (*models.Cashier, error) {
	args := m.Called(ctx, username)
	if c, ok := args.Get(0).(*models.Cashier); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CashierRepository) GetCashierByID(ctx context.Context, id uuid.UUID) (*models.Cashier, error) {
	args := m.Called(ctx, id)
	if c, ok := args.Get(0).(*models.Cashier); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

type RateLimitRepository struct {
	mock.Mock
}

func (m *RateLimitRepository) CheckLoginRateLimit(ctx context.Context, username string) (repository.RateLimitResult, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(repository.RateLimitResult), args.Error(1)
}

func (m *RateLimitRepository) ResetLoginAttempts(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}
