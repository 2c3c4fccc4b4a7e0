package mocks

import (
	"context"

	"github.com/aaravmahajanofficial/pos-inventory/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type CashierService struct {
	mock.Mock
}

func NewCashierService(t testingT) *CashierService {
	m := &CashierService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *CashierService) Register(ctx context.Context, req *models.RegisterRequest) (*models.Cashier, error) {
	args := m.Called(ctx, req)
	if c, ok := args.Get(0).(*models.Cashier); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CashierService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	args := m.Called(ctx, req)
	if r, ok := args.Get(0).(*models.LoginResponse); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CashierService) GetCashierByID(ctx context.Context, id uuid.UUID) (*models.Cashier, error) {
	args := m.Called(ctx, id)
	if c, ok := args.Get(0).(*models.Cashier); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}
