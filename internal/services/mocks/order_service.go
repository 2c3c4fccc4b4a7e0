package mocks

import (
	"context"

	"github.com/aaravmahajanofficial/pos-inventory/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type OrderService struct {
	mock.Mock
}

func NewOrderService(t testingT) *OrderService {
	m := &OrderService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *OrderService) CreateOrder(ctx context.Context, cashierID uuid.UUID, req *models.CreateOrderRequest) (*models.Order, error) {
	args := m.Called(ctx, cashierID, req)
	if o, ok := args.Get(0).(*models.Order); ok {
		return o, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *OrderService) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)
	if o, ok := args.Get(0).(*models.Order); ok {
		return o, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *OrderService) ListOrders(ctx context.Context, cashierID uuid.NullUUID, page, size int) ([]*models.Order, int, error) {
	args := m.Called(ctx, cashierID, page, size)
	if o, ok := args.Get(0).([]*models.Order); ok {
		return o, args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}
