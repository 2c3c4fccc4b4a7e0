package mocks

import (
	"context"
	"time"

	"github.com/aaravmahajanofficial/pos-inventory/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type OrderRepository struct {
	mock.Mock
}

func NewOrderRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *OrderRepository {
	m := &OrderRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *OrderRepository) CreateOrder(ctx context.Context, order *models.Order, adjustments []models.StockAdjustment) error {
	args := m.Called(ctx, order, adjustments)
	return args.Error(0)
}

func (m *OrderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)
	if o, ok := args.Get(0).(*models.Order); ok {
		return o, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *OrderRepository) ListOrders(ctx context.Context, cashierID uuid.NullUUID, page, size int) ([]*models.Order, int, error) {
	args := m.Called(ctx, cashierID, page, size)
	if o, ok := args.Get(0).([]*models.Order); ok {
		return o, args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

func (m *OrderRepository) ListSalesLines(ctx context.Context, from, to time.Time) ([]models.SalesLine, error) {
	args := m.Called(ctx, from, to)
	if l, ok := args.Get(0).([]models.SalesLine); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}
