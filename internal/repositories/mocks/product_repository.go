package mocks

import (
	"context"

	"github.com/aaravmahajanofficial/pos-inventory/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type ProductRepository struct {
	mock.Mock
}

func NewProductRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *ProductRepository {
	m := &ProductRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *ProductRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *ProductRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)
	if p, ok := args.Get(0).(*models.Product); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProductRepository) GetProductsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Product, error) {
	args := m.Called(ctx, ids)
	if p, ok := args.Get(0).(map[uuid.UUID]*models.Product); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProductRepository) GetProductByScalePLU(ctx context.Context, plu string) (*models.Product, error) {
	args := m.Called(ctx, plu)
	if p, ok := args.Get(0).(*models.Product); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProductRepository) GetProductByBarcode(ctx context.Context, code string) (*models.Product, error) {
	args := m.Called(ctx, code)
	if p, ok := args.Get(0).(*models.Product); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProductRepository) UpdateProduct(ctx context.Context, product *models.Product, stock *int64) (bool, error) {
	args := m.Called(ctx, product, stock)
	return args.Bool(0), args.Error(1)
}

func (m *ProductRepository) ListProducts(ctx context.Context, page, size int) ([]*models.Product, int, error) {
	args := m.Called(ctx, page, size)
	if p, ok := args.Get(0).([]*models.Product); ok {
		return p, args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

func (m *ProductRepository) ListPriceHistory(ctx context.Context, productID uuid.UUID) ([]*models.PriceHistoryRecord, error) {
	args := m.Called(ctx, productID)
	if r, ok := args.Get(0).([]*models.PriceHistoryRecord); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
