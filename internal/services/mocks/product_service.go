package mocks

import (
	"context"

	"github.com/aaravmahajanofficial/pos-inventory/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type ProductService struct {
	mock.Mock
}

func NewProductService(t testingT) *ProductService {
	m := &ProductService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *ProductService) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	args := m.Called(ctx, req)
	if p, ok := args.Get(0).(*models.Product); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProductService) BatchCreateProducts(ctx context.Context, req *models.BatchCreateProductsRequest) (*models.BatchCreateProductsResponse, error) {
	args := m.Called(ctx, req)
	if r, ok := args.Get(0).(*models.BatchCreateProductsResponse); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProductService) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)
	if p, ok := args.Get(0).(*models.Product); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error) {
	args := m.Called(ctx, id, req)
	if p, ok := args.Get(0).(*models.Product); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProductService) ListProducts(ctx context.Context, page, pageSize int) ([]*models.Product, int, error) {
	args := m.Called(ctx, page, pageSize)
	if p, ok := args.Get(0).([]*models.Product); ok {
		return p, args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

func (m *ProductService) ListPriceHistory(ctx context.Context, id uuid.UUID) ([]*models.PriceHistoryRecord, error) {
	args := m.Called(ctx, id)
	if h, ok := args.Get(0).([]*models.PriceHistoryRecord); ok {
		return h, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProductService) ScanLookup(ctx context.Context, code string) (*models.ScanResult, error) {
	args := m.Called(ctx, code)
	if s, ok := args.Get(0).(*models.ScanResult); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}
