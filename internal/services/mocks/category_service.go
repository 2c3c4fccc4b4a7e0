package mocks

import (
	"context"

	"github.com/aaravmahajanofficial/pos-inventory/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type CategoryService struct {
	mock.Mock
}

func NewCategoryService(t testingT) *CategoryService {
	m := &CategoryService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *CategoryService) CreateCategories(ctx context.Context, req *models.CreateCategoriesRequest) (*models.CreateCategoriesResponse, error) {
	args := m.Called(ctx, req)
	if r, ok := args.Get(0).(*models.CreateCategoriesResponse); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CategoryService) GetCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	args := m.Called(ctx, id)
	if c, ok := args.Get(0).(*models.Category); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CategoryService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	args := m.Called(ctx)
	if c, ok := args.Get(0).([]*models.Category); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}
