package mocks

import (
	"context"

	"github.com/aaravmahajanofficial/pos-inventory/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type CategoryRepository struct {
	mock.Mock
}

func (m *CategoryRepository) CreateCategories(ctx context.Context, inputs []models.CategoryInput) ([]*models.Category, []string, error) {
	args := m.Called(ctx, inputs)
	created, _ := args.Get(0).([]*models.Category)
	skipped, _ := args.Get(1).([]string)
	return created, skipped, args.Error(2)
}

func (m *CategoryRepository) GetCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	args := m.Called(ctx, id)
	if c, ok := args.Get(0).(*models.Category); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CategoryRepository) ListCategories(ctx context.Context) ([]*models.Category, error) {
	args := m.Called(ctx)
	if c, ok := args.Get(0).([]*models.Category); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}
