package service

import (
	"context"
	stdErrors "errors"
	"log/slog"

	"github.com/aaravmahajanofficial/pos-inventory/internal/api/middleware"
	"github.com/aaravmahajanofficial/pos-inventory/internal/cache"
	"github.com/aaravmahajanofficial/pos-inventory/internal/errors"
	"github.com/aaravmahajanofficial/pos-inventory/internal/models"
	repository "github.com/aaravmahajanofficial/pos-inventory/internal/repositories"
	"github.com/aaravmahajanofficial/pos-inventory/internal/utils"
	"github.com/google/uuid"
)

type CategoryService interface {
	CreateCategories(ctx context.Context, req *models.CreateCategoriesRequest) (*models.CreateCategoriesResponse, error)
	GetCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	ListCategories(ctx context.Context) ([]*models.Category, error)
}

type categoryService struct {
	repo  repository.CategoryRepository
	cache cache.Cache
}

func NewCategoryService(repo repository.CategoryRepository, cache cache.Cache) CategoryService {
	return &categoryService{repo: repo, cache: cache}
}

// CreateCategories creates every new name in one transaction. Names that
// already exist, or repeat within the request, are reported as skipped.
func (s *categoryService) CreateCategories(ctx context.Context, req *models.CreateCategoriesRequest) (*models.CreateCategoriesResponse, error) {

	logger := middleware.LoggerFromContext(ctx)

	inputs := make([]models.CategoryInput, 0, len(req.Categories))
	seen := make(map[string]struct{}, len(req.Categories))
	skipped := []string{}

	for _, c := range req.Categories {
		name := utils.SanitizeText(c.Name)
		if name == "" {
			return nil, errors.AddValidationError("name", "must contain text")
		}

		if _, dup := seen[name]; dup {
			skipped = append(skipped, name)
			continue
		}
		seen[name] = struct{}{}

		inputs = append(inputs, models.CategoryInput{Name: name, Description: utils.SanitizeText(c.Description)})
	}

	created, existing, err := s.repo.CreateCategories(ctx, inputs)
	if err != nil {
		return nil, errors.DatabaseError("Failed to create categories").WithError(err)
	}

	if created == nil {
		created = []*models.Category{}
	}

	if len(created) > 0 {
		if err := s.cache.Delete(ctx, cache.CategoryListKey); err != nil {
			logger.Warn("Failed to invalidate category cache", slog.Any("error", err))
		}
	}

	logger.Info("Categories imported",
		slog.Int("created", len(created)),
		slog.Int("skipped", len(skipped)+len(existing)),
	)

	return &models.CreateCategoriesResponse{
		Created: created,
		Skipped: append(skipped, existing...),
	}, nil
}

func (s *categoryService) GetCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {

	category, err := s.repo.GetCategoryByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, errors.ErrNotFound) {
			return nil, errors.NotFoundError("Category not found").WithError(err)
		}
		return nil, errors.DatabaseError("Failed to fetch category").WithError(err)
	}

	return category, nil
}

func (s *categoryService) ListCategories(ctx context.Context) ([]*models.Category, error) {

	logger := middleware.LoggerFromContext(ctx)

	var cached []*models.Category

	found, err := s.cache.Get(ctx, cache.CategoryListKey, &cached)
	if err != nil {
		logger.Warn("Category cache read failed", slog.Any("error", err))
	}
	if found {
		return cached, nil
	}

	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch categories").WithError(err)
	}

	if err := s.cache.Set(ctx, cache.CategoryListKey, categories, 0); err != nil {
		logger.Warn("Category cache write failed", slog.Any("error", err))
	}

	return categories, nil
}
