package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/pos-inventory/internal/api/middleware"
	"github.com/aaravmahajanofficial/pos-inventory/internal/models"
	service "github.com/aaravmahajanofficial/pos-inventory/internal/services"
	"github.com/aaravmahajanofficial/pos-inventory/internal/utils"
	"github.com/aaravmahajanofficial/pos-inventory/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type CategoryHandler struct {
	categoryService service.CategoryService
	validator       *validator.Validate
}

func NewCategoryHandler(categoryService service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService, validator: utils.NewValidator()}
}

// CreateCategories godoc
//
//	@Summary		Create categories
//	@Description	Creates every new name and skips names that already exist. Requires an admin token.
//	@Tags			Categories
//	@Accept			json
//	@Produce		json
//	@Param			categories	body		models.CreateCategoriesRequest	true	"Categories to create"
//	@Success		201			{object}	models.CreateCategoriesResponse	"Created and skipped categories"
//	@Failure		400			{object}	response.ErrorResponse			"Validation error"
//	@Failure		403			{object}	response.ErrorResponse			"Admin role required"
//	@Failure		500			{object}	response.ErrorResponse			"Internal server error"
//	@Security		BearerAuth
//	@Router			/categories [post]
func (h *CategoryHandler) CreateCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.CreateCategoriesRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid create categories input")
			return
		}

		resp, err := h.categoryService.CreateCategories(r.Context(), &req)
		if err != nil {
			logger.Error("Failed to create categories", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusCreated, resp)
	}
}

// ListCategories godoc
//
//	@Summary		List categories
//	@Tags			Categories
//	@Produce		json
//	@Success		200	{array}		models.Category			"Categories ordered by name"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/categories [get]
func (h *CategoryHandler) ListCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		categories, err := h.categoryService.ListCategories(r.Context())
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Failed to list categories", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, categories)
	}
}

// GetCategory godoc
//
//	@Summary		Get a category
//	@Tags			Categories
//	@Produce		json
//	@Param			id	path		string					true	"Category ID (UUID)"	Format(uuid)
//	@Success		200	{object}	models.Category			"Category"
//	@Failure		400	{object}	response.ErrorResponse	"Invalid category ID format"
//	@Failure		404	{object}	response.ErrorResponse	"Category not found"
//	@Security		BearerAuth
//	@Router			/categories/{id} [get]
func (h *CategoryHandler) GetCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid category id", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		category, err := h.categoryService.GetCategoryByID(r.Context(), id)
		if err != nil {
			logger.Warn("Failed to get category", slog.String("categoryId", id.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, category)
	}
}
