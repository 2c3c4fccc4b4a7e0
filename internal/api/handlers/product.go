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

type ProductHandler struct {
	productService service.ProductService
	validator      *validator.Validate
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService, validator: utils.NewValidator()}
}

// CreateProduct godoc
//
//	@Summary		Create a product
//	@Description	Adds a product to the catalogue and opens its price history. Requires an admin token.
//	@Tags			Products
//	@Accept			json
//	@Produce		json
//	@Param			product	body		models.CreateProductRequest	true	"Product details"
//	@Success		201		{object}	models.Product				"Product created"
//	@Failure		400		{object}	response.ErrorResponse		"Validation error"
//	@Failure		401		{object}	response.ErrorResponse		"Authentication required"
//	@Failure		403		{object}	response.ErrorResponse		"Admin role required"
//	@Failure		409		{object}	response.ErrorResponse		"Barcode or scale PLU already used"
//	@Failure		500		{object}	response.ErrorResponse		"Internal server error"
//	@Security		BearerAuth
//	@Router			/products [post]
func (h *ProductHandler) CreateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.CreateProductRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid create product input")
			return
		}

		product, err := h.productService.CreateProduct(r.Context(), &req)
		if err != nil {
			logger.Error("Error during product creation", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusCreated, product)
	}
}

// BatchCreateProducts godoc
//
//	@Summary		Import products
//	@Description	Creates each product independently and reports a per-item status. Requires an admin token.
//	@Tags			Products
//	@Accept			json
//	@Produce		json
//	@Param			products	body		models.BatchCreateProductsRequest	true	"Products to import"
//	@Success		200			{object}	models.BatchCreateProductsResponse	"Import results"
//	@Failure		400			{object}	response.ErrorResponse				"Validation error"
//	@Failure		401			{object}	response.ErrorResponse				"Authentication required"
//	@Failure		403			{object}	response.ErrorResponse				"Admin role required"
//	@Security		BearerAuth
//	@Router			/products/batch [post]
func (h *ProductHandler) BatchCreateProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.BatchCreateProductsRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid batch product input")
			return
		}

		resp, err := h.productService.BatchCreateProducts(r.Context(), &req)
		if err != nil {
			logger.Error("Batch product import failed", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Batch product import finished",
			slog.Int("created", resp.Created),
			slog.Int("skipped", resp.Skipped),
			slog.Int("failed", resp.Failed),
		)
		response.Success(w, http.StatusOK, resp)
	}
}

// GetProduct godoc
//
//	@Summary		Get a product
//	@Tags			Products
//	@Produce		json
//	@Param			id	path		string					true	"Product ID (UUID)"	Format(uuid)
//	@Success		200	{object}	models.Product			"Product"
//	@Failure		400	{object}	response.ErrorResponse	"Invalid product ID format"
//	@Failure		404	{object}	response.ErrorResponse	"Product not found"
//	@Security		BearerAuth
//	@Router			/products/{id} [get]
func (h *ProductHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid product id", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		product, err := h.productService.GetProductByID(r.Context(), id)
		if err != nil {
			logger.Warn("Failed to get product", slog.String("productId", id.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, product)
	}
}

// UpdateProduct godoc
//
//	@Summary		Update a product
//	@Description	Partial update. A price or cost change closes the active price history record and opens a new one. Requires an admin token.
//	@Tags			Products
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Product ID (UUID)"	Format(uuid)
//	@Param			product	body		models.UpdateProductRequest	true	"Fields to change"
//	@Success		200		{object}	models.Product				"Updated product"
//	@Failure		400		{object}	response.ErrorResponse		"Validation error"
//	@Failure		404		{object}	response.ErrorResponse		"Product not found"
//	@Failure		409		{object}	response.ErrorResponse		"Barcode or scale PLU already used"
//	@Security		BearerAuth
//	@Router			/products/{id} [put]
func (h *ProductHandler) UpdateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid product id", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		var req models.UpdateProductRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid update product input")
			return
		}

		product, err := h.productService.UpdateProduct(r.Context(), id, &req)
		if err != nil {
			logger.Error("Error during product update", slog.String("productId", id.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, product)
	}
}

// ListProducts godoc
//
//	@Summary		List products
//	@Tags			Products
//	@Produce		json
//	@Param			page		query		int												false	"Page number (default: 1)"					minimum(1)
//	@Param			pageSize	query		int												false	"Items per page (default: 10, max: 100)"	minimum(1)	maximum(100)
//	@Success		200			{object}	models.PaginatedResponse{Data=[]models.Product}	"Products"
//	@Security		BearerAuth
//	@Router			/products [get]
func (h *ProductHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		page, pageSize := utils.ParsePagination(r)

		products, total, err := h.productService.ListProducts(r.Context(), page, pageSize)
		if err != nil {
			logger.Error("Failed to fetch products", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, models.NewPage(products, total, page, pageSize))
	}
}

// ListPriceHistory godoc
//
//	@Summary		Price history of a product
//	@Description	Newest record first. The active record has no validTo.
//	@Tags			Products
//	@Produce		json
//	@Param			id	path		string						true	"Product ID (UUID)"	Format(uuid)
//	@Success		200	{array}		models.PriceHistoryRecord	"Price history"
//	@Failure		404	{object}	response.ErrorResponse		"Product not found"
//	@Security		BearerAuth
//	@Router			/products/{id}/price-history [get]
func (h *ProductHandler) ListPriceHistory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid product id", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		records, err := h.productService.ListPriceHistory(r.Context(), id)
		if err != nil {
			logger.Warn("Failed to fetch price history", slog.String("productId", id.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, records)
	}
}

// ScanProduct godoc
//
//	@Summary		Look up a scanned code
//	@Description	Weighted codes resolve by scale PLU and are priced by the embedded weight. Other codes resolve by barcode.
//	@Tags			Products
//	@Produce		json
//	@Param			code	path		string					true	"Scanned code"
//	@Success		200		{object}	models.ScanResult		"Matched product"
//	@Failure		404		{object}	response.ErrorResponse	"No product matches the code"
//	@Security		BearerAuth
//	@Router			/products/scan/{code} [get]
func (h *ProductHandler) ScanProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())
		code := r.PathValue("code")

		result, err := h.productService.ScanLookup(r.Context(), code)
		if err != nil {
			logger.Info("Scan lookup failed", slog.String("code", code), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, result)
	}
}
