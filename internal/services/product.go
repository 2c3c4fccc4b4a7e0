package service

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aaravmahajanofficial/pos-inventory/internal/api/middleware"
	"github.com/aaravmahajanofficial/pos-inventory/internal/barcode"
	"github.com/aaravmahajanofficial/pos-inventory/internal/cache"
	"github.com/aaravmahajanofficial/pos-inventory/internal/errors"
	"github.com/aaravmahajanofficial/pos-inventory/internal/metrics"
	"github.com/aaravmahajanofficial/pos-inventory/internal/models"
	repository "github.com/aaravmahajanofficial/pos-inventory/internal/repositories"
	"github.com/aaravmahajanofficial/pos-inventory/internal/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// stored prices have two decimal places
const priceScale = 2

type ProductService interface {
	CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error)
	BatchCreateProducts(ctx context.Context, req *models.BatchCreateProductsRequest) (*models.BatchCreateProductsResponse, error)
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error)
	ListProducts(ctx context.Context, page, pageSize int) ([]*models.Product, int, error)
	ListPriceHistory(ctx context.Context, id uuid.UUID) ([]*models.PriceHistoryRecord, error)
	ScanLookup(ctx context.Context, code string) (*models.ScanResult, error)
}

type productService struct {
	repo           repository.ProductRepository
	cache          cache.Cache
	strictChecksum bool
}

func NewProductService(repo repository.ProductRepository, cache cache.Cache, strictChecksum bool) ProductService {
	return &productService{repo: repo, cache: cache, strictChecksum: strictChecksum}
}

func (s *productService) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {

	product, err := newProduct(req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, productWriteError(err, "Failed to create product")
	}

	middleware.LoggerFromContext(ctx).Info("Product created",
		slog.String("productId", product.ID.String()),
		slog.String("name", product.Name),
	)

	return product, nil
}

// BatchCreateProducts imports each product independently. Duplicates are
// reported as skipped and other failures as failed; neither stops the batch.
func (s *productService) BatchCreateProducts(ctx context.Context, req *models.BatchCreateProductsRequest) (*models.BatchCreateProductsResponse, error) {

	resp := &models.BatchCreateProductsResponse{
		Results: make([]models.BatchProductResult, 0, len(req.Products)),
	}

	for i := range req.Products {
		item := &req.Products[i]
		result := models.BatchProductResult{Index: i, Name: item.Name}

		product, err := s.CreateProduct(ctx, item)

		switch {
		case err == nil:
			result.Status = models.BatchItemCreated
			result.ProductID = &product.ID
			resp.Created++
		case stdErrors.Is(err, errors.ErrDuplicateEntry):
			result.Status = models.BatchItemSkipped
			result.Reason = err.Error()
			resp.Skipped++
		default:
			result.Status = models.BatchItemFailed
			result.Reason = err.Error()
			resp.Failed++
		}

		resp.Results = append(resp.Results, result)
	}

	return resp, nil
}

func (s *productService) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, errors.ErrNotFound) {
			return nil, errors.NotFoundError("Product not found").WithError(err)
		}
		return nil, errors.DatabaseError("Failed to fetch product").WithError(err)
	}

	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error) {

	logger := middleware.LoggerFromContext(ctx)

	product, err := s.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// old codes must be evicted as well as new ones
	staleKeys := cache.ProductKeys(product)

	if err := applyUpdate(product, req); err != nil {
		return nil, err
	}

	changed, err := s.repo.UpdateProduct(ctx, product, req.Stock)
	if err != nil {
		return nil, productWriteError(err, "Failed to update product")
	}

	if err := s.cache.Delete(ctx, append(staleKeys, cache.ProductKeys(product)...)...); err != nil {
		logger.Warn("Failed to invalidate product cache", slog.String("productId", id.String()), slog.Any("error", err))
	}

	if changed {
		metrics.RecordPriceChange()
		logger.Info("Price change recorded",
			slog.String("productId", id.String()),
			slog.String("price", product.Price.String()),
			slog.String("costPrice", product.CostPrice.String()),
		)
	}

	return product, nil
}

// page means "page number requested"
// pageSize means "number of products to be displayed per page"
func (s *productService) ListProducts(ctx context.Context, page, pageSize int) ([]*models.Product, int, error) {

	products, total, err := s.repo.ListProducts(ctx, page, pageSize)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to fetch products").WithError(err)
	}

	return products, total, nil
}

func (s *productService) ListPriceHistory(ctx context.Context, id uuid.UUID) ([]*models.PriceHistoryRecord, error) {

	if _, err := s.GetProductByID(ctx, id); err != nil {
		return nil, err
	}

	records, err := s.repo.ListPriceHistory(ctx, id)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch price history").WithError(err)
	}

	return records, nil
}

// ScanLookup resolves a scanned code to a product. Weighted codes are looked
// up by scale PLU and priced by the embedded weight; any other code is
// treated as a product barcode. Unknown or malformed codes are not found.
func (s *productService) ScanLookup(ctx context.Context, code string) (*models.ScanResult, error) {

	logger := middleware.LoggerFromContext(ctx)
	code = strings.TrimSpace(code)

	if code == "" {
		metrics.RecordBarcodeScan(metrics.ScanMiss)
		return nil, errors.NotFoundError("No product matches the scanned code")
	}

	parsed := barcode.Decode(code)

	if parsed.IsWeighted && s.strictChecksum && len(code) == barcode.CodeLength && !barcode.VerifyChecksum(code) {
		metrics.RecordBarcodeScan(metrics.ScanMiss)
		return nil, errors.NotFoundError("No product matches the scanned code").WithDetail("check digit mismatch")
	}

	var (
		product *models.Product
		err     error
	)

	if parsed.IsWeighted {
		product, err = s.cachedLookup(ctx, cache.Key(cache.ProductPLUKeyPrefix, parsed.ScalePLU), func() (*models.Product, error) {
			return s.repo.GetProductByScalePLU(ctx, parsed.ScalePLU)
		})
	} else {
		product, err = s.cachedLookup(ctx, cache.Key(cache.ProductBarcodeKeyPrefix, code), func() (*models.Product, error) {
			return s.repo.GetProductByBarcode(ctx, code)
		})
	}

	if err != nil {
		if stdErrors.Is(err, errors.ErrNotFound) {
			metrics.RecordBarcodeScan(metrics.ScanMiss)
			logger.Debug("Scan did not match a product", slog.String("code", code))
			return nil, errors.NotFoundError("No product matches the scanned code").WithError(err)
		}
		return nil, errors.DatabaseError("Failed to look up scanned code").WithError(err)
	}

	result := &models.ScanResult{
		Product:  product,
		Quantity: decimal.NewFromInt(1),
		Weighted: parsed.IsWeighted,
		Code:     code,
	}

	if parsed.IsWeighted {
		result.Quantity = *parsed.WeightKg
		metrics.RecordBarcodeScan(metrics.ScanWeighted)
	} else {
		metrics.RecordBarcodeScan(metrics.ScanStandard)
	}

	result.LineTotal = product.Price.Mul(result.Quantity)

	return result, nil
}

// cachedLookup is a read-through cache. Cache failures only cost a database hit.
func (s *productService) cachedLookup(ctx context.Context, key string, load func() (*models.Product, error)) (*models.Product, error) {

	logger := middleware.LoggerFromContext(ctx)

	var cached models.Product

	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		logger.Warn("Product cache read failed", slog.String("key", key), slog.Any("error", err))
	}
	if found {
		return &cached, nil
	}

	product, err := load()
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, product, 0); err != nil {
		logger.Warn("Product cache write failed", slog.String("key", key), slog.Any("error", err))
	}

	return product, nil
}

func newProduct(req *models.CreateProductRequest) (*models.Product, error) {

	product := &models.Product{
		Name:        utils.SanitizeText(req.Name),
		Description: utils.SanitizeText(req.Description),
		Barcode:     normalizeBarcode(req.Barcode),
		IsWeighed:   req.IsWeighed,
		Unit:        req.Unit,
		Price:       req.Price.Round(priceScale),
		CostPrice:   req.CostPrice.Round(priceScale),
		Stock:       req.Stock,
		Status:      models.ProductStatusActive,
	}

	if req.CategoryID != nil {
		product.CategoryID = uuid.NullUUID{UUID: *req.CategoryID, Valid: true}
	}

	if product.Name == "" {
		return nil, errors.AddValidationError("name", "must contain text")
	}

	if !product.Price.IsPositive() {
		return nil, errors.AddValidationError("price", "must be at least 0.01")
	}

	if err := checkBarcode(product.Barcode); err != nil {
		return nil, err
	}

	plu, err := normalizePLU(req.ScalePLU)
	if err != nil {
		return nil, err
	}
	product.ScalePLU = plu

	if product.ScalePLU != nil && !product.IsWeighed {
		return nil, errors.AddValidationError("scalePlu", "only weighed products carry a scale PLU")
	}

	return product, nil
}

func applyUpdate(product *models.Product, req *models.UpdateProductRequest) error {

	if req.CategoryID != nil {
		product.CategoryID = uuid.NullUUID{UUID: *req.CategoryID, Valid: true}
		product.Category = nil
	}
	if req.Name != nil {
		product.Name = utils.SanitizeText(*req.Name)
		if product.Name == "" {
			return errors.AddValidationError("name", "must contain text")
		}
	}
	if req.Description != nil {
		product.Description = utils.SanitizeText(*req.Description)
	}
	if req.Barcode != nil {
		product.Barcode = normalizeBarcode(req.Barcode)
		if err := checkBarcode(product.Barcode); err != nil {
			return err
		}
	}
	if req.ScalePLU != nil {
		plu, err := normalizePLU(req.ScalePLU)
		if err != nil {
			return err
		}
		product.ScalePLU = plu
	}
	if req.IsWeighed != nil {
		product.IsWeighed = *req.IsWeighed
	}
	if req.Unit != nil {
		product.Unit = *req.Unit
	}
	if req.Price != nil {
		product.Price = req.Price.Round(priceScale)
		if !product.Price.IsPositive() {
			return errors.AddValidationError("price", "must be at least 0.01")
		}
	}
	if req.CostPrice != nil {
		product.CostPrice = req.CostPrice.Round(priceScale)
	}
	if req.Status != nil {
		product.Status = *req.Status
	}

	if product.ScalePLU != nil && !product.IsWeighed {
		return errors.AddValidationError("scalePlu", "only weighed products carry a scale PLU")
	}

	return nil
}

func normalizePLU(plu *string) (*string, error) {
	if plu == nil || strings.TrimSpace(*plu) == "" {
		return nil, nil
	}

	normalized, err := barcode.NormalizePLU(strings.TrimSpace(*plu))
	if err != nil {
		return nil, errors.AddValidationError("scalePlu", err.Error()).WithError(err)
	}

	return &normalized, nil
}

func normalizeBarcode(code *string) *string {
	if code == nil {
		return nil
	}

	trimmed := strings.TrimSpace(*code)
	if trimmed == "" {
		return nil
	}

	return &trimmed
}

// checkBarcode rejects codes a scan would read as weighted, since they could
// never be found by barcode.
func checkBarcode(code *string) error {
	if code != nil && barcode.Decode(*code).IsWeighted {
		return errors.AddValidationError("barcode", "must not use the weighted item prefix "+barcode.WeightedPrefix)
	}
	return nil
}

func productWriteError(err error, message string) error {
	switch {
	case stdErrors.Is(err, errors.ErrDuplicateEntry):
		return errors.DuplicateEntryError(duplicateMessage(err)).WithError(err)
	case stdErrors.Is(err, errors.ErrNotFound):
		return errors.NotFoundError("Product or category not found").WithError(err)
	}
	return errors.DatabaseError(message).WithError(err)
}

func duplicateMessage(err error) string {
	msg := err.Error()

	switch {
	case strings.Contains(msg, "scale_plu"):
		return "A product with this scale PLU already exists"
	case strings.Contains(msg, "barcode"):
		return "A product with this barcode already exists"
	}

	return fmt.Sprintf("Product already exists: %v", err)
}
