package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	appErrors "github.com/aaravmahajanofficial/pos-inventory/internal/errors"
	"github.com/aaravmahajanofficial/pos-inventory/internal/models"
	"github.com/aaravmahajanofficial/pos-inventory/internal/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetProductsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Product, error)
	GetProductByScalePLU(ctx context.Context, plu string) (*models.Product, error)
	GetProductByBarcode(ctx context.Context, code string) (*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product, stock *int64) (bool, error)
	ListProducts(ctx context.Context, page, size int) ([]*models.Product, int, error)
	ListPriceHistory(ctx context.Context, productID uuid.UUID) ([]*models.PriceHistoryRecord, error)
}

type productRepository struct {
	DB *sql.DB
}

func NewProductRepo(db *sql.DB) ProductRepository {
	return &productRepository{DB: db}
}

const productColumns = `p.id, p.category_id, p.name, p.description, p.barcode, p.scale_plu, p.is_weighed,
		p.unit, p.price, p.cost_price, p.stock, p.status, p.created_at, p.updated_at`

func scanProduct(row rowScanner, product *models.Product, extra ...any) error {
	dest := []any{
		&product.ID, &product.CategoryID, &product.Name, &product.Description, &product.Barcode, &product.ScalePLU,
		&product.IsWeighed, &product.Unit, &product.Price, &product.CostPrice, &product.Stock, &product.Status,
		&product.CreatedAt, &product.UpdatedAt,
	}

	return row.Scan(append(dest, extra...)...)
}

// CreateProduct inserts the product and opens its first price history
// record in the same transaction.
func (r *productRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO products (category_id, name, description, barcode, scale_plu, is_weighed, unit, price, cost_price, stock, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`

	err = tx.QueryRowContext(dbCtx, query,
		product.CategoryID, product.Name, product.Description, product.Barcode, product.ScalePLU, product.IsWeighed,
		product.Unit, product.Price, product.CostPrice, product.Stock, product.Status,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert product: %w", mapPQError(err))
	}

	historyQuery := `
		INSERT INTO product_price_history (product_id, price, cost_price, valid_from)
		VALUES ($1, $2, $3, $4)`

	if _, err := tx.ExecContext(dbCtx, historyQuery, product.ID, product.Price, product.CostPrice, product.CreatedAt); err != nil {
		return fmt.Errorf("insert initial price history: %w", mapPQError(err))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit product: %w", err)
	}

	return nil
}

func (r *productRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT ` + productColumns + `, c.id, c.name, c.description
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE p.id = $1`

	product := &models.Product{}

	var (
		categoryID   uuid.NullUUID
		categoryName sql.NullString
		categoryDesc sql.NullString
	)

	err := scanProduct(r.DB.QueryRowContext(dbCtx, query, id), product, &categoryID, &categoryName, &categoryDesc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("product %s: %w", id, appErrors.ErrNotFound)
		}
		return nil, fmt.Errorf("querying database: %w", err)
	}

	if categoryID.Valid {
		product.Category = &models.Category{ID: categoryID.UUID, Name: categoryName.String, Description: categoryDesc.String}
	}

	return product, nil
}

// GetProductsByIDs loads every requested product in one round trip. Missing
// ids are simply absent from the result.
func (r *productRepository) GetProductsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	products := make(map[uuid.UUID]*models.Product, len(ids))
	if len(ids) == 0 {
		return products, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}

	query := `SELECT ` + productColumns + ` FROM products p WHERE p.id = ANY($1::uuid[])`

	rows, err := r.DB.QueryContext(dbCtx, query, pq.Array(keys))
	if err != nil {
		return nil, fmt.Errorf("querying products by ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		product := &models.Product{}
		if err := scanProduct(rows, product); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products[product.ID] = product
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepository) GetProductByScalePLU(ctx context.Context, plu string) (*models.Product, error) {
	return r.getProductBy(ctx, "p.scale_plu", plu)
}

func (r *productRepository) GetProductByBarcode(ctx context.Context, code string) (*models.Product, error) {
	return r.getProductBy(ctx, "p.barcode", code)
}

func (r *productRepository) getProductBy(ctx context.Context, column, value string) (*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT ` + productColumns + ` FROM products p WHERE ` + column + ` = $1`

	product := &models.Product{}
	if err := scanProduct(r.DB.QueryRowContext(dbCtx, query, value), product); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("product with %s %q: %w", column, value, appErrors.ErrNotFound)
		}
		return nil, fmt.Errorf("querying database: %w", err)
	}

	return product, nil
}

// UpdateProduct writes the product and, when price or cost differ from the
// stored values, closes the active price history record and opens a new
// one. The product row is locked first so concurrent updates serialise.
// Stock is only written when stock is non-nil; otherwise product.Stock is
// refreshed from the row so decrements committed by orders are kept.
// The returned bool reports whether a price change was recorded.
func (r *productRepository) UpdateProduct(ctx context.Context, product *models.Product, stock *int64) (bool, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var currentPrice, currentCost decimal.Decimal

	lockQuery := `SELECT price, cost_price FROM products WHERE id = $1 FOR UPDATE`

	if err := tx.QueryRowContext(dbCtx, lockQuery, product.ID).Scan(&currentPrice, &currentCost); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, fmt.Errorf("product %s: %w", product.ID, appErrors.ErrNotFound)
		}
		return false, fmt.Errorf("lock product: %w", err)
	}

	updateQuery := `
		UPDATE products
		SET category_id = $1, name = $2, description = $3, barcode = $4, scale_plu = $5, is_weighed = $6,
			unit = $7, price = $8, cost_price = $9, status = $10, updated_at = NOW()
		WHERE id = $11
		RETURNING stock, updated_at`

	err = tx.QueryRowContext(dbCtx, updateQuery,
		product.CategoryID, product.Name, product.Description, product.Barcode, product.ScalePLU, product.IsWeighed,
		product.Unit, product.Price, product.CostPrice, product.Status, product.ID,
	).Scan(&product.Stock, &product.UpdatedAt)
	if err != nil {
		return false, fmt.Errorf("update product: %w", mapPQError(err))
	}

	if stock != nil {
		stockQuery := `UPDATE products SET stock = $1 WHERE id = $2`

		if _, err := tx.ExecContext(dbCtx, stockQuery, *stock, product.ID); err != nil {
			return false, fmt.Errorf("set stock: %w", mapPQError(err))
		}
		product.Stock = *stock
	}

	changed := PriceChanged(currentPrice, currentCost, product.Price, product.CostPrice)

	if changed {
		closeQuery := `UPDATE product_price_history SET valid_to = NOW() WHERE product_id = $1 AND valid_to IS NULL`

		if _, err := tx.ExecContext(dbCtx, closeQuery, product.ID); err != nil {
			return false, fmt.Errorf("close price history: %w", err)
		}

		openQuery := `
			INSERT INTO product_price_history (product_id, price, cost_price, valid_from)
			VALUES ($1, $2, $3, NOW())`

		if _, err := tx.ExecContext(dbCtx, openQuery, product.ID, product.Price, product.CostPrice); err != nil {
			return false, fmt.Errorf("open price history: %w", mapPQError(err))
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit product update: %w", err)
	}

	return changed, nil
}

// PriceChanged compares exactly, without tolerance.
func PriceChanged(oldPrice, oldCost, newPrice, newCost decimal.Decimal) bool {
	return !oldPrice.Equal(newPrice) || !oldCost.Equal(newCost)
}

func (r *productRepository) ListProducts(ctx context.Context, page, size int) ([]*models.Product, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int

	countQuery := `SELECT COUNT(*) FROM products`

	if err := r.DB.QueryRowContext(dbCtx, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	offset := (page - 1) * size

	query := `
		SELECT ` + productColumns + `
		FROM products p
		ORDER BY p.name, p.id
		LIMIT $1 OFFSET $2`

	rows, err := r.DB.QueryContext(dbCtx, query, size, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]*models.Product, 0, size)

	for rows.Next() {
		product := &models.Product{}
		if err := scanProduct(rows, product); err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (r *productRepository) ListPriceHistory(ctx context.Context, productID uuid.UUID) ([]*models.PriceHistoryRecord, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, product_id, price, cost_price, valid_from, valid_to
		FROM product_price_history
		WHERE product_id = $1
		ORDER BY valid_from DESC`

	rows, err := r.DB.QueryContext(dbCtx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list price history: %w", err)
	}
	defer rows.Close()

	var records []*models.PriceHistoryRecord

	for rows.Next() {
		record := &models.PriceHistoryRecord{}
		if err := rows.Scan(&record.ID, &record.ProductID, &record.Price, &record.CostPrice, &record.ValidFrom, &record.ValidTo); err != nil {
			return nil, fmt.Errorf("scan price history: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
