package repository

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	appErrors "github.com/aaravmahajanofficial/pos-inventory/internal/errors"
	"github.com/aaravmahajanofficial/pos-inventory/internal/models"
	"github.com/aaravmahajanofficial/pos-inventory/internal/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *models.Order, adjustments []models.StockAdjustment) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, cashierID uuid.NullUUID, page, size int) ([]*models.Order, int, error)
	ListSalesLines(ctx context.Context, from, to time.Time) ([]models.SalesLine, error)
}

type orderRepository struct {
	DB                 *sql.DB
	allowNegativeStock bool
}

func NewOrderRepo(db *sql.DB, allowNegativeStock bool) OrderRepository {
	return &orderRepository{DB: db, allowNegativeStock: allowNegativeStock}
}

// CreateOrder persists the header, its lines and payments, and decrements
// stock for every adjustment. Either all of it is committed or none of it.
func (r *orderRepository) CreateOrder(ctx context.Context, order *models.Order, adjustments []models.StockAdjustment) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO orders (id, cashier_id, sub_total, tax, discount, total_amount, status, payment_method)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	err = tx.QueryRowContext(dbCtx, query,
		order.ID, order.CashierID, order.SubTotal, order.Tax, order.Discount, order.TotalAmount, order.Status, order.PaymentMethod,
	).Scan(&order.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", mapPQError(err))
	}

	lineQuery := `
		INSERT INTO order_items (id, order_id, product_id, kind, quantity, price, cost, measured_quantity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	for i := range order.Lines {
		line := &order.Lines[i]
		line.OrderID = order.ID
		line.CreatedAt = order.CreatedAt

		_, err := tx.ExecContext(dbCtx, lineQuery,
			line.ID, order.ID, line.ProductID, line.Kind, line.Quantity, line.Price, line.Cost, line.MeasuredQuantity, line.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert order line for product %s: %w", line.ProductID, mapPQError(err))
		}
	}

	paymentQuery := `
		INSERT INTO payments (id, order_id, amount, method, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	for i := range order.Payments {
		payment := &order.Payments[i]
		payment.OrderID = order.ID
		payment.CreatedAt = order.CreatedAt

		if _, err := tx.ExecContext(dbCtx, paymentQuery, payment.ID, order.ID, payment.Amount, payment.Method, payment.CreatedAt); err != nil {
			return fmt.Errorf("insert payment: %w", err)
		}
	}

	stockQuery := `UPDATE products SET stock = stock - $1, updated_at = NOW() WHERE id = $2 RETURNING stock`

	for _, adj := range lockOrder(adjustments) {
		var remaining int64

		if err := tx.QueryRowContext(dbCtx, stockQuery, adj.Quantity, adj.ProductID).Scan(&remaining); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("product %s: %w", adj.ProductID, appErrors.ErrNotFound)
			}
			return fmt.Errorf("decrement stock: %w", err)
		}

		if remaining < 0 && !r.allowNegativeStock {
			return fmt.Errorf("product %s would have stock %d: %w", adj.ProductID, remaining, appErrors.ErrNegativeStock)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit order: %w", err)
	}

	return nil
}

// lockOrder merges adjustments per product and sorts them by product id so
// concurrent orders lock product rows in the same sequence.
func lockOrder(adjustments []models.StockAdjustment) []models.StockAdjustment {
	merged := make(map[uuid.UUID]int64, len(adjustments))
	for _, adj := range adjustments {
		merged[adj.ProductID] += adj.Quantity
	}

	ordered := make([]models.StockAdjustment, 0, len(merged))
	for id, qty := range merged {
		ordered = append(ordered, models.StockAdjustment{ProductID: id, Quantity: qty})
	}

	slices.SortFunc(ordered, func(a, b models.StockAdjustment) int {
		return bytes.Compare(a.ProductID[:], b.ProductID[:])
	})

	return ordered
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, cashier_id, sub_total, tax, discount, total_amount, status, payment_method, created_at
		FROM orders
		WHERE id = $1`

	order := &models.Order{}

	if err := scanOrder(r.DB.QueryRowContext(dbCtx, query, id), order); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("order %s: %w", id, appErrors.ErrNotFound)
		}
		return nil, fmt.Errorf("querying database: %w", err)
	}

	if err := r.attachDetails(dbCtx, []*models.Order{order}); err != nil {
		return nil, err
	}

	return order, nil
}

// ListOrders pages through orders newest first. An invalid cashierID lists
// every cashier's orders.
func (r *orderRepository) ListOrders(ctx context.Context, cashierID uuid.NullUUID, page, size int) ([]*models.Order, int, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int

	countQuery := `SELECT COUNT(*) FROM orders WHERE ($1::uuid IS NULL OR cashier_id = $1)`

	if err := r.DB.QueryRowContext(dbCtx, countQuery, cashierID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	offset := (page - 1) * size

	query := `
		SELECT id, cashier_id, sub_total, tax, discount, total_amount, status, payment_method, created_at
		FROM orders
		WHERE ($1::uuid IS NULL OR cashier_id = $1)
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(dbCtx, query, cashierID, size, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]*models.Order, 0, size)

	for rows.Next() {
		order := &models.Order{}
		if err := scanOrder(rows, order); err != nil {
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if err := r.attachDetails(dbCtx, orders); err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// ListSalesLines returns the lines of completed orders created in [from, to].
func (r *orderRepository) ListSalesLines(ctx context.Context, from, to time.Time) ([]models.SalesLine, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT o.id, o.total_amount, o.created_at, oi.quantity, oi.price, oi.cost
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.id
		WHERE o.status = $1 AND o.created_at >= $2 AND o.created_at <= $3
		ORDER BY o.created_at, o.id`

	rows, err := r.DB.QueryContext(dbCtx, query, models.OrderStatusCompleted, from, to)
	if err != nil {
		return nil, fmt.Errorf("list sales lines: %w", err)
	}
	defer rows.Close()

	var lines []models.SalesLine

	for rows.Next() {
		var line models.SalesLine
		if err := rows.Scan(&line.OrderID, &line.OrderTotal, &line.OrderedAt, &line.Quantity, &line.Price, &line.Cost); err != nil {
			return nil, fmt.Errorf("scan sales line: %w", err)
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}

func scanOrder(row rowScanner, order *models.Order) error {
	return row.Scan(&order.ID, &order.CashierID, &order.SubTotal, &order.Tax, &order.Discount, &order.TotalAmount,
		&order.Status, &order.PaymentMethod, &order.CreatedAt)
}

// attachDetails loads lines and payments for all orders with one query each.
func (r *orderRepository) attachDetails(ctx context.Context, orders []*models.Order) error {

	if len(orders) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*models.Order, len(orders))
	keys := make([]string, len(orders))

	for i, order := range orders {
		byID[order.ID] = order
		keys[i] = order.ID.String()
		order.Lines = []models.OrderLine{}
		order.Payments = []models.Payment{}
	}

	lineQuery := `
		SELECT id, order_id, product_id, kind, quantity, price, cost, measured_quantity, created_at
		FROM order_items
		WHERE order_id = ANY($1::uuid[])
		ORDER BY created_at, id`

	rows, err := r.DB.QueryContext(ctx, lineQuery, pq.Array(keys))
	if err != nil {
		return fmt.Errorf("get order lines: %w", err)
	}

	for rows.Next() {
		var line models.OrderLine
		if err := rows.Scan(&line.ID, &line.OrderID, &line.ProductID, &line.Kind, &line.Quantity, &line.Price, &line.Cost,
			&line.MeasuredQuantity, &line.CreatedAt); err != nil {
			rows.Close()
			return fmt.Errorf("scan order line: %w", err)
		}
		if order, ok := byID[line.OrderID]; ok {
			order.Lines = append(order.Lines, line)
		}
	}

	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	paymentQuery := `
		SELECT id, order_id, amount, method, created_at
		FROM payments
		WHERE order_id = ANY($1::uuid[])
		ORDER BY created_at, id`

	rows, err = r.DB.QueryContext(ctx, paymentQuery, pq.Array(keys))
	if err != nil {
		return fmt.Errorf("get order payments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var payment models.Payment
		if err := rows.Scan(&payment.ID, &payment.OrderID, &payment.Amount, &payment.Method, &payment.CreatedAt); err != nil {
			return fmt.Errorf("scan payment: %w", err)
		}
		if order, ok := byID[payment.OrderID]; ok {
			order.Payments = append(order.Payments, payment)
		}
	}

	return rows.Err()
}
