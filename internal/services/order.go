package service

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"

	"github.com/aaravmahajanofficial/pos-inventory/internal/api/middleware"
	"github.com/aaravmahajanofficial/pos-inventory/internal/errors"
	"github.com/aaravmahajanofficial/pos-inventory/internal/metrics"
	"github.com/aaravmahajanofficial/pos-inventory/internal/models"
	repository "github.com/aaravmahajanofficial/pos-inventory/internal/repositories"
	"github.com/aaravmahajanofficial/pos-inventory/internal/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderService interface {
	CreateOrder(ctx context.Context, cashierID uuid.UUID, req *models.CreateOrderRequest) (*models.Order, error)
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, cashierID uuid.NullUUID, page, size int) ([]*models.Order, int, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
}

func NewOrderService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository) OrderService {
	return &orderService{orderRepo: orderRepo, productRepo: productRepo}
}

// CreateOrder settles the cart and persists order, lines, payment and stock
// decrements in one transaction. Nothing is written when any check fails.
func (s *orderService) CreateOrder(ctx context.Context, cashierID uuid.UUID, req *models.CreateOrderRequest) (*models.Order, error) {

	logger := middleware.LoggerFromContext(ctx)

	if cashierID == uuid.Nil {
		return nil, errors.UnauthorizedError("Cashier identity is required")
	}

	if !utils.FitsScale(req.Tax, models.UnitPriceScale) || !utils.FitsScale(req.Discount, models.UnitPriceScale) {
		return nil, errors.ValidationError("Tax and discount must have at most 2 decimal places")
	}

	ids := make([]uuid.UUID, 0, len(req.Items))
	seen := make(map[uuid.UUID]struct{}, len(req.Items))

	for _, item := range req.Items {
		if err := checkCartLine(item); err != nil {
			return nil, err
		}
		if _, ok := seen[item.ProductID]; !ok {
			seen[item.ProductID] = struct{}{}
			ids = append(ids, item.ProductID)
		}
	}

	products, err := s.productRepo.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, errors.DatabaseError("Failed to load products").WithError(err)
	}

	lines := make([]models.OrderLine, 0, len(req.Items))
	adjustments := make([]models.StockAdjustment, 0, len(req.Items))
	subTotal := decimal.Zero

	for _, item := range req.Items {
		product, ok := products[item.ProductID]
		if !ok {
			return nil, errors.NotFoundError(fmt.Sprintf("Product %s not found", item.ProductID))
		}

		line := SettleLine(item, product)
		line.ID = uuid.New()

		lines = append(lines, line)
		adjustments = append(adjustments, models.StockAdjustment{
			ProductID: item.ProductID,
			Quantity:  StockDecrement(item.Quantity),
		})
		subTotal = subTotal.Add(line.Amount())
	}

	total := subTotal.Add(req.Tax).Sub(req.Discount)
	if total.IsNegative() {
		return nil, errors.ValidationError("Discount exceeds the order subtotal")
	}

	if req.SubTotal != nil && !sameCents(*req.SubTotal, subTotal) {
		return nil, errors.TotalsMismatchError(
			fmt.Sprintf("Subtotal %s does not match computed %s", req.SubTotal.StringFixed(2), subTotal.StringFixed(2)))
	}

	if req.TotalAmount != nil && !sameCents(*req.TotalAmount, total) {
		return nil, errors.TotalsMismatchError(
			fmt.Sprintf("Total %s does not match computed %s", req.TotalAmount.StringFixed(2), total.StringFixed(2)))
	}

	if req.AmountTendered != nil && req.AmountTendered.Round(2).LessThan(total.Round(2)) {
		return nil, errors.UnderpaidError(
			fmt.Sprintf("Amount tendered %s is less than total %s", req.AmountTendered.StringFixed(2), total.StringFixed(2)))
	}

	order := &models.Order{
		ID:            uuid.New(),
		CashierID:     cashierID,
		SubTotal:      subTotal,
		Tax:           req.Tax,
		Discount:      req.Discount,
		TotalAmount:   total,
		Status:        models.OrderStatusCompleted,
		PaymentMethod: req.PaymentMethod,
		Lines:         lines,
		Payments: []models.Payment{
			{ID: uuid.New(), Amount: total, Method: req.PaymentMethod},
		},
	}

	if err := s.orderRepo.CreateOrder(ctx, order, adjustments); err != nil {
		switch {
		case stdErrors.Is(err, errors.ErrNegativeStock):
			return nil, errors.InsufficientStockError("Insufficient stock to complete the order").WithError(err)
		case stdErrors.Is(err, errors.ErrNotFound):
			return nil, errors.NotFoundError("A product in the order no longer exists").WithError(err)
		}
		return nil, errors.DatabaseError("Failed to create order").WithError(err)
	}

	metrics.RecordOrderSettled(string(order.PaymentMethod))

	logger.Info("Order settled",
		slog.String("orderId", order.ID.String()),
		slog.String("cashierId", cashierID.String()),
		slog.Int("lines", len(order.Lines)),
		slog.String("total", total.StringFixed(2)),
	)

	return order, nil
}

func (s *orderService) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {

	order, err := s.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, errors.ErrNotFound) {
			return nil, errors.NotFoundError("Order not found").WithError(err)
		}
		return nil, errors.DatabaseError("Failed to fetch order").WithError(err)
	}

	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, cashierID uuid.NullUUID, page, size int) ([]*models.Order, int, error) {

	orders, total, err := s.orderRepo.ListOrders(ctx, cashierID, page, size)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to fetch orders").WithError(err)
	}

	return orders, total, nil
}

// checkCartLine keeps settled amounts within the scale the order columns store.
func checkCartLine(line models.CartLine) error {
	switch {
	case !line.Quantity.IsPositive() || line.Quantity.GreaterThan(decimal.NewFromInt(models.MaxLineQuantity)):
		return errors.AddValidationError("quantity", fmt.Sprintf("must be greater than 0 and at most %d", models.MaxLineQuantity))
	case !utils.FitsScale(line.Quantity, models.QuantityScale):
		return errors.AddValidationError("quantity", "must have at most 3 decimal places")
	case line.UnitPrice.IsNegative() || !utils.FitsScale(line.UnitPrice, models.UnitPriceScale):
		return errors.AddValidationError("unitPrice", "must be at least 0 with at most 2 decimal places")
	}

	return nil
}

func sameCents(a, b decimal.Decimal) bool {
	return a.Round(2).Equal(b.Round(2))
}
