package service_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	appErrors "github.com/aaravmahajanofficial/pos-inventory/internal/errors"
	"github.com/aaravmahajanofficial/pos-inventory/internal/models"
	"github.com/aaravmahajanofficial/pos-inventory/internal/repositories/mocks"
	service "github.com/aaravmahajanofficial/pos-inventory/internal/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	service     service.OrderService
	orderRepo   *mocks.OrderRepository
	productRepo *mocks.ProductRepository
	bananas     *models.Product
	milk        *models.Product
	cashierID   uuid.UUID
}

func setupOrderServiceTest(t *testing.T) *orderFixture {
	t.Helper()

	orderRepo := mocks.NewOrderRepository(t)
	productRepo := mocks.NewProductRepository(t)

	return &orderFixture{
		service:     service.NewOrderService(orderRepo, productRepo),
		orderRepo:   orderRepo,
		productRepo: productRepo,
		bananas:     &models.Product{ID: uuid.New(), Name: "Bananas", IsWeighed: true, Price: d("2.40"), CostPrice: d("1.10"), Stock: 40},
		milk:        &models.Product{ID: uuid.New(), Name: "Milk", Price: d("2.00"), CostPrice: d("1.20"), Stock: 20},
		cashierID:   uuid.New(),
	}
}

func (f *orderFixture) request() *models.CreateOrderRequest {
	return &models.CreateOrderRequest{
		Items: []models.CartLine{
			{ProductID: f.bananas.ID, Quantity: d("1.25"), UnitPrice: d("2.40")},
			{ProductID: f.milk.ID, Quantity: d("3"), UnitPrice: d("2.00")},
		},
		PaymentMethod: models.PaymentMethodCash,
	}
}

func (f *orderFixture) expectProducts() {
	f.productRepo.On("GetProductsByIDs", mock.Anything, []uuid.UUID{f.bananas.ID, f.milk.ID}).
		Return(map[uuid.UUID]*models.Product{f.bananas.ID: f.bananas, f.milk.ID: f.milk}, nil).Once()
}

func decPtr(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func assertAppError(t *testing.T, err error, code string, status int) {
	t.Helper()

	var appErr *appErrors.AppError
	require.True(t, errors.As(err, &appErr), "expected an AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
	assert.Equal(t, status, appErr.StatusCode)
}

func TestCreateOrder(t *testing.T) {
	t.Run("Success - Settles lines and decrements with ceiling", func(t *testing.T) {
		// Arrange
		f := setupOrderServiceTest(t)
		req := f.request()
		f.expectProducts()

		f.orderRepo.On("CreateOrder", mock.Anything, mock.AnythingOfType("*models.Order"), []models.StockAdjustment{
			{ProductID: f.bananas.ID, Quantity: 2},
			{ProductID: f.milk.ID, Quantity: 3},
		}).Return(nil).Once()

		// Act
		order, err := f.service.CreateOrder(t.Context(), f.cashierID, req)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, f.cashierID, order.CashierID)
		assert.Equal(t, models.OrderStatusCompleted, order.Status)
		assert.Equal(t, "9", order.SubTotal.String())
		assert.Equal(t, "9", order.TotalAmount.String())
		require.Len(t, order.Lines, 2)
		assert.Equal(t, models.LineKindWeighed, order.Lines[0].Kind)
		assert.Equal(t, int64(1), order.Lines[0].Quantity)
		assert.Equal(t, "3", order.Lines[0].Price.String())
		assert.Equal(t, models.LineKindUnit, order.Lines[1].Kind)
		assert.NotEqual(t, uuid.Nil, order.Lines[0].ID)
		require.Len(t, order.Payments, 1)
		assert.True(t, order.TotalAmount.Equal(order.Payments[0].Amount))
		assert.Equal(t, models.PaymentMethodCash, order.Payments[0].Method)
	})

	t.Run("Success - Tax, discount and matching client totals", func(t *testing.T) {
		// Arrange
		f := setupOrderServiceTest(t)
		req := f.request()
		req.Tax = d("0.90")
		req.Discount = d("1.00")
		req.SubTotal = decPtr("9.00")
		req.TotalAmount = decPtr("8.90")
		req.AmountTendered = decPtr("10.00")
		f.expectProducts()
		f.orderRepo.On("CreateOrder", mock.Anything, mock.AnythingOfType("*models.Order"), mock.Anything).Return(nil).Once()

		// Act
		order, err := f.service.CreateOrder(t.Context(), f.cashierID, req)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "8.9", order.TotalAmount.String())
	})

	t.Run("Failure - Missing cashier", func(t *testing.T) {
		f := setupOrderServiceTest(t)

		order, err := f.service.CreateOrder(t.Context(), uuid.Nil, f.request())

		assert.Nil(t, order)
		assertAppError(t, err, appErrors.ErrCodeUnauthorized, http.StatusUnauthorized)
	})

	t.Run("Failure - Unknown product writes nothing", func(t *testing.T) {
		// Arrange
		f := setupOrderServiceTest(t)
		f.productRepo.On("GetProductsByIDs", mock.Anything, mock.Anything).
			Return(map[uuid.UUID]*models.Product{f.bananas.ID: f.bananas}, nil).Once()

		// Act
		order, err := f.service.CreateOrder(t.Context(), f.cashierID, f.request())

		// Assert
		assert.Nil(t, order)
		assertAppError(t, err, appErrors.ErrCodeNotFound, http.StatusNotFound)
		assert.Contains(t, err.Error(), f.milk.ID.String())
		f.orderRepo.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - Product lookup error", func(t *testing.T) {
		f := setupOrderServiceTest(t)
		f.productRepo.On("GetProductsByIDs", mock.Anything, mock.Anything).Return(nil, errors.New("db down")).Once()

		_, err := f.service.CreateOrder(t.Context(), f.cashierID, f.request())

		assertAppError(t, err, appErrors.ErrCodeDatabaseError, http.StatusInternalServerError)
	})

	t.Run("Failure - Client subtotal mismatch", func(t *testing.T) {
		f := setupOrderServiceTest(t)
		req := f.request()
		req.SubTotal = decPtr("8.99")
		f.expectProducts()

		_, err := f.service.CreateOrder(t.Context(), f.cashierID, req)

		assertAppError(t, err, appErrors.ErrCodeTotalsMismatch, http.StatusBadRequest)
	})

	t.Run("Failure - Client total mismatch", func(t *testing.T) {
		f := setupOrderServiceTest(t)
		req := f.request()
		req.Tax = d("1")
		req.TotalAmount = decPtr("9.00")
		f.expectProducts()

		_, err := f.service.CreateOrder(t.Context(), f.cashierID, req)

		assertAppError(t, err, appErrors.ErrCodeTotalsMismatch, http.StatusBadRequest)
	})

	t.Run("Failure - Underpaid", func(t *testing.T) {
		f := setupOrderServiceTest(t)
		req := f.request()
		req.AmountTendered = decPtr("8.99")
		f.expectProducts()

		_, err := f.service.CreateOrder(t.Context(), f.cashierID, req)

		assertAppError(t, err, appErrors.ErrCodeUnderpaid, http.StatusBadRequest)
	})

	t.Run("Failure - Discount above subtotal", func(t *testing.T) {
		f := setupOrderServiceTest(t)
		req := f.request()
		req.Discount = d("10")
		f.expectProducts()

		_, err := f.service.CreateOrder(t.Context(), f.cashierID, req)

		assertAppError(t, err, appErrors.ErrCodeValidation, http.StatusBadRequest)
	})

	repoFailures := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"Negative stock rejected", fmt.Errorf("product x: %w", appErrors.ErrNegativeStock), appErrors.ErrCodeInsufficientStock, http.StatusConflict},
		{"Product deleted concurrently", fmt.Errorf("product x: %w", appErrors.ErrNotFound), appErrors.ErrCodeNotFound, http.StatusNotFound},
		{"Transaction failure", errors.New("commit failed"), appErrors.ErrCodeDatabaseError, http.StatusInternalServerError},
	}

	for _, tc := range repoFailures {
		t.Run("Failure - "+tc.name, func(t *testing.T) {
			f := setupOrderServiceTest(t)
			f.expectProducts()
			f.orderRepo.On("CreateOrder", mock.Anything, mock.Anything, mock.Anything).Return(tc.err).Once()

			order, err := f.service.CreateOrder(t.Context(), f.cashierID, f.request())

			assert.Nil(t, order)
			assertAppError(t, err, tc.code, tc.status)
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestCreateOrderDuplicateProductsLoadedOnce(t *testing.T) {
	f := setupOrderServiceTest(t)
	req := &models.CreateOrderRequest{
		Items: []models.CartLine{
			{ProductID: f.milk.ID, Quantity: d("1"), UnitPrice: d("2.00")},
			{ProductID: f.milk.ID, Quantity: d("2"), UnitPrice: d("2.00")},
		},
		PaymentMethod: models.PaymentMethodCard,
	}

	f.productRepo.On("GetProductsByIDs", mock.Anything, []uuid.UUID{f.milk.ID}).
		Return(map[uuid.UUID]*models.Product{f.milk.ID: f.milk}, nil).Once()
	f.orderRepo.On("CreateOrder", mock.Anything, mock.Anything, []models.StockAdjustment{
		{ProductID: f.milk.ID, Quantity: 1},
		{ProductID: f.milk.ID, Quantity: 2},
	}).Return(nil).Once()

	order, err := f.service.CreateOrder(t.Context(), f.cashierID, req)

	require.NoError(t, err)
	assert.Equal(t, "6", order.TotalAmount.String())
}

func TestCreateOrderLineScale(t *testing.T) {
	t.Run("Success - Gram weight at cent price fits the stored scale", func(t *testing.T) {
		f := setupOrderServiceTest(t)
		req := &models.CreateOrderRequest{
			Items:         []models.CartLine{{ProductID: f.bananas.ID, Quantity: d("0.333"), UnitPrice: d("1.99")}},
			PaymentMethod: models.PaymentMethodCash,
		}
		f.productRepo.On("GetProductsByIDs", mock.Anything, []uuid.UUID{f.bananas.ID}).
			Return(map[uuid.UUID]*models.Product{f.bananas.ID: f.bananas}, nil).Once()
		f.orderRepo.On("CreateOrder", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

		order, err := f.service.CreateOrder(t.Context(), f.cashierID, req)

		require.NoError(t, err)
		line := order.Lines[0]
		assert.Equal(t, "0.66267", line.Price.String())
		assert.Equal(t, "0.3663", line.Cost.String())
		assert.GreaterOrEqual(t, line.Price.Exponent(), int32(-models.LineAmountScale))
		assert.GreaterOrEqual(t, order.SubTotal.Exponent(), int32(-models.LineAmountScale))
	})

	rejected := []struct {
		name string
		edit func(req *models.CreateOrderRequest)
	}{
		{"Quantity finer than a gram", func(req *models.CreateOrderRequest) { req.Items[0].Quantity = d("0.3333") }},
		{"Unit price finer than a cent", func(req *models.CreateOrderRequest) { req.Items[0].UnitPrice = d("1.999") }},
		{"Quantity above the line limit", func(req *models.CreateOrderRequest) {
			req.Items[1].Quantity = d("9223372036854775808")
		}},
		{"Zero quantity", func(req *models.CreateOrderRequest) { req.Items[1].Quantity = decimal.Zero }},
		{"Tax finer than a cent", func(req *models.CreateOrderRequest) { req.Tax = d("0.001") }},
	}

	for _, tc := range rejected {
		t.Run("Failure - "+tc.name, func(t *testing.T) {
			f := setupOrderServiceTest(t)
			req := f.request()
			tc.edit(req)

			order, err := f.service.CreateOrder(t.Context(), f.cashierID, req)

			assert.Nil(t, order)
			assertAppError(t, err, appErrors.ErrCodeValidation, http.StatusBadRequest)
		})
	}
}

func TestGetOrderByID(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		f := setupOrderServiceTest(t)
		expected := &models.Order{ID: uuid.New()}
		f.orderRepo.On("GetOrderByID", mock.Anything, expected.ID).Return(expected, nil).Once()

		order, err := f.service.GetOrderByID(t.Context(), expected.ID)

		require.NoError(t, err)
		assert.Equal(t, expected, order)
	})

	t.Run("Failure - Not found", func(t *testing.T) {
		f := setupOrderServiceTest(t)
		id := uuid.New()
		f.orderRepo.On("GetOrderByID", mock.Anything, id).Return(nil, fmt.Errorf("order: %w", appErrors.ErrNotFound)).Once()

		_, err := f.service.GetOrderByID(t.Context(), id)

		assertAppError(t, err, appErrors.ErrCodeNotFound, http.StatusNotFound)
	})

	t.Run("Failure - Database error", func(t *testing.T) {
		f := setupOrderServiceTest(t)
		id := uuid.New()
		f.orderRepo.On("GetOrderByID", mock.Anything, id).Return(nil, errors.New("timeout")).Once()

		_, err := f.service.GetOrderByID(t.Context(), id)

		assertAppError(t, err, appErrors.ErrCodeDatabaseError, http.StatusInternalServerError)
	})
}

func TestListOrders(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		f := setupOrderServiceTest(t)
		filter := uuid.NullUUID{UUID: f.cashierID, Valid: true}
		f.orderRepo.On("ListOrders", mock.Anything, filter, 1, 10).Return([]*models.Order{{ID: uuid.New()}}, 1, nil).Once()

		orders, total, err := f.service.ListOrders(t.Context(), filter, 1, 10)

		require.NoError(t, err)
		assert.Len(t, orders, 1)
		assert.Equal(t, 1, total)
	})

	t.Run("Failure", func(t *testing.T) {
		f := setupOrderServiceTest(t)
		f.orderRepo.On("ListOrders", mock.Anything, uuid.NullUUID{}, 1, 10).Return(nil, 0, errors.New("boom")).Once()

		_, _, err := f.service.ListOrders(t.Context(), uuid.NullUUID{}, 1, 10)

		assertAppError(t, err, appErrors.ErrCodeDatabaseError, http.StatusInternalServerError)
	})
}
