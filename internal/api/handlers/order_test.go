package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aaravmahajanofficial/pos-inventory/internal/api/handlers"
	appErrors "github.com/aaravmahajanofficial/pos-inventory/internal/errors"
	"github.com/aaravmahajanofficial/pos-inventory/internal/models"
	"github.com/aaravmahajanofficial/pos-inventory/internal/services/mocks"
	"github.com/aaravmahajanofficial/pos-inventory/internal/testutils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func cashierRequest(t *testing.T, cashierID uuid.UUID, method, target string, body any, pathParams map[string]string) *http.Request {
	t.Helper()

	if body == nil {
		return testutils.CreateTestRequestWithContext(method, target, nil, cashierID, models.RoleCashier, pathParams)
	}

	return testutils.CreateTestRequestWithContext(method, target, testutils.JSONBody(t, body), cashierID, models.RoleCashier, pathParams)
}

func TestCreateOrder(t *testing.T) {
	cashierID := uuid.New()
	body := models.CreateOrderRequest{
		Items: []models.CartLine{
			{ProductID: uuid.New(), Quantity: decimal.RequireFromString("1.25"), UnitPrice: decimal.RequireFromString("2.40")},
			{ProductID: uuid.New(), Quantity: decimal.RequireFromString("2"), UnitPrice: decimal.RequireFromString("1.99")},
		},
		PaymentMethod: models.PaymentMethodCash,
	}

	t.Run("Success - Cashier taken from token", func(t *testing.T) {
		// Arrange
		orderService := mocks.NewOrderService(t)
		handler := handlers.NewOrderHandler(orderService)
		settled := &models.Order{ID: uuid.New(), CashierID: cashierID, TotalAmount: decimal.RequireFromString("6.98"), Status: models.OrderStatusCompleted}

		orderService.On("CreateOrder", mock.Anything, cashierID, mock.MatchedBy(func(r *models.CreateOrderRequest) bool {
			return len(r.Items) == 2 && r.Items[0].Quantity.Equal(decimal.RequireFromString("1.25"))
		})).Return(settled, nil).Once()

		rr := httptest.NewRecorder()

		// Act
		handler.CreateOrder().ServeHTTP(rr, cashierRequest(t, cashierID, http.MethodPost, "/api/v1/orders", body, nil))

		// Assert
		assert.Equal(t, http.StatusCreated, rr.Code)
		var order models.Order
		testutils.DecodeResponse(t, rr, &order)
		assert.Equal(t, settled.ID, order.ID)
		assert.Equal(t, cashierID, order.CashierID)
	})

	t.Run("Failure - Unauthenticated", func(t *testing.T) {
		orderService := mocks.NewOrderService(t)
		handler := handlers.NewOrderHandler(orderService)

		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/orders", testutils.JSONBody(t, body), nil)
		rr := httptest.NewRecorder()

		handler.CreateOrder().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Failure - Empty basket", func(t *testing.T) {
		orderService := mocks.NewOrderService(t)
		handler := handlers.NewOrderHandler(orderService)
		empty := models.CreateOrderRequest{PaymentMethod: models.PaymentMethodCard}

		rr := httptest.NewRecorder()
		handler.CreateOrder().ServeHTTP(rr, cashierRequest(t, cashierID, http.MethodPost, "/api/v1/orders", empty, nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Failure - Unknown payment method", func(t *testing.T) {
		orderService := mocks.NewOrderService(t)
		handler := handlers.NewOrderHandler(orderService)
		bad := body
		bad.PaymentMethod = "CHEQUE"

		rr := httptest.NewRecorder()
		handler.CreateOrder().ServeHTTP(rr, cashierRequest(t, cashierID, http.MethodPost, "/api/v1/orders", bad, nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	serviceErrors := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"Totals mismatch", appErrors.TotalsMismatchError("Total 7.00 does not match computed 6.98"), http.StatusBadRequest, appErrors.ErrCodeTotalsMismatch},
		{"Insufficient payment", appErrors.UnderpaidError("Amount tendered 5.00 is less than total 6.98"), http.StatusBadRequest, appErrors.ErrCodeUnderpaid},
		{"Insufficient stock", appErrors.InsufficientStockError("Insufficient stock to complete the order"), http.StatusConflict, appErrors.ErrCodeInsufficientStock},
		{"Unknown product", appErrors.NotFoundError("Product not found"), http.StatusNotFound, appErrors.ErrCodeNotFound},
	}

	for _, tc := range serviceErrors {
		t.Run("Failure - "+tc.name, func(t *testing.T) {
			orderService := mocks.NewOrderService(t)
			handler := handlers.NewOrderHandler(orderService)
			orderService.On("CreateOrder", mock.Anything, cashierID, mock.Anything).Return(nil, tc.err).Once()

			rr := httptest.NewRecorder()
			handler.CreateOrder().ServeHTTP(rr, cashierRequest(t, cashierID, http.MethodPost, "/api/v1/orders", body, nil))

			assert.Equal(t, tc.status, rr.Code)
			resp := testutils.DecodeResponse(t, rr, nil)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tc.code, resp.Error.Code)
		})
	}
}

func TestGetOrder(t *testing.T) {
	owner := uuid.New()
	orderID := uuid.New()
	order := &models.Order{ID: orderID, CashierID: owner}
	params := map[string]string{"id": orderID.String()}

	t.Run("Success - Own order", func(t *testing.T) {
		orderService := mocks.NewOrderService(t)
		handler := handlers.NewOrderHandler(orderService)
		orderService.On("GetOrderByID", mock.Anything, orderID).Return(order, nil).Once()

		rr := httptest.NewRecorder()
		handler.GetOrder().ServeHTTP(rr, cashierRequest(t, owner, http.MethodGet, "/api/v1/orders/"+orderID.String(), nil, params))

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Success - Admin reads any order", func(t *testing.T) {
		orderService := mocks.NewOrderService(t)
		handler := handlers.NewOrderHandler(orderService)
		orderService.On("GetOrderByID", mock.Anything, orderID).Return(order, nil).Once()

		rr := httptest.NewRecorder()
		handler.GetOrder().ServeHTTP(rr, adminRequest(t, http.MethodGet, "/api/v1/orders/"+orderID.String(), nil, params))

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Failure - Another cashier's order", func(t *testing.T) {
		orderService := mocks.NewOrderService(t)
		handler := handlers.NewOrderHandler(orderService)
		orderService.On("GetOrderByID", mock.Anything, orderID).Return(order, nil).Once()

		rr := httptest.NewRecorder()
		handler.GetOrder().ServeHTTP(rr, cashierRequest(t, uuid.New(), http.MethodGet, "/api/v1/orders/"+orderID.String(), nil, params))

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("Failure - Invalid id", func(t *testing.T) {
		orderService := mocks.NewOrderService(t)
		handler := handlers.NewOrderHandler(orderService)

		rr := httptest.NewRecorder()
		handler.GetOrder().ServeHTTP(rr, cashierRequest(t, owner, http.MethodGet, "/api/v1/orders/x", nil, map[string]string{"id": "x"}))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestListOrders(t *testing.T) {
	t.Run("Cashier sees own orders", func(t *testing.T) {
		orderService := mocks.NewOrderService(t)
		handler := handlers.NewOrderHandler(orderService)
		cashierID := uuid.New()
		orderService.On("ListOrders", mock.Anything, uuid.NullUUID{UUID: cashierID, Valid: true}, 1, 10).
			Return([]*models.Order{{ID: uuid.New()}}, 1, nil).Once()

		rr := httptest.NewRecorder()
		handler.ListOrders().ServeHTTP(rr, cashierRequest(t, cashierID, http.MethodGet, "/api/v1/orders?cashierId="+uuid.NewString(), nil, nil))

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Admin sees all orders", func(t *testing.T) {
		orderService := mocks.NewOrderService(t)
		handler := handlers.NewOrderHandler(orderService)
		orderService.On("ListOrders", mock.Anything, uuid.NullUUID{}, 3, 20).Return([]*models.Order{}, 0, nil).Once()

		rr := httptest.NewRecorder()
		handler.ListOrders().ServeHTTP(rr, adminRequest(t, http.MethodGet, "/api/v1/orders?page=3&pageSize=20", nil, nil))

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Admin filters by cashier", func(t *testing.T) {
		orderService := mocks.NewOrderService(t)
		handler := handlers.NewOrderHandler(orderService)
		cashierID := uuid.New()
		orderService.On("ListOrders", mock.Anything, uuid.NullUUID{UUID: cashierID, Valid: true}, 1, 10).
			Return([]*models.Order{}, 0, nil).Once()

		rr := httptest.NewRecorder()
		handler.ListOrders().ServeHTTP(rr, adminRequest(t, http.MethodGet, "/api/v1/orders?cashierId="+cashierID.String(), nil, nil))

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Failure - Admin filter is not a uuid", func(t *testing.T) {
		orderService := mocks.NewOrderService(t)
		handler := handlers.NewOrderHandler(orderService)

		rr := httptest.NewRecorder()
		handler.ListOrders().ServeHTTP(rr, adminRequest(t, http.MethodGet, "/api/v1/orders?cashierId=abc", nil, nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
