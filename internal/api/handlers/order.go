package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/pos-inventory/internal/api/middleware"
	"github.com/aaravmahajanofficial/pos-inventory/internal/errors"
	"github.com/aaravmahajanofficial/pos-inventory/internal/models"
	service "github.com/aaravmahajanofficial/pos-inventory/internal/services"
	"github.com/aaravmahajanofficial/pos-inventory/internal/utils"
	"github.com/aaravmahajanofficial/pos-inventory/internal/utils/response"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type OrderHandler struct {
	orderService service.OrderService
	validator    *validator.Validate
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService, validator: utils.NewValidator()}
}

// CreateOrder godoc
//
//	@Summary		Settle a sale
//	@Description	Prices the basket from the catalogue, records order, lines and payment, and decrements stock in one transaction. The cashier is taken from the token.
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Param			order	body		models.CreateOrderRequest	true	"Basket and payment"
//	@Success		201		{object}	models.Order				"Settled order"
//	@Failure		400		{object}	response.ErrorResponse		"Validation error, totals mismatch or insufficient payment"
//	@Failure		401		{object}	response.ErrorResponse		"Authentication required"
//	@Failure		404		{object}	response.ErrorResponse		"Product not found"
//	@Failure		409		{object}	response.ErrorResponse		"Insufficient stock"
//	@Failure		500		{object}	response.ErrorResponse		"Internal server error"
//	@Security		BearerAuth
//	@Router			/orders [post]
func (h *OrderHandler) CreateOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized order creation attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}
		logger = logger.With(slog.String("cashierId", claims.CashierID.String()))

		var req models.CreateOrderRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid create order input")
			return
		}

		order, err := h.orderService.CreateOrder(r.Context(), claims.CashierID, &req)
		if err != nil {
			logger.Error("Failed to create order", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusCreated, order)
	}
}

// GetOrder godoc
//
//	@Summary		Get an order
//	@Description	Cashiers can read their own orders; admins can read any order.
//	@Tags			Orders
//	@Produce		json
//	@Param			id	path		string					true	"Order ID (UUID)"	Format(uuid)
//	@Success		200	{object}	models.Order			"Order with lines and payments"
//	@Failure		400	{object}	response.ErrorResponse	"Invalid order ID format"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		403	{object}	response.ErrorResponse	"Order belongs to another cashier"
//	@Failure		404	{object}	response.ErrorResponse	"Order not found"
//	@Security		BearerAuth
//	@Router			/orders/{id} [get]
func (h *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized order access attempt: missing claims")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid order id", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		order, err := h.orderService.GetOrderByID(r.Context(), id)
		if err != nil {
			logger.Warn("Failed to get order", slog.String("orderId", id.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		if claims.Role != models.RoleAdmin && order.CashierID != claims.CashierID {
			logger.Warn("Attempted to access another cashier's order",
				slog.String("requesterId", claims.CashierID.String()),
				slog.String("ownerId", order.CashierID.String()))
			response.Error(w, errors.ForbiddenError("You don't have permission to access this order"))
			return
		}

		response.Success(w, http.StatusOK, order)
	}
}

// ListOrders godoc
//
//	@Summary		List orders
//	@Description	Cashiers see their own orders. Admins see all orders, optionally filtered by cashierId.
//	@Tags			Orders
//	@Produce		json
//	@Param			page		query		int												false	"Page number (default: 1)"					minimum(1)
//	@Param			pageSize	query		int												false	"Items per page (default: 10, max: 100)"	minimum(1)	maximum(100)
//	@Param			cashierId	query		string											false	"Cashier filter (admins only)"				Format(uuid)
//	@Success		200			{object}	models.PaginatedResponse{Data=[]models.Order}	"Orders, newest first"
//	@Failure		400			{object}	response.ErrorResponse							"Invalid cashier ID format"
//	@Failure		401			{object}	response.ErrorResponse							"Authentication required"
//	@Security		BearerAuth
//	@Router			/orders [get]
func (h *OrderHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized order list attempt: missing claims")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		filter := uuid.NullUUID{UUID: claims.CashierID, Valid: true}

		if claims.Role == models.RoleAdmin {
			filter = uuid.NullUUID{}

			if raw := r.URL.Query().Get("cashierId"); raw != "" {
				id, err := uuid.Parse(raw)
				if err != nil {
					response.Error(w, errors.BadRequestError("Invalid cashierId format").WithError(err))
					return
				}
				filter = uuid.NullUUID{UUID: id, Valid: true}
			}
		}

		page, pageSize := utils.ParsePagination(r)

		orders, total, err := h.orderService.ListOrders(r.Context(), filter, page, pageSize)
		if err != nil {
			logger.Error("Failed to list orders", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, models.NewPage(orders, total, page, pageSize))
	}
}
