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
)

type CashierHandler struct {
	cashierService service.CashierService
	validator      *validator.Validate
}

func NewCashierHandler(cashierService service.CashierService) *CashierHandler {
	return &CashierHandler{cashierService: cashierService, validator: utils.NewValidator()}
}

// Register godoc
//
//	@Summary		Register a cashier
//	@Description	Creates a till login. Role defaults to CASHIER. Requires an admin token.
//	@Tags			Cashiers
//	@Accept			json
//	@Produce		json
//	@Param			cashier	body		models.RegisterRequest	true	"Cashier details"
//	@Success		201		{object}	models.Cashier			"Cashier created"
//	@Failure		400		{object}	response.ErrorResponse	"Validation error"
//	@Failure		409		{object}	response.ErrorResponse	"Username already registered"
//	@Failure		500		{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/cashiers/register [post]
func (h *CashierHandler) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.RegisterRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid registration input")
			return
		}

		cashier, err := h.cashierService.Register(r.Context(), &req)
		if err != nil {
			logger.Error("Cashier registration failed", slog.String("username", req.Username), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Cashier registered", slog.String("cashierId", cashier.ID.String()))
		response.Success(w, http.StatusCreated, cashier)
	}
}

// Login godoc
//
//	@Summary		Log in a cashier
//	@Description	Checks credentials and issues a JWT. Repeated failures are rate limited per username.
//	@Tags			Cashiers
//	@Accept			json
//	@Produce		json
//	@Param			credentials	body		models.LoginRequest		true	"Username and password"
//	@Success		200			{object}	models.LoginResponse	"Token issued"
//	@Failure		401			{object}	models.LoginResponse	"Invalid credentials"
//	@Failure		429			{object}	models.LoginResponse	"Too many attempts"
//	@Failure		500			{object}	response.ErrorResponse	"Internal server error"
//	@Router			/cashiers/login [post]
func (h *CashierHandler) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.LoginRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid login input")
			return
		}

		resp, err := h.cashierService.Login(r.Context(), &req)
		if err != nil {
			logger.Error("Login failed", slog.String("username", req.Username), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		if !resp.Success {
			status := http.StatusUnauthorized
			if resp.RetryAfter > 0 {
				status = http.StatusTooManyRequests
			}

			logger.Warn("Login rejected", slog.String("username", req.Username), slog.Int("status", status))
			response.WriteJson(w, status, resp)
			return
		}

		logger.Info("Cashier logged in", slog.String("username", req.Username))
		response.WriteJson(w, http.StatusOK, resp)
	}
}

// Profile godoc
//
//	@Summary		Current cashier
//	@Description	Returns the cashier the token was issued to.
//	@Tags			Cashiers
//	@Produce		json
//	@Success		200	{object}	models.Cashier			"Cashier profile"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		404	{object}	response.ErrorResponse	"Cashier not found"
//	@Security		BearerAuth
//	@Router			/cashiers/me [get]
func (h *CashierHandler) Profile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized profile access attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		cashier, err := h.cashierService.GetCashierByID(r.Context(), claims.CashierID)
		if err != nil {
			logger.Warn("Cashier profile not available", slog.String("cashierId", claims.CashierID.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cashier)
	}
}
