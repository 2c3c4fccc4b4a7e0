package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aaravmahajanofficial/pos-inventory/internal/api/handlers"
	appErrors "github.com/aaravmahajanofficial/pos-inventory/internal/errors"
	"github.com/aaravmahajanofficial/pos-inventory/internal/models"
	"github.com/aaravmahajanofficial/pos-inventory/internal/services/mocks"
	"github.com/aaravmahajanofficial/pos-inventory/internal/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCashierHandler_Register(t *testing.T) {
	t.Run("Success - Cashier created", func(t *testing.T) {
		// Arrange
		cashierService := mocks.NewCashierService(t)
		handler := handlers.NewCashierHandler(cashierService)
		body := models.RegisterRequest{Name: "Till One", Username: "till1", Password: "secret1"}
		created := &models.Cashier{ID: uuid.New(), Name: body.Name, Username: body.Username, Role: models.RoleCashier}

		cashierService.On("Register", mock.Anything, mock.MatchedBy(func(r *models.RegisterRequest) bool {
			return r.Username == "till1" && r.Password == "secret1"
		})).Return(created, nil).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/cashiers/register", testutils.JSONBody(t, body), nil)
		rr := httptest.NewRecorder()

		// Act
		handler.Register().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusCreated, rr.Code)
		var cashier models.Cashier
		resp := testutils.DecodeResponse(t, rr, &cashier)
		assert.True(t, resp.Success)
		assert.Equal(t, created.ID, cashier.ID)
		assert.NotContains(t, rr.Body.String(), "password")
	})

	t.Run("Failure - Validation", func(t *testing.T) {
		cashierService := mocks.NewCashierService(t)
		handler := handlers.NewCashierHandler(cashierService)
		body := models.RegisterRequest{Name: "Till One", Username: "t!", Password: "123"}

		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/cashiers/register", testutils.JSONBody(t, body), nil)
		rr := httptest.NewRecorder()

		handler.Register().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		resp := testutils.DecodeResponse(t, rr, nil)
		require.NotNil(t, resp.Error)
		assert.Equal(t, appErrors.ErrCodeValidation, resp.Error.Code)
	})

	t.Run("Failure - Duplicate username", func(t *testing.T) {
		cashierService := mocks.NewCashierService(t)
		handler := handlers.NewCashierHandler(cashierService)
		body := models.RegisterRequest{Name: "Till One", Username: "till1", Password: "secret1"}
		cashierService.On("Register", mock.Anything, mock.Anything).
			Return(nil, appErrors.DuplicateEntryError("Username already registered")).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/cashiers/register", testutils.JSONBody(t, body), nil)
		rr := httptest.NewRecorder()

		handler.Register().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})
}

func TestCashierHandler_Login(t *testing.T) {
	body := models.LoginRequest{Username: "till1", Password: "secret1"}

	cases := []struct {
		name       string
		resp       *models.LoginResponse
		err        error
		wantStatus int
	}{
		{"Success - Token issued", &models.LoginResponse{Success: true, Token: "jwt", ExpiresIn: 3600}, nil, http.StatusOK},
		{"Failure - Bad credentials", &models.LoginResponse{Success: false, RemainingTries: 2}, nil, http.StatusUnauthorized},
		{"Failure - Rate limited", &models.LoginResponse{Success: false, RetryAfter: 30}, nil, http.StatusTooManyRequests},
		{"Failure - Limiter unavailable", nil, appErrors.ThirdPartyError("Rate limit check failed"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			cashierService := mocks.NewCashierService(t)
			handler := handlers.NewCashierHandler(cashierService)
			cashierService.On("Login", mock.Anything, &body).Return(tc.resp, tc.err).Once()

			req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/cashiers/login", testutils.JSONBody(t, body), nil)
			rr := httptest.NewRecorder()

			// Act
			handler.Login().ServeHTTP(rr, req)

			// Assert
			assert.Equal(t, tc.wantStatus, rr.Code)

			if tc.resp != nil {
				var got models.LoginResponse
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
				assert.Equal(t, *tc.resp, got)
			}
		})
	}

	t.Run("Failure - Malformed body", func(t *testing.T) {
		cashierService := mocks.NewCashierService(t)
		handler := handlers.NewCashierHandler(cashierService)

		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/cashiers/login", strings.NewReader("{"), nil)
		rr := httptest.NewRecorder()

		handler.Login().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestCashierHandler_Profile(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		cashierService := mocks.NewCashierService(t)
		handler := handlers.NewCashierHandler(cashierService)
		cashierID := uuid.New()
		cashierService.On("GetCashierByID", mock.Anything, cashierID).
			Return(&models.Cashier{ID: cashierID, Username: "till1"}, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/cashiers/me", nil, cashierID, models.RoleCashier, nil)
		rr := httptest.NewRecorder()

		handler.Profile().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var cashier models.Cashier
		testutils.DecodeResponse(t, rr, &cashier)
		assert.Equal(t, cashierID, cashier.ID)
	})

	t.Run("Failure - No claims", func(t *testing.T) {
		cashierService := mocks.NewCashierService(t)
		handler := handlers.NewCashierHandler(cashierService)

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/cashiers/me", nil, nil)
		rr := httptest.NewRecorder()

		handler.Profile().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
