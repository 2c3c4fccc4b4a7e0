package service

import (
	"context"
	stdErrors "errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aaravmahajanofficial/pos-inventory/internal/api/middleware"
	"github.com/aaravmahajanofficial/pos-inventory/internal/errors"
	"github.com/aaravmahajanofficial/pos-inventory/internal/models"
	repository "github.com/aaravmahajanofficial/pos-inventory/internal/repositories"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type CashierService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.Cashier, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	GetCashierByID(ctx context.Context, id uuid.UUID) (*models.Cashier, error)
}

type cashierService struct {
	repo        repository.CashierRepository
	rateLimiter repository.RateLimitRepository
	jwtKey      []byte
	tokenTTL    time.Duration
}

func NewCashierService(repo repository.CashierRepository, rateLimiter repository.RateLimitRepository, jwtKey []byte, tokenTTL time.Duration) CashierService {
	return &cashierService{
		repo:        repo,
		rateLimiter: rateLimiter,
		jwtKey:      jwtKey,
		tokenTTL:    tokenTTL,
	}
}

func (s *cashierService) Register(ctx context.Context, req *models.RegisterRequest) (*models.Cashier, error) {

	// Hash the password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.InternalError("Failed to secure password").WithError(err)
	}

	role := req.Role
	if role == "" {
		role = models.RoleCashier
	}

	cashier := &models.Cashier{
		Name:     strings.TrimSpace(req.Name),
		Username: strings.ToLower(strings.TrimSpace(req.Username)),
		Role:     role,
		Password: string(hashedPassword),
	}

	if err := s.repo.CreateCashier(ctx, cashier); err != nil {
		if stdErrors.Is(err, errors.ErrDuplicateEntry) {
			return nil, errors.DuplicateEntryError("Username already registered").WithError(err)
		}
		return nil, errors.DatabaseError("Failed to create cashier").WithError(err)
	}

	middleware.LoggerFromContext(ctx).Info("Cashier registered",
		slog.String("cashierId", cashier.ID.String()),
		slog.String("role", string(cashier.Role)),
	)

	return cashier, nil
}

func (s *cashierService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {

	logger := middleware.LoggerFromContext(ctx)
	username := strings.ToLower(strings.TrimSpace(req.Username))

	// check rate limit
	limit, err := s.rateLimiter.CheckLoginRateLimit(ctx, username)
	if err != nil {
		return nil, errors.ThirdPartyError("Rate limit check failed").WithError(err)
	}

	if !limit.Allowed {
		logger.Warn("Login rate limit exceeded", slog.String("username", username))
		return &models.LoginResponse{
			Success:    false,
			Message:    "Too many login attempts. Please try again later.",
			RetryAfter: limit.RetryAfter,
		}, nil
	}

	// Retrieve the cashier and compare the passwords
	cashier, err := s.repo.GetCashierByUsername(ctx, username)
	if err != nil && !stdErrors.Is(err, errors.ErrNotFound) {
		return nil, errors.DatabaseError("Failed to fetch cashier").WithError(err)
	}

	if cashier == nil || bcrypt.CompareHashAndPassword([]byte(cashier.Password), []byte(req.Password)) != nil {
		return &models.LoginResponse{
			Success:        false,
			Message:        "Invalid username or password",
			RemainingTries: limit.Remaining,
		}, nil
	}

	if err := s.rateLimiter.ResetLoginAttempts(ctx, username); err != nil {
		logger.Warn("Failed to reset login attempts", slog.String("username", username), slog.Any("error", err))
	}

	now := time.Now()
	claims := &models.Claims{
		CashierID: cashier.ID,
		Username:  cashier.Username,
		Role:      cashier.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   cashier.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	// Generate Token
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtKey)
	if err != nil {
		return nil, errors.InternalError("Failed to generate authentication token").WithError(err)
	}

	return &models.LoginResponse{
		Success:   true,
		Token:     tokenString,
		ExpiresIn: int(s.tokenTTL.Seconds()),
	}, nil
}

func (s *cashierService) GetCashierByID(ctx context.Context, id uuid.UUID) (*models.Cashier, error) {

	cashier, err := s.repo.GetCashierByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, errors.ErrNotFound) {
			return nil, errors.NotFoundError("Cashier not found").WithError(err)
		}
		return nil, errors.DatabaseError("Failed to fetch cashier").WithError(err)
	}

	return cashier, nil
}
