package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Cashier struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// for registration
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Username string `json:"username" validate:"required,alphanum,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6"`
	Role     Role   `json:"role,omitempty" validate:"omitempty,oneof=ADMIN CASHIER"`
}

// for login
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// for login response
type LoginResponse struct {
	Success        bool   `json:"success"`
	Token          string `json:"token,omitempty"`
	ExpiresIn      int    `json:"expiresIn,omitempty"`
	RemainingTries int    `json:"remainingTries,omitempty"`
	RetryAfter     int    `json:"retryAfter,omitempty"`
	Message        string `json:"message,omitempty"`
}

// JWT claims structure
type Claims struct {
	CashierID uuid.UUID `json:"cashierId"`
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	jwt.RegisteredClaims
}
