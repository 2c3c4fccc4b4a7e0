package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type LineKind string

const (
	LineKindUnit    LineKind = "unit"
	LineKindWeighed LineKind = "weighed"
)

// OrderLine is the settled snapshot of a cart line.
//
// Unit lines store the integer quantity with per-unit price and cost.
// Weighed lines store Quantity 1 with Price and Cost already multiplied by
// the measured quantity, so Price*Quantity always equals the line amount.
type OrderLine struct {
	ID               uuid.UUID       `json:"id"`
	OrderID          uuid.UUID       `json:"orderId"`
	ProductID        uuid.UUID       `json:"productId"`
	Kind             LineKind        `json:"kind"`
	Quantity         int64           `json:"quantity"`
	Price            decimal.Decimal `json:"price"`
	Cost             decimal.Decimal `json:"cost"`
	MeasuredQuantity decimal.Decimal `json:"measuredQuantity"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// Amount is the line total charged to the customer.
func (l OrderLine) Amount() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(l.Quantity))
}

// Profit is (price - cost) * quantity.
func (l OrderLine) Profit() decimal.Decimal {
	return l.Price.Sub(l.Cost).Mul(decimal.NewFromInt(l.Quantity))
}

type Order struct {
	ID            uuid.UUID       `json:"id"`
	CashierID     uuid.UUID       `json:"cashierId"`
	SubTotal      decimal.Decimal `json:"subTotal"`
	Tax           decimal.Decimal `json:"tax"`
	Discount      decimal.Decimal `json:"discount"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	Status        OrderStatus     `json:"status"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	Lines         []OrderLine     `json:"lines"`
	Payments      []Payment       `json:"payments"`
	CreatedAt     time.Time       `json:"createdAt"`
}

type CreateOrderRequest struct {
	Items         []CartLine      `json:"items" validate:"required,min=1,max=500,dive"`
	PaymentMethod PaymentMethod   `json:"paymentMethod" validate:"required,oneof=CASH CARD QR_CODE OTHER"`
	Tax           decimal.Decimal `json:"tax" validate:"decimal_gte0,decimal_scale=2"`
	Discount      decimal.Decimal `json:"discount" validate:"decimal_gte0,decimal_scale=2"`

	// Optional client-side totals, checked against the server computation.
	SubTotal       *decimal.Decimal `json:"subTotal,omitempty" validate:"omitempty,decimal_gte0"`
	TotalAmount    *decimal.Decimal `json:"totalAmount,omitempty" validate:"omitempty,decimal_gte0"`
	AmountTendered *decimal.Decimal `json:"amountTendered,omitempty" validate:"omitempty,decimal_gte0"`
}

// StockAdjustment is the stock delta applied for one settled line.
type StockAdjustment struct {
	ProductID uuid.UUID
	Quantity  int64
}
