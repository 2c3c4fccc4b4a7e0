package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Bounds on a cart line. A weighed line amount is UnitPrice * Quantity, so
// it has at most LineAmountScale decimal places, which the order columns hold.
const (
	QuantityScale   = 3
	UnitPriceScale  = 2
	LineAmountScale = QuantityScale + UnitPriceScale
	MaxLineQuantity = 100000
)

// CartLine is one line of the basket sent by the till. Quantity is fractional
// for weighed goods, to the gram.
type CartLine struct {
	ProductID uuid.UUID       `json:"productId" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity" validate:"decimal_gt0,decimal_scale=3,decimal_lte=100000"`
	UnitPrice decimal.Decimal `json:"unitPrice" validate:"decimal_gte0,decimal_scale=2"`
}
