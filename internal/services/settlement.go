package service

import (
	"github.com/aaravmahajanofficial/pos-inventory/internal/models"
	"github.com/shopspring/decimal"
)

// SettleLine snapshots a cart line against the product's current cost.
//
// A fractional quantity becomes a weighed line: quantity 1, with price and
// cost already multiplied by the measured quantity. An integer quantity
// becomes a unit line carrying per unit price and cost. In both cases
// Price * Quantity equals UnitPrice * line.Quantity.
//
// The line's UnitPrice is used as sent by the till, not re-read from the product.
func SettleLine(line models.CartLine, product *models.Product) models.OrderLine {

	settled := models.OrderLine{
		ProductID:        line.ProductID,
		MeasuredQuantity: line.Quantity,
	}

	if IsFractional(line.Quantity) {
		settled.Kind = models.LineKindWeighed
		settled.Quantity = 1
		settled.Price = line.UnitPrice.Mul(line.Quantity)
		settled.Cost = product.CostPrice.Mul(line.Quantity)
		return settled
	}

	settled.Kind = models.LineKindUnit
	settled.Quantity = line.Quantity.IntPart()
	settled.Price = line.UnitPrice
	settled.Cost = product.CostPrice

	return settled
}

// StockDecrement is the number of stock units a line consumes. Fractional
// quantities round up, so 0.3 kg of a product consumes one unit.
func StockDecrement(quantity decimal.Decimal) int64 {
	return quantity.Ceil().IntPart()
}

func IsFractional(q decimal.Decimal) bool {
	return !q.Equal(q.Truncate(0))
}
