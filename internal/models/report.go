package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesLine is one settled line of a completed order, joined with its order
// header. Reports are aggregated from these rows.
type SalesLine struct {
	OrderID    uuid.UUID
	OrderTotal decimal.Decimal
	OrderedAt  time.Time
	Quantity   int64
	Price      decimal.Decimal
	Cost       decimal.Decimal
}

type DailySales struct {
	Date   string          `json:"date"`
	Sales  decimal.Decimal `json:"sales"`
	Profit decimal.Decimal `json:"profit"`
	Orders int             `json:"orders"`
}

type SalesReport struct {
	From        time.Time       `json:"from"`
	To          time.Time       `json:"to"`
	TotalSales  decimal.Decimal `json:"totalSales"`
	TotalProfit decimal.Decimal `json:"totalProfit"`
	OrderCount  int             `json:"orderCount"`
	Daily       []DailySales    `json:"daily"`
}

type EmailReportRequest struct {
	From      string   `json:"from" validate:"required,datetime=2006-01-02"`
	To        string   `json:"to" validate:"required,datetime=2006-01-02"`
	Recipient string   `json:"recipient" validate:"required,email"`
	CC        []string `json:"cc,omitempty" validate:"omitempty,dive,email"`
}
