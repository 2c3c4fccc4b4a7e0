package models

type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

type ProductUnit string

const (
	UnitPiece      ProductUnit = "piece"
	UnitKilogram   ProductUnit = "kg"
	UnitGram       ProductUnit = "g"
	UnitLitre      ProductUnit = "l"
	UnitMillilitre ProductUnit = "ml"
)

type OrderStatus string

const (
	OrderStatusCompleted OrderStatus = "COMPLETED"
)

type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "CASH"
	PaymentMethodCard   PaymentMethod = "CARD"
	PaymentMethodQRCode PaymentMethod = "QR_CODE"
	PaymentMethodOther  PaymentMethod = "OTHER"
)

type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleCashier Role = "CASHIER"
)
