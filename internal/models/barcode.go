package models

import "github.com/shopspring/decimal"

type EncodeBarcodeRequest struct {
	PLU      string          `json:"plu" validate:"required,plu"`
	WeightKg decimal.Decimal `json:"weightKg" validate:"decimal_gt0"`
}

type EncodeBarcodeResponse struct {
	Code     string          `json:"code"`
	PLU      string          `json:"plu"`
	WeightKg decimal.Decimal `json:"weightKg"`
}
