package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Product struct {
	ID          uuid.UUID       `json:"id"`
	CategoryID  uuid.NullUUID   `json:"categoryId"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Barcode     *string         `json:"barcode,omitempty"`
	ScalePLU    *string         `json:"scalePlu,omitempty"`
	IsWeighed   bool            `json:"isWeighed"`
	Unit        ProductUnit     `json:"unit"`
	Price       decimal.Decimal `json:"price"`
	CostPrice   decimal.Decimal `json:"costPrice"`
	Stock       int64           `json:"stock"`
	Status      ProductStatus   `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	Category    *Category       `json:"category,omitempty"`
}

// PriceHistoryRecord is one row of a product's price ledger. The active
// record is the one with a nil ValidTo.
type PriceHistoryRecord struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"productId"`
	Price     decimal.Decimal `json:"price"`
	CostPrice decimal.Decimal `json:"costPrice"`
	ValidFrom time.Time       `json:"validFrom"`
	ValidTo   *time.Time      `json:"validTo,omitempty"`
}

type CreateProductRequest struct {
	CategoryID  *uuid.UUID      `json:"categoryId,omitempty"`
	Name        string          `json:"name" validate:"required,min=2,max=200"`
	Description string          `json:"description,omitempty" validate:"max=2000"`
	Barcode     *string         `json:"barcode,omitempty" validate:"omitempty,numeric,min=8,max=14"`
	ScalePLU    *string         `json:"scalePlu,omitempty" validate:"omitempty,plu"`
	IsWeighed   bool            `json:"isWeighed"`
	Unit        ProductUnit     `json:"unit" validate:"required,oneof=piece kg g l ml"`
	Price       decimal.Decimal `json:"price" validate:"decimal_gt0"`
	CostPrice   decimal.Decimal `json:"costPrice" validate:"decimal_gte0"`
	Stock       int64           `json:"stock" validate:"gte=0"`
}

type UpdateProductRequest struct {
	CategoryID  *uuid.UUID       `json:"categoryId,omitempty"`
	Name        *string          `json:"name,omitempty" validate:"omitempty,min=2,max=200"`
	Description *string          `json:"description,omitempty" validate:"omitempty,max=2000"`
	Barcode     *string          `json:"barcode,omitempty" validate:"omitempty,numeric,min=8,max=14"`
	ScalePLU    *string          `json:"scalePlu,omitempty" validate:"omitempty,plu"`
	IsWeighed   *bool            `json:"isWeighed,omitempty"`
	Unit        *ProductUnit     `json:"unit,omitempty" validate:"omitempty,oneof=piece kg g l ml"`
	Price       *decimal.Decimal `json:"price,omitempty" validate:"omitempty,decimal_gt0"`
	CostPrice   *decimal.Decimal `json:"costPrice,omitempty" validate:"omitempty,decimal_gte0"`
	Stock       *int64           `json:"stock,omitempty" validate:"omitempty,gte=0"`
	Status      *ProductStatus   `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

type BatchCreateProductsRequest struct {
	Products []CreateProductRequest `json:"products" validate:"required,min=1,max=500,dive"`
}

type BatchItemStatus string

const (
	BatchItemCreated BatchItemStatus = "created"
	BatchItemSkipped BatchItemStatus = "skipped"
	BatchItemFailed  BatchItemStatus = "failed"
)

type BatchProductResult struct {
	Index     int             `json:"index"`
	Name      string          `json:"name"`
	Status    BatchItemStatus `json:"status"`
	ProductID *uuid.UUID      `json:"productId,omitempty"`
	Reason    string          `json:"reason,omitempty"`
}

type BatchCreateProductsResponse struct {
	Created int                  `json:"created"`
	Skipped int                  `json:"skipped"`
	Failed  int                  `json:"failed"`
	Results []BatchProductResult `json:"results"`
}

type CategoryInput struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description,omitempty" validate:"max=500"`
}

type CreateCategoriesRequest struct {
	Categories []CategoryInput `json:"categories" validate:"required,min=1,max=200,dive"`
}

type CreateCategoriesResponse struct {
	Created []*Category `json:"created"`
	Skipped []string    `json:"skipped"`
}

// ScanResult joins a decoded barcode with the catalogue. For weighted codes
// LineTotal is the product price times the embedded weight.
type ScanResult struct {
	Product   *Product        `json:"product"`
	Quantity  decimal.Decimal `json:"quantity"`
	LineTotal decimal.Decimal `json:"lineTotal"`
	Weighted  bool            `json:"weighted"`
	Code      string          `json:"code"`
}
