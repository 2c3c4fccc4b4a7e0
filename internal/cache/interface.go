package cache

import (
	"context"
	"time"

	"github.com/aaravmahajanofficial/pos-inventory/internal/models"
)

// Cache stores JSON encoded values. A ttl <= 0 falls back to the configured default.
type Cache interface {
	Get(ctx context.Context, key string, value any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

func Key(prefix string, id string) string {
	return prefix + ":" + id
}

const (
	ProductKeyPrefix        = "product"
	ProductPLUKeyPrefix     = "product:plu"
	ProductBarcodeKeyPrefix = "product:barcode"
	CategoryListKey         = "categories:all"
)

// ProductKeys lists every key a product can be cached under.
func ProductKeys(p *models.Product) []string {
	keys := []string{Key(ProductKeyPrefix, p.ID.String())}

	if p.ScalePLU != nil {
		keys = append(keys, Key(ProductPLUKeyPrefix, *p.ScalePLU))
	}
	if p.Barcode != nil {
		keys = append(keys, Key(ProductBarcodeKeyPrefix, *p.Barcode))
	}

	return keys
}
