package utils_test

import (
	"testing"

	"github.com/aaravmahajanofficial/pos-inventory/internal/models"
	"github.com/aaravmahajanofficial/pos-inventory/internal/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewValidator(t *testing.T) {
	v := utils.NewValidator()

	validLine := func() models.CartLine {
		return models.CartLine{
			ProductID: uuid.New(),
			Quantity:  decimal.RequireFromString("0.75"),
			UnitPrice: decimal.RequireFromString("4.20"),
		}
	}

	t.Run("Success - Fractional quantity", func(t *testing.T) {
		assert.NoError(t, v.Struct(validLine()))
	})

	t.Run("Failure - Zero quantity", func(t *testing.T) {
		line := validLine()
		line.Quantity = decimal.Zero
		assert.Error(t, v.Struct(line))
	})

	t.Run("Failure - Negative unit price", func(t *testing.T) {
		line := validLine()
		line.UnitPrice = decimal.NewFromInt(-1)
		assert.Error(t, v.Struct(line))
	})

	t.Run("Success - Zero unit price", func(t *testing.T) {
		line := validLine()
		line.UnitPrice = decimal.Zero
		assert.NoError(t, v.Struct(line))
	})

	t.Run("Scale and bound rules", func(t *testing.T) {
		tests := []struct {
			name      string
			quantity  string
			unitPrice string
			valid     bool
		}{
			{"gram weight", "0.333", "1.99", true},
			{"trailing zeros", "1.2500", "2.400", true},
			{"line limit", "100000", "1.00", true},
			{"finer than a gram", "0.3333", "1.99", false},
			{"finer than a cent", "1", "1.999", false},
			{"above line limit", "100000.001", "1.00", false},
			{"beyond int64", "9223372036854775808", "1.00", false},
		}

		for _, tc := range tests {
			line := validLine()
			line.Quantity = decimal.RequireFromString(tc.quantity)
			line.UnitPrice = decimal.RequireFromString(tc.unitPrice)
			err := v.Struct(line)
			if tc.valid {
				assert.NoError(t, err, tc.name)
			} else {
				assert.Error(t, err, tc.name)
			}
		}
	})

	t.Run("Failure - Missing product", func(t *testing.T) {
		line := validLine()
		line.ProductID = uuid.Nil
		assert.Error(t, v.Struct(line))
	})

	t.Run("PLU rule", func(t *testing.T) {
		tests := []struct {
			plu   string
			valid bool
		}{
			{"502", true},
			{"12345", true},
			{"123456", false},
			{"12a", false},
		}

		for _, tc := range tests {
			req := models.EncodeBarcodeRequest{PLU: tc.plu, WeightKg: decimal.RequireFromString("1.25")}
			err := v.Struct(req)
			if tc.valid {
				assert.NoError(t, err, tc.plu)
			} else {
				assert.Error(t, err, tc.plu)
			}
		}
	})

	t.Run("Optional pointer decimals", func(t *testing.T) {
		negative := decimal.NewFromInt(-5)
		req := models.UpdateProductRequest{}
		assert.NoError(t, v.Struct(req))

		req.Price = &negative
		assert.Error(t, v.Struct(req))
	})
}

func TestFitsScale(t *testing.T) {
	assert.True(t, utils.FitsScale(decimal.RequireFromString("0.66267"), 5))
	assert.True(t, utils.FitsScale(decimal.RequireFromString("1.2500"), 2))
	assert.False(t, utils.FitsScale(decimal.RequireFromString("0.663267"), 5))
	assert.True(t, utils.FitsScale(decimal.NewFromInt(3), 0))
}

func TestSanitizeText(t *testing.T) {
	assert.Equal(t, "Bananas", utils.SanitizeText("  <b>Bananas</b> "))
	assert.Equal(t, "Salt & Pepper", utils.SanitizeText("Salt & Pepper"))
	assert.Equal(t, "", utils.SanitizeText("<script>alert(1)</script>"))
}
