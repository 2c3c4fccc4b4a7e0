package service

import (
	"context"
	stdErrors "errors"
	"log/slog"
	"strings"

	"github.com/aaravmahajanofficial/pos-inventory/internal/api/middleware"
	"github.com/aaravmahajanofficial/pos-inventory/internal/barcode"
	"github.com/aaravmahajanofficial/pos-inventory/internal/errors"
	"github.com/aaravmahajanofficial/pos-inventory/internal/models"
)

type BarcodeService interface {
	Encode(ctx context.Context, req *models.EncodeBarcodeRequest) (*models.EncodeBarcodeResponse, error)
	Decode(ctx context.Context, code string) barcode.ParsedBarcode
}

type barcodeService struct{}

func NewBarcodeService() BarcodeService {
	return &barcodeService{}
}

// Encode prints the code a scale would emit for the PLU and weight.
func (s *barcodeService) Encode(ctx context.Context, req *models.EncodeBarcodeRequest) (*models.EncodeBarcodeResponse, error) {

	code, err := barcode.Encode(strings.TrimSpace(req.PLU), req.WeightKg)
	if err != nil {
		switch {
		case stdErrors.Is(err, barcode.ErrInvalidPLU):
			return nil, errors.AddValidationError("plu", barcode.ErrInvalidPLU.Error()).WithError(err)
		case stdErrors.Is(err, barcode.ErrWeightOutOfRange):
			return nil, errors.AddValidationError("weightKg", barcode.ErrWeightOutOfRange.Error()).WithError(err)
		}
		return nil, errors.InternalError("Failed to encode barcode").WithError(err)
	}

	parsed := barcode.Decode(code)

	middleware.LoggerFromContext(ctx).Debug("Weighted barcode encoded",
		slog.String("code", code),
		slog.String("plu", parsed.ScalePLU),
	)

	return &models.EncodeBarcodeResponse{
		Code:     code,
		PLU:      parsed.ScalePLU,
		WeightKg: *parsed.WeightKg,
	}, nil
}

// Decode never fails; codes outside the weighted layout come back unweighted.
func (s *barcodeService) Decode(ctx context.Context, code string) barcode.ParsedBarcode {
	return barcode.Decode(strings.TrimSpace(code))
}
