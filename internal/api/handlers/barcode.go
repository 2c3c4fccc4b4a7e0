package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/pos-inventory/internal/api/middleware"
	"github.com/aaravmahajanofficial/pos-inventory/internal/models"
	service "github.com/aaravmahajanofficial/pos-inventory/internal/services"
	"github.com/aaravmahajanofficial/pos-inventory/internal/utils"
	"github.com/aaravmahajanofficial/pos-inventory/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type BarcodeHandler struct {
	barcodeService service.BarcodeService
	validator      *validator.Validate
}

func NewBarcodeHandler(barcodeService service.BarcodeService) *BarcodeHandler {
	return &BarcodeHandler{barcodeService: barcodeService, validator: utils.NewValidator()}
}

// DecodeBarcode godoc
//
//	@Summary		Decode a scanned code
//	@Description	Splits a weighted code into scale PLU and weight. Any other input decodes as not weighted.
//	@Tags			Barcodes
//	@Produce		json
//	@Param			code	path		string					true	"Scanned code"
//	@Success		200		{object}	barcode.ParsedBarcode	"Decoded code"
//	@Failure		401		{object}	response.ErrorResponse	"Authentication required"
//	@Security		BearerAuth
//	@Router			/barcodes/{code} [get]
func (h *BarcodeHandler) DecodeBarcode() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		parsed := h.barcodeService.Decode(r.Context(), r.PathValue("code"))

		response.Success(w, http.StatusOK, parsed)
	}
}

// EncodeWeighted godoc
//
//	@Summary		Print a weighted code
//	@Description	Builds the 13 digit code a scale would print for a PLU and weight.
//	@Tags			Barcodes
//	@Accept			json
//	@Produce		json
//	@Param			request	body		models.EncodeBarcodeRequest		true	"PLU and weight in kg"
//	@Success		201		{object}	models.EncodeBarcodeResponse	"Encoded code"
//	@Failure		400		{object}	response.ErrorResponse			"Invalid PLU or weight out of range"
//	@Failure		401		{object}	response.ErrorResponse			"Authentication required"
//	@Security		BearerAuth
//	@Router			/barcodes/weighted [post]
func (h *BarcodeHandler) EncodeWeighted() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.EncodeBarcodeRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid encode barcode input")
			return
		}

		resp, err := h.barcodeService.Encode(r.Context(), &req)
		if err != nil {
			logger.Warn("Failed to encode barcode", slog.String("plu", req.PLU), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusCreated, resp)
	}
}
