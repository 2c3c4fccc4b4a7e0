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

type ReportHandler struct {
	reportService service.ReportService
	validator     *validator.Validate
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService, validator: utils.NewValidator()}
}

// SalesReport godoc
//
//	@Summary		Sales and profit report
//	@Description	Aggregates completed orders between two UTC dates, inclusive. Requires an admin token.
//	@Tags			Reports
//	@Produce		json
//	@Param			from	query		string					true	"First day (YYYY-MM-DD)"
//	@Param			to		query		string					true	"Last day (YYYY-MM-DD)"
//	@Success		200		{object}	models.SalesReport		"Report"
//	@Failure		400		{object}	response.ErrorResponse	"Invalid date range"
//	@Failure		403		{object}	response.ErrorResponse	"Admin role required"
//	@Security		BearerAuth
//	@Router			/reports/sales [get]
func (h *ReportHandler) SalesReport() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())
		from, to := r.URL.Query().Get("from"), r.URL.Query().Get("to")

		report, err := h.reportService.GenerateSalesReport(r.Context(), from, to)
		if err != nil {
			logger.Warn("Failed to generate sales report", slog.String("from", from), slog.String("to", to), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, report)
	}
}

// EmailSalesReport godoc
//
//	@Summary		Email a sales report
//	@Description	Generates the report for the range and sends it through SendGrid. Requires an admin token.
//	@Tags			Reports
//	@Accept			json
//	@Produce		json
//	@Param			request	body		models.EmailReportRequest	true	"Range and recipients"
//	@Success		200		{object}	models.SalesReport			"Report that was sent"
//	@Failure		400		{object}	response.ErrorResponse		"Validation error"
//	@Failure		500		{object}	response.ErrorResponse		"Email delivery failed"
//	@Security		BearerAuth
//	@Router			/reports/sales/email [post]
func (h *ReportHandler) EmailSalesReport() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.EmailReportRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid email report input")
			return
		}

		report, err := h.reportService.EmailSalesReport(r.Context(), &req)
		if err != nil {
			logger.Error("Failed to email sales report", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, report)
	}
}
