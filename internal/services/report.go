package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/aaravmahajanofficial/pos-inventory/internal/api/middleware"
	"github.com/aaravmahajanofficial/pos-inventory/internal/errors"
	"github.com/aaravmahajanofficial/pos-inventory/internal/models"
	repository "github.com/aaravmahajanofficial/pos-inventory/internal/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const reportDateLayout = "2006-01-02"

// EmailSender delivers a rendered message.
type EmailSender interface {
	Send(ctx context.Context, msg *models.EmailMessage) error
}

type ReportService interface {
	GenerateSalesReport(ctx context.Context, from, to string) (*models.SalesReport, error)
	EmailSalesReport(ctx context.Context, req *models.EmailReportRequest) (*models.SalesReport, error)
}

type reportService struct {
	orderRepo repository.OrderRepository
	sender    EmailSender
}

func NewReportService(orderRepo repository.OrderRepository, sender EmailSender) ReportService {
	return &reportService{orderRepo: orderRepo, sender: sender}
}

// GenerateSalesReport aggregates completed orders from the start of day from
// to the end of day to, both UTC dates in YYYY-MM-DD form.
func (s *reportService) GenerateSalesReport(ctx context.Context, from, to string) (*models.SalesReport, error) {

	start, end, err := reportRange(from, to)
	if err != nil {
		return nil, err
	}

	lines, err := s.orderRepo.ListSalesLines(ctx, start, end)
	if err != nil {
		return nil, errors.DatabaseError("Failed to load sales").WithError(err)
	}

	report := aggregateSales(lines)
	report.From = start
	report.To = end

	middleware.LoggerFromContext(ctx).Debug("Sales report generated",
		slog.String("from", from),
		slog.String("to", to),
		slog.Int("orders", report.OrderCount),
	)

	return report, nil
}

func (s *reportService) EmailSalesReport(ctx context.Context, req *models.EmailReportRequest) (*models.SalesReport, error) {

	logger := middleware.LoggerFromContext(ctx)

	report, err := s.GenerateSalesReport(ctx, req.From, req.To)
	if err != nil {
		return nil, err
	}

	msg, err := renderReportEmail(report, req)
	if err != nil {
		return nil, errors.InternalError("Failed to render sales report").WithError(err)
	}

	if err := s.sender.Send(ctx, msg); err != nil {
		logger.Error("Failed to email sales report", slog.String("recipient", req.Recipient), slog.Any("error", err))
		return nil, errors.ThirdPartyError("Failed to send sales report").WithError(err)
	}

	logger.Info("Sales report emailed",
		slog.String("recipient", req.Recipient),
		slog.Int("cc", len(req.CC)),
	)

	return report, nil
}

func reportRange(from, to string) (time.Time, time.Time, error) {

	start, err := time.Parse(reportDateLayout, strings.TrimSpace(from))
	if err != nil {
		return time.Time{}, time.Time{}, errors.AddValidationError("from", "must be a YYYY-MM-DD date").WithError(err)
	}

	endDay, err := time.Parse(reportDateLayout, strings.TrimSpace(to))
	if err != nil {
		return time.Time{}, time.Time{}, errors.AddValidationError("to", "must be a YYYY-MM-DD date").WithError(err)
	}

	if endDay.Before(start) {
		return time.Time{}, time.Time{}, errors.AddValidationError("to", "must not be before from")
	}

	end := endDay.Add(24*time.Hour - time.Millisecond)

	return start, end, nil
}

// aggregateSales sums order totals once per order and line profits per line,
// bucketed by the UTC day the order was created.
func aggregateSales(lines []models.SalesLine) *models.SalesReport {

	report := &models.SalesReport{
		TotalSales:  decimal.Zero,
		TotalProfit: decimal.Zero,
		Daily:       []models.DailySales{},
	}

	days := make(map[string]*models.DailySales)
	counted := make(map[uuid.UUID]struct{})

	for _, line := range lines {
		key := line.OrderedAt.UTC().Format(reportDateLayout)

		day, ok := days[key]
		if !ok {
			day = &models.DailySales{Date: key, Sales: decimal.Zero, Profit: decimal.Zero}
			days[key] = day
		}

		if _, seen := counted[line.OrderID]; !seen {
			counted[line.OrderID] = struct{}{}
			report.OrderCount++
			report.TotalSales = report.TotalSales.Add(line.OrderTotal)
			day.Orders++
			day.Sales = day.Sales.Add(line.OrderTotal)
		}

		profit := line.Price.Sub(line.Cost).Mul(decimal.NewFromInt(line.Quantity))
		report.TotalProfit = report.TotalProfit.Add(profit)
		day.Profit = day.Profit.Add(profit)
	}

	for _, day := range days {
		report.Daily = append(report.Daily, *day)
	}

	sort.Slice(report.Daily, func(i, j int) bool { return report.Daily[i].Date < report.Daily[j].Date })

	return report
}

var reportHTML = template.Must(template.New("report").Parse(`<h2>Sales report {{.From}} to {{.To}}</h2>
<p>Orders: {{.Report.OrderCount}}<br>Total sales: {{.Report.TotalSales.StringFixed 2}}<br>Total profit: {{.Report.TotalProfit.StringFixed 2}}</p>
<table>
<tr><th>Date</th><th>Orders</th><th>Sales</th><th>Profit</th></tr>
{{range .Report.Daily}}<tr><td>{{.Date}}</td><td>{{.Orders}}</td><td>{{.Sales.StringFixed 2}}</td><td>{{.Profit.StringFixed 2}}</td></tr>
{{end}}</table>`))

func renderReportEmail(report *models.SalesReport, req *models.EmailReportRequest) (*models.EmailMessage, error) {

	var text strings.Builder

	fmt.Fprintf(&text, "Sales report %s to %s\n\n", req.From, req.To)
	fmt.Fprintf(&text, "Orders: %d\nTotal sales: %s\nTotal profit: %s\n\n",
		report.OrderCount, report.TotalSales.StringFixed(2), report.TotalProfit.StringFixed(2))

	for _, day := range report.Daily {
		fmt.Fprintf(&text, "%s  orders %d  sales %s  profit %s\n",
			day.Date, day.Orders, day.Sales.StringFixed(2), day.Profit.StringFixed(2))
	}

	var html bytes.Buffer

	err := reportHTML.Execute(&html, struct {
		From, To string
		Report   *models.SalesReport
	}{req.From, req.To, report})
	if err != nil {
		return nil, err
	}

	return &models.EmailMessage{
		To:          req.Recipient,
		CC:          req.CC,
		Subject:     fmt.Sprintf("Sales report %s to %s", req.From, req.To),
		Content:     text.String(),
		HTMLContent: html.String(),
	}, nil
}
