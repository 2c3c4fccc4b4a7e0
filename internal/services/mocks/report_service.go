package mocks

import (
	"context"

	"github.com/aaravmahajanofficial/pos-inventory/internal/models"
	"github.com/stretchr/testify/mock"
)

type ReportService struct {
	mock.Mock
}

func NewReportService(t testingT) *ReportService {
	m := &ReportService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *ReportService) GenerateSalesReport(ctx context.Context, from, to string) (*models.SalesReport, error) {
	args := m.Called(ctx, from, to)
	if r, ok := args.Get(0).(*models.SalesReport); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ReportService) EmailSalesReport(ctx context.Context, req *models.EmailReportRequest) (*models.SalesReport, error) {
	args := m.Called(ctx, req)
	if r, ok := args.Get(0).(*models.SalesReport); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
