package reports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/optica-pos/optica-pos/internal/platform/httpx"
	"github.com/optica-pos/optica-pos/internal/shared"
)

type stubRepo struct {
	totals   SalesTotals
	hourly   []HourBucket
	daily    []DayBucket
	movement []ProductSales
	lowStock []LowStockProduct
	avg      float64

	movementStart *time.Time
	movementEnd   *time.Time
	movementLimit int
}

func (s *stubRepo) SalesTotals(_ context.Context, _, _ time.Time) (SalesTotals, error) {
	return s.totals, nil
}

func (s *stubRepo) HourlySales(_ context.Context, _, _ time.Time) ([]HourBucket, error) {
	return s.hourly, nil
}

func (s *stubRepo) DailySales(_ context.Context, _, _ time.Time) ([]DayBucket, error) {
	return s.daily, nil
}

func (s *stubRepo) ProductMovement(_ context.Context, start, end *time.Time, limit int) ([]ProductSales, error) {
	s.movementStart = start
	s.movementEnd = end
	s.movementLimit = limit
	return s.movement, nil
}

func (s *stubRepo) LowStock(_ context.Context, _ int) ([]LowStockProduct, error) {
	return s.lowStock, nil
}

func (s *stubRepo) AverageOrderValue(_ context.Context, _, _ time.Time) (float64, error) {
	return s.avg, nil
}

func TestDailyReport(t *testing.T) {
	repo := &stubRepo{
		totals: SalesTotals{TotalOrders: 4, TotalSales: 250},
		hourly: []HourBucket{{Hour: 9, Orders: 1, Sales: 50}, {Hour: 14, Orders: 3, Sales: 200}},
	}
	svc := NewService(repo)

	day := time.Date(2026, 3, 14, 15, 9, 0, 0, time.UTC)
	report, err := svc.Daily(context.Background(), day)
	require.NoError(t, err)
	require.Equal(t, "2026-03-14", report.Date)
	require.Equal(t, 4, report.TotalOrders)
	require.Equal(t, 250.0, report.TotalSales)
	require.Len(t, report.HourlyBreakdown, 2)
}

func TestMonthlyReportValidatesMonth(t *testing.T) {
	svc := NewService(&stubRepo{})

	_, err := svc.Monthly(context.Background(), 2026, 13)
	require.True(t, errors.Is(err, httpx.ErrValidation))

	_, err = svc.Monthly(context.Background(), 2026, 0)
	require.True(t, errors.Is(err, httpx.ErrValidation))
}

func TestMonthlyReport(t *testing.T) {
	repo := &stubRepo{
		totals: SalesTotals{TotalOrders: 10, TotalSales: 1000},
		daily:  []DayBucket{{Date: "2026-02-01", Orders: 10, Sales: 1000}},
	}
	svc := NewService(repo)

	report, err := svc.Monthly(context.Background(), 2026, 2)
	require.NoError(t, err)
	require.Equal(t, 2026, report.Year)
	require.Equal(t, 2, report.Month)
	require.Equal(t, 1000.0, report.TotalSales)
	require.Len(t, report.DailyBreakdown, 1)
}

func TestMovementUsesExclusiveEnd(t *testing.T) {
	repo := &stubRepo{movement: []ProductSales{{ID: 1, Name: "Frame", TimesSold: 2, TotalRevenue: 40}}}
	svc := NewService(repo)

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	report, err := svc.Movement(context.Background(), start, end)
	require.NoError(t, err)
	require.Equal(t, "2026-01-01", report.StartDate)
	require.Equal(t, "2026-01-31", report.EndDate)
	// the range sent to the query covers the whole final day
	require.Equal(t, end.AddDate(0, 0, 1), *repo.movementEnd)
	require.Len(t, report.Products, 1)
}

func TestTopProductsDefaultsLimit(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)

	report, err := svc.TopProducts(context.Background(), nil, nil, 0)
	require.NoError(t, err)
	require.Equal(t, 10, report.Limit)
	require.Equal(t, 10, repo.movementLimit)
	require.Nil(t, repo.movementStart)
	require.NotNil(t, report.Products)
	require.Empty(t, report.Products)
}

func TestSummaryComputesWindow(t *testing.T) {
	repo := &stubRepo{totals: SalesTotals{TotalOrders: 5, TotalSales: 500}, avg: 100}
	svc := NewService(repo)

	report, err := svc.Summary(context.Background(), shared.PeriodMonth)
	require.NoError(t, err)
	require.Equal(t, "month", report.Period)
	require.Equal(t, 1, report.StartDate.Day())
	require.Equal(t, 100.0, report.AverageOrderValue)

	_, err = svc.Summary(context.Background(), shared.Period("quarter"))
	require.True(t, errors.Is(err, httpx.ErrValidation))
}

func TestLowStockReport(t *testing.T) {
	repo := &stubRepo{lowStock: []LowStockProduct{{ID: 1, Name: "Frame", CurrentStock: 2}}}
	svc := NewService(repo)

	report, err := svc.LowStock(context.Background(), 10)
	require.NoError(t, err)
	require.Equal(t, 10, report.Threshold)
	require.Len(t, report.Products, 1)
}
