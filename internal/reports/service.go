package reports

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/optica-pos/optica-pos/internal/platform/httpx"
	"github.com/optica-pos/optica-pos/internal/shared"
)

// Service assembles the reporting payloads. Independent aggregate queries
// for one report run concurrently.
type Service struct {
	repo Repository
}

// NewService constructs the report service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Daily reports one calendar day of completed sales with an hourly breakdown.
func (s *Service) Daily(ctx context.Context, day time.Time) (*DailySales, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	var totals SalesTotals
	var hourly []HourBucket

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totals, err = s.repo.SalesTotals(gctx, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		hourly, err = s.repo.HourlySales(gctx, start, end)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if hourly == nil {
		hourly = []HourBucket{}
	}

	return &DailySales{
		Date:            start.Format("2006-01-02"),
		TotalOrders:     totals.TotalOrders,
		TotalSales:      totals.TotalSales,
		HourlyBreakdown: hourly,
	}, nil
}

// Monthly reports one calendar month with a per-day breakdown.
func (s *Service) Monthly(ctx context.Context, year, month int) (*MonthlySales, error) {
	if month < 1 || month > 12 || year < 1 {
		return nil, httpx.Validationf("invalid year or month")
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	var totals SalesTotals
	var daily []DayBucket

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totals, err = s.repo.SalesTotals(gctx, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		daily, err = s.repo.DailySales(gctx, start, end)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if daily == nil {
		daily = []DayBucket{}
	}

	return &MonthlySales{
		Year:           year,
		Month:          month,
		TotalOrders:    totals.TotalOrders,
		TotalSales:     totals.TotalSales,
		DailyBreakdown: daily,
	}, nil
}

// Movement reports per-product sales over an inclusive day range.
func (s *Service) Movement(ctx context.Context, start, end time.Time) (*Movement, error) {
	rangeEnd := end.AddDate(0, 0, 1)
	products, err := s.repo.ProductMovement(ctx, &start, &rangeEnd, 0)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []ProductSales{}
	}
	return &Movement{
		StartDate: start.Format("2006-01-02"),
		EndDate:   end.Format("2006-01-02"),
		Products:  products,
	}, nil
}

// TopProducts reports best sellers, optionally bounded to a day range.
func (s *Service) TopProducts(ctx context.Context, start, end *time.Time, limit int) (*TopProducts, error) {
	if limit < 1 {
		limit = 10
	}

	var rangeStart, rangeEnd *time.Time
	report := &TopProducts{Limit: limit}
	if start != nil && end != nil {
		report.StartDate = start.Format("2006-01-02")
		report.EndDate = end.Format("2006-01-02")
		e := end.AddDate(0, 0, 1)
		rangeStart, rangeEnd = start, &e
	}

	products, err := s.repo.ProductMovement(ctx, rangeStart, rangeEnd, limit)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []ProductSales{}
	}
	report.Products = products
	return report, nil
}

// LowStock reports products at or below the threshold.
func (s *Service) LowStock(ctx context.Context, threshold int) (*LowStock, error) {
	products, err := s.repo.LowStock(ctx, threshold)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []LowStockProduct{}
	}
	return &LowStock{Threshold: threshold, Products: products}, nil
}

// Summary aggregates completed sales from the start of the given period.
func (s *Service) Summary(ctx context.Context, period shared.Period) (*SalesSummary, error) {
	now := time.Now().UTC()
	start, err := period.Start(now)
	if err != nil {
		return nil, httpx.Validationf("invalid period, use day, week, month, or year")
	}
	end := now.Add(time.Second)

	var totals SalesTotals
	var avg float64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totals, err = s.repo.SalesTotals(gctx, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		avg, err = s.repo.AverageOrderValue(gctx, start, end)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &SalesSummary{
		Period:            string(period),
		StartDate:         start,
		EndDate:           now,
		TotalOrders:       totals.TotalOrders,
		TotalSales:        totals.TotalSales,
		AverageOrderValue: avg,
	}, nil
}
