package commissions

import (
	"context"
	"time"

	"github.com/optica-pos/optica-pos/internal/platform/httpx"
	"github.com/optica-pos/optica-pos/internal/shared"
)

// Service computes commission figures from per-seller sales aggregates. The
// rate comes from configuration. Identity scoping (a non-admin only seeing
// their own figures) is decided by the transport layer, which passes the
// userID filter accordingly.
type Service struct {
	repo Repository
	rate float64
}

// NewService constructs the commission service.
func NewService(repo Repository, rate float64) *Service {
	return &Service{repo: repo, rate: rate}
}

func (s *Service) entries(sales []UserSales) []Entry {
	out := make([]Entry, 0, len(sales))
	for _, row := range sales {
		out = append(out, Entry{
			UserID:           row.UserID,
			Username:         row.Username,
			FullName:         row.FullName,
			TotalOrders:      row.TotalOrders,
			TotalSales:       row.TotalSales,
			CommissionAmount: row.TotalSales * s.rate,
		})
	}
	return out
}

// Calculate reports commissions over an inclusive day range, optionally for
// one seller.
func (s *Service) Calculate(ctx context.Context, start, end time.Time, userID *int64) (*Report, error) {
	sales, err := s.repo.SalesByUser(ctx, start, end.AddDate(0, 0, 1), userID)
	if err != nil {
		return nil, err
	}

	return &Report{
		StartDate:      start.Format("2006-01-02"),
		EndDate:        end.Format("2006-01-02"),
		CommissionRate: s.rate,
		Commissions:    s.entries(sales),
	}, nil
}

// Summarize reports commissions from the start of the given period to now,
// optionally for one seller.
func (s *Service) Summarize(ctx context.Context, period shared.Period, userID *int64) (*Summary, error) {
	if period != shared.PeriodWeek && period != shared.PeriodMonth && period != shared.PeriodYear {
		return nil, httpx.Validationf("invalid period, use week, month, or year")
	}
	now := time.Now().UTC()
	start, err := period.Start(now)
	if err != nil {
		return nil, httpx.Validationf("invalid period, use week, month, or year")
	}

	sales, err := s.repo.SalesByUser(ctx, start, now.Add(time.Second), userID)
	if err != nil {
		return nil, err
	}

	entries := s.entries(sales)
	var total float64
	for _, e := range entries {
		total += e.CommissionAmount
	}

	return &Summary{
		Period:          string(period),
		StartDate:       start,
		EndDate:         now,
		CommissionRate:  s.rate,
		TotalCommission: total,
		Commissions:     entries,
	}, nil
}

// TopPerformers ranks sellers by completed sales, optionally bounded to a
// day range.
func (s *Service) TopPerformers(ctx context.Context, start, end *time.Time, limit int) (*TopPerformers, error) {
	if limit < 1 {
		limit = 5
	}

	report := &TopPerformers{Limit: limit, CommissionRate: s.rate}
	var rangeStart, rangeEnd *time.Time
	if start != nil && end != nil {
		report.StartDate = start.Format("2006-01-02")
		report.EndDate = end.Format("2006-01-02")
		e := end.AddDate(0, 0, 1)
		rangeStart, rangeEnd = start, &e
	}

	sales, err := s.repo.TopSellers(ctx, rangeStart, rangeEnd, limit)
	if err != nil {
		return nil, err
	}
	report.TopPerformers = s.entries(sales)
	return report, nil
}
