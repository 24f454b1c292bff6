package expenses

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/optica-pos/optica-pos/internal/platform/httpx"
	"github.com/optica-pos/optica-pos/internal/shared"
)

// Service carries expense business rules. All operations are admin-scoped;
// the transport layer enforces that before calling in.
type Service struct {
	repo Repository
}

// NewService constructs the expense service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func categoryList() string {
	names := make([]string, len(Categories))
	for i, c := range Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

func (s *Service) Create(ctx context.Context, createdBy int64, req ExpenseRequest) (*Expense, error) {
	if !req.Category.Valid() {
		return nil, httpx.Validationf("invalid category, must be one of: %s", categoryList())
	}
	return s.repo.Create(ctx, Expense{
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
		Date:        req.Date,
		CreatedBy:   createdBy,
	})
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Expense, error) {
	if filters.Category != nil && !filters.Category.Valid() {
		return nil, httpx.Validationf("invalid category, must be one of: %s", categoryList())
	}
	list, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []Expense{}
	}
	return list, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Expense, error) {
	expense, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, httpx.NotFoundf("expense not found")
		}
		return nil, err
	}
	return expense, nil
}

func (s *Service) Update(ctx context.Context, id int64, req ExpenseRequest) (*Expense, error) {
	if !req.Category.Valid() {
		return nil, httpx.Validationf("invalid category, must be one of: %s", categoryList())
	}
	updated, err := s.repo.Update(ctx, id, Expense{
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
		Date:        req.Date,
	})
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, httpx.NotFoundf("expense not found")
		}
		return nil, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return httpx.NotFoundf("expense not found")
		}
		return err
	}
	return nil
}

// Summarize aggregates expenses from the start of the given period to now.
func (s *Service) Summarize(ctx context.Context, period shared.Period) (*Summary, error) {
	if period != shared.PeriodWeek && period != shared.PeriodMonth && period != shared.PeriodYear {
		return nil, httpx.Validationf("invalid period, use week, month, or year")
	}
	now := time.Now().UTC()
	start, err := period.Start(now)
	if err != nil {
		return nil, httpx.Validationf("invalid period, use week, month, or year")
	}

	total, err := s.repo.TotalSince(ctx, start)
	if err != nil {
		return nil, err
	}
	byCategory, err := s.repo.TotalsByCategory(ctx, start)
	if err != nil {
		return nil, err
	}
	if byCategory == nil {
		byCategory = []CategoryTotal{}
	}

	return &Summary{
		Period:        string(period),
		StartDate:     start,
		EndDate:       now,
		TotalExpenses: total,
		ByCategory:    byCategory,
	}, nil
}
