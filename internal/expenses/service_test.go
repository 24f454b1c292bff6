package expenses

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/optica-pos/optica-pos/internal/platform/httpx"
	"github.com/optica-pos/optica-pos/internal/shared"
)

type memoryRepo struct {
	nextID   int64
	expenses map[int64]*Expense
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{nextID: 1, expenses: map[int64]*Expense{}}
}

func (m *memoryRepo) List(_ context.Context, filters ListFilters) ([]Expense, error) {
	var out []Expense
	for _, e := range m.expenses {
		if filters.Category != nil && e.Category != *filters.Category {
			continue
		}
		if filters.StartDate != nil && filters.EndDate != nil {
			if e.Date.Before(*filters.StartDate) || !e.Date.Before(filters.EndDate.AddDate(0, 0, 1)) {
				continue
			}
		}
		out = append(out, *e)
	}
	return out, nil
}

func (m *memoryRepo) Get(_ context.Context, id int64) (*Expense, error) {
	e, ok := m.expenses[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *e
	return &copied, nil
}

func (m *memoryRepo) Create(_ context.Context, expense Expense) (*Expense, error) {
	expense.ID = m.nextID
	m.nextID++
	expense.CreatedAt = time.Now().UTC()
	expense.UpdatedAt = expense.CreatedAt
	m.expenses[expense.ID] = &expense
	copied := expense
	return &copied, nil
}

func (m *memoryRepo) Update(_ context.Context, id int64, expense Expense) (*Expense, error) {
	current, ok := m.expenses[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	current.Amount = expense.Amount
	current.Description = expense.Description
	current.Category = expense.Category
	current.Date = expense.Date
	current.UpdatedAt = time.Now().UTC()
	copied := *current
	return &copied, nil
}

func (m *memoryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.expenses[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.expenses, id)
	return nil
}

func (m *memoryRepo) TotalSince(_ context.Context, since time.Time) (float64, error) {
	var total float64
	for _, e := range m.expenses {
		if !e.Date.Before(since) {
			total += e.Amount
		}
	}
	return total, nil
}

func (m *memoryRepo) TotalsByCategory(_ context.Context, since time.Time) ([]CategoryTotal, error) {
	totals := map[Category]float64{}
	for _, e := range m.expenses {
		if !e.Date.Before(since) {
			totals[e.Category] += e.Amount
		}
	}
	var out []CategoryTotal
	for category, total := range totals {
		out = append(out, CategoryTotal{Category: category, Total: total})
	}
	return out, nil
}

func TestCreateRejectsUnknownCategory(t *testing.T) {
	svc := NewService(newMemoryRepo())

	_, err := svc.Create(context.Background(), 1, ExpenseRequest{
		Amount:      100,
		Description: "mystery",
		Category:    "entertainment",
		Date:        time.Now(),
	})
	require.True(t, errors.Is(err, httpx.ErrValidation))
}

func TestCreateRecordsCreator(t *testing.T) {
	svc := NewService(newMemoryRepo())

	expense, err := svc.Create(context.Background(), 42, ExpenseRequest{
		Amount:      1200,
		Description: "shop rent",
		Category:    "rent",
		Date:        time.Now(),
	})
	require.NoError(t, err)
	require.Equal(t, int64(42), expense.CreatedBy)
	require.Equal(t, Category("rent"), expense.Category)
}

func TestListFiltersByCategory(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)

	for _, c := range []Category{"rent", "utilities", "rent"} {
		_, err := svc.Create(context.Background(), 1, ExpenseRequest{
			Amount: 10, Description: "x", Category: c, Date: time.Now(),
		})
		require.NoError(t, err)
	}

	rent := Category("rent")
	list, err := svc.List(context.Background(), ListFilters{Category: &rent})
	require.NoError(t, err)
	require.Len(t, list, 2)

	bad := Category("snacks")
	_, err = svc.List(context.Background(), ListFilters{Category: &bad})
	require.True(t, errors.Is(err, httpx.ErrValidation))
}

func TestSummarizeTotalsByPeriod(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)

	now := time.Now().UTC()
	_, err := svc.Create(context.Background(), 1, ExpenseRequest{
		Amount: 50, Description: "cloths", Category: "supplies", Date: now,
	})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), 1, ExpenseRequest{
		Amount: 30, Description: "bulbs", Category: "supplies", Date: now,
	})
	require.NoError(t, err)
	// outside every period window
	_, err = svc.Create(context.Background(), 1, ExpenseRequest{
		Amount: 999, Description: "old", Category: "rent", Date: now.AddDate(-2, 0, 0),
	})
	require.NoError(t, err)

	summary, err := svc.Summarize(context.Background(), shared.PeriodYear)
	require.NoError(t, err)
	require.Equal(t, 80.0, summary.TotalExpenses)
	require.Len(t, summary.ByCategory, 1)
	require.Equal(t, Category("supplies"), summary.ByCategory[0].Category)

	_, err = svc.Summarize(context.Background(), shared.Period("quarter"))
	require.True(t, errors.Is(err, httpx.ErrValidation))
}

func TestUpdateAndDelete(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)

	expense, err := svc.Create(context.Background(), 1, ExpenseRequest{
		Amount: 10, Description: "x", Category: "other", Date: time.Now(),
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), expense.ID, ExpenseRequest{
		Amount: 20, Description: "y", Category: "taxes", Date: time.Now(),
	})
	require.NoError(t, err)
	require.Equal(t, 20.0, updated.Amount)
	require.Equal(t, Category("taxes"), updated.Category)

	require.NoError(t, svc.Delete(context.Background(), expense.ID))
	err = svc.Delete(context.Background(), expense.ID)
	require.True(t, errors.Is(err, httpx.ErrNotFound))
}
