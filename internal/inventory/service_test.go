package inventory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/optica-pos/optica-pos/internal/platform/httpx"
	"github.com/optica-pos/optica-pos/internal/shared"
)

type memoryRepo struct {
	nextID   int64
	products map[int64]Product
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{nextID: 1, products: map[int64]Product{}}
}

func (m *memoryRepo) seed(name string, price float64, stock int) Product {
	p := Product{
		ID:        m.nextID,
		Name:      name,
		Price:     price,
		Stock:     stock,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	m.products[p.ID] = p
	m.nextID++
	return p
}

func (m *memoryRepo) List(_ context.Context, filters ListFilters) ([]Product, error) {
	var out []Product
	for _, p := range m.products {
		if filters.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filters.Search)) {
			continue
		}
		if filters.MaxStock != nil && p.Stock > *filters.MaxStock {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Stock != out[j].Stock {
			return out[i].Stock < out[j].Stock
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *memoryRepo) LowStock(ctx context.Context, threshold int) ([]Product, error) {
	return m.List(ctx, ListFilters{MaxStock: &threshold})
}

func (m *memoryRepo) Get(_ context.Context, id int64) (*Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &p, nil
}

func (m *memoryRepo) FindByName(_ context.Context, name string) (*Product, error) {
	for _, p := range m.products {
		if p.Name == name {
			return &p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *memoryRepo) Create(_ context.Context, product Product) (*Product, error) {
	for _, p := range m.products {
		if p.Name == product.Name {
			return nil, ErrDuplicateName
		}
	}
	product.ID = m.nextID
	m.nextID++
	m.products[product.ID] = product
	return &product, nil
}

func (m *memoryRepo) Update(_ context.Context, id int64, product Product) (*Product, error) {
	current, ok := m.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	for _, p := range m.products {
		if p.ID != id && p.Name == product.Name {
			return nil, ErrDuplicateName
		}
	}
	product.ID = id
	product.CreatedAt = current.CreatedAt
	product.UpdatedAt = time.Now().UTC()
	m.products[id] = product
	return &product, nil
}

func (m *memoryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.products[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *memoryRepo) AdjustStock(_ context.Context, id int64, delta int) (*Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	if p.Stock+delta < 0 {
		return nil, shared.ErrInsufficientStock
	}
	p.Stock += delta
	m.products[id] = p
	return &p, nil
}

func (m *memoryRepo) Stats(_ context.Context, threshold int) (Stats, error) {
	var s Stats
	for _, p := range m.products {
		s.TotalProducts++
		s.TotalStock += p.Stock
		if p.Stock <= threshold {
			s.LowStockCount++
		}
		if p.Stock == 0 {
			s.OutOfStock++
		}
	}
	return s, nil
}

func TestCreateRejectsDuplicateName(t *testing.T) {
	repo := newMemoryRepo()
	repo.seed("Ray-Ban Aviator", 120, 5)
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), ProductRequest{Name: "Ray-Ban Aviator", Price: 99, Stock: 1})
	require.Error(t, err)
	require.True(t, errors.Is(err, httpx.ErrConflict))
}

func TestUpdateKeepsOwnName(t *testing.T) {
	repo := newMemoryRepo()
	p := repo.seed("Lens Cleaner", 4.5, 30)
	svc := NewService(repo)

	updated, err := svc.Update(context.Background(), p.ID, ProductRequest{Name: "Lens Cleaner", Price: 5, Stock: 30})
	require.NoError(t, err)
	require.Equal(t, 5.0, updated.Price)
}

func TestUpdateRejectsTakenName(t *testing.T) {
	repo := newMemoryRepo()
	repo.seed("Frame A", 10, 1)
	p := repo.seed("Frame B", 10, 1)
	svc := NewService(repo)

	_, err := svc.Update(context.Background(), p.ID, ProductRequest{Name: "Frame A", Price: 10, Stock: 1})
	require.True(t, errors.Is(err, httpx.ErrConflict))
}

func TestAdjustStockIncrease(t *testing.T) {
	repo := newMemoryRepo()
	p := repo.seed("Contact Solution", 8, 2)
	svc := NewService(repo)

	updated, err := svc.AdjustStock(context.Background(), p.ID, StockAdjustRequest{Quantity: 7, Operation: StockIncrease})
	require.NoError(t, err)
	require.Equal(t, 9, updated.Stock)
}

func TestAdjustStockDecreaseBelowZero(t *testing.T) {
	repo := newMemoryRepo()
	p := repo.seed("Reading Glasses", 25, 3)
	svc := NewService(repo)

	_, err := svc.AdjustStock(context.Background(), p.ID, StockAdjustRequest{Quantity: 4, Operation: StockDecrease})
	require.True(t, errors.Is(err, httpx.ErrConflict))

	after, getErr := svc.Get(context.Background(), p.ID)
	require.NoError(t, getErr)
	require.Equal(t, 3, after.Stock)
}

func TestAdjustStockUnknownOperation(t *testing.T) {
	repo := newMemoryRepo()
	p := repo.seed("Cases", 3, 10)
	svc := NewService(repo)

	_, err := svc.AdjustStock(context.Background(), p.ID, StockAdjustRequest{Quantity: 1, Operation: "transfer"})
	require.True(t, errors.Is(err, httpx.ErrValidation))
}

func TestGetMissingProduct(t *testing.T) {
	svc := NewService(newMemoryRepo())

	_, err := svc.Get(context.Background(), 404)
	require.True(t, errors.Is(err, httpx.ErrNotFound))
}

func TestStatsCountsBuckets(t *testing.T) {
	repo := newMemoryRepo()
	repo.seed("A", 1, 0)
	repo.seed("B", 1, 4)
	repo.seed("C", 1, 50)
	svc := NewService(repo)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, stats.TotalProducts)
	require.Equal(t, 54, stats.TotalStock)
	require.Equal(t, 2, stats.LowStockCount)
	require.Equal(t, 1, stats.OutOfStock)
}

func TestListFiltersBySearchAndStock(t *testing.T) {
	repo := newMemoryRepo()
	repo.seed("Aviator Frame", 1, 2)
	repo.seed("Round Frame", 1, 20)
	repo.seed("Cleaning Kit", 1, 2)
	svc := NewService(repo)

	maxStock := 5
	products, err := svc.List(context.Background(), ListFilters{Search: "frame", MaxStock: &maxStock})
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.Equal(t, "Aviator Frame", products[0].Name)
}
