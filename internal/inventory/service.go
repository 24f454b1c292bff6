package inventory

import (
	"context"
	"errors"

	"github.com/optica-pos/optica-pos/internal/platform/httpx"
	"github.com/optica-pos/optica-pos/internal/shared"
)

// Service carries inventory business rules on top of the repository.
type Service struct {
	repo Repository
}

// NewService constructs the inventory service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Product, error) {
	products, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []Product{}
	}
	return products, nil
}

func (s *Service) LowStock(ctx context.Context) ([]Product, error) {
	products, err := s.repo.LowStock(ctx, LowStockThreshold)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []Product{}
	}
	return products, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Product, error) {
	product, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, httpx.NotFoundf("product not found")
		}
		return nil, err
	}
	return product, nil
}

func (s *Service) Create(ctx context.Context, req ProductRequest) (*Product, error) {
	if existing, err := s.repo.FindByName(ctx, req.Name); err == nil && existing != nil {
		return nil, httpx.Conflictf("product with this name already exists")
	} else if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	product, err := s.repo.Create(ctx, Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateName) {
			return nil, httpx.Conflictf("product with this name already exists")
		}
		return nil, err
	}
	return product, nil
}

func (s *Service) Update(ctx context.Context, id int64, req ProductRequest) (*Product, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != current.Name {
		if existing, err := s.repo.FindByName(ctx, req.Name); err == nil && existing != nil {
			return nil, httpx.Conflictf("product with this name already exists")
		} else if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
	}

	updated, err := s.repo.Update(ctx, id, Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
	})
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrNotFound):
			return nil, httpx.NotFoundf("product not found")
		case errors.Is(err, ErrDuplicateName):
			return nil, httpx.Conflictf("product with this name already exists")
		}
		return nil, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return httpx.NotFoundf("product not found")
		}
		return err
	}
	return nil
}

// AdjustStock applies an increase or decrease. Decrements below zero are
// rejected without modifying the row.
func (s *Service) AdjustStock(ctx context.Context, id int64, req StockAdjustRequest) (*Product, error) {
	if !req.Operation.Valid() {
		return nil, httpx.Validationf("operation must be 'increase' or 'decrease'")
	}
	if req.Quantity <= 0 {
		return nil, httpx.Validationf("quantity must be greater than zero")
	}

	delta := req.Quantity
	if req.Operation == StockDecrease {
		delta = -delta
	}

	product, err := s.repo.AdjustStock(ctx, id, delta)
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrNotFound):
			return nil, httpx.NotFoundf("product not found")
		case errors.Is(err, shared.ErrInsufficientStock):
			return nil, httpx.Conflictf("insufficient stock for this operation")
		}
		return nil, err
	}
	return product, nil
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	return s.repo.Stats(ctx, LowStockThreshold)
}
