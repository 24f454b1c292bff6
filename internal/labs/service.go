package labs

import (
	"context"
	"errors"

	"github.com/optica-pos/optica-pos/internal/orders"
	"github.com/optica-pos/optica-pos/internal/platform/httpx"
	"github.com/optica-pos/optica-pos/internal/shared"
)

// Service carries lab order business rules.
type Service struct {
	repo Repository
}

// NewService constructs the lab service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]LabOrder, error) {
	if filters.Status != nil && !filters.Status.Valid() {
		return nil, httpx.Validationf("invalid status, must be one of: pending, in-progress, completed, cancelled")
	}
	list, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []LabOrder{}
	}
	return list, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*LabOrder, error) {
	lab, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, httpx.NotFoundf("lab order not found")
		}
		return nil, err
	}
	return lab, nil
}

// Create opens a lab order. The referenced prescription must exist and the
// status must belong to the closed set.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*LabOrder, error) {
	if !req.Status.Valid() {
		return nil, httpx.Validationf("invalid status, must be one of: pending, in-progress, completed, cancelled")
	}
	if _, err := s.repo.GetPrescription(ctx, req.PrescriptionID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, httpx.NotFoundf("prescription not found")
		}
		return nil, err
	}

	return s.repo.Create(ctx, LabOrder{
		PrescriptionID: req.PrescriptionID,
		Status:         req.Status,
		Notes:          req.Notes,
	})
}

func (s *Service) UpdateStatus(ctx context.Context, id int64, status Status) error {
	if !status.Valid() {
		return httpx.Validationf("invalid status, must be one of: pending, in-progress, completed, cancelled")
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return httpx.NotFoundf("lab order not found")
		}
		return err
	}
	return nil
}

func (s *Service) UpdateNotes(ctx context.Context, id int64, notes string) error {
	if err := s.repo.UpdateNotes(ctx, id, notes); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return httpx.NotFoundf("lab order not found")
		}
		return err
	}
	return nil
}

func (s *Service) GetPrescription(ctx context.Context, id int64) (*orders.Prescription, error) {
	p, err := s.repo.GetPrescription(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, httpx.NotFoundf("prescription not found")
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) UpdatePrescription(ctx context.Context, id int64, req orders.PrescriptionRequest) (*orders.Prescription, error) {
	p, err := s.repo.UpdatePrescription(ctx, id, req)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, httpx.NotFoundf("prescription not found")
		}
		return nil, err
	}
	return p, nil
}
