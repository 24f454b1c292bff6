package orders

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/optica-pos/optica-pos/internal/platform/httpx"
	"github.com/optica-pos/optica-pos/internal/shared"
)

// Service implements the order workflow.
type Service struct {
	repo Repository
}

// NewService constructs the order service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates the requested lines against current inventory, decrements
// stock, and persists the order with its line items and optional prescription
// as one atomic unit. createdBy is the id of the user placing the order; the
// workflow itself needs no other identity context.
//
// Lines are processed in the order the caller submitted them. Product rows
// are locked on first touch, and the working stock for each product is kept
// in memory so a product id appearing on two lines compounds correctly.
// Nothing becomes durable until every line has passed validation.
func (s *Service) Create(ctx context.Context, createdBy int64, req CreateOrderRequest) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, httpx.Validationf("order must contain at least one item")
	}
	for _, line := range req.Items {
		if line.Quantity <= 0 {
			return nil, httpx.Validationf("quantity must be greater than zero for product %d", line.ProductID)
		}
	}

	var created *Order
	err := s.repo.WithTx(ctx, func(tx TxRepository) error {
		products := make(map[int64]*LockedProduct)
		workingStock := make(map[int64]int)

		order := &Order{
			UserID: createdBy,
			Status: StatusPending,
		}

		for _, line := range req.Items {
			product, ok := products[line.ProductID]
			if !ok {
				var err error
				product, err = tx.GetProductForUpdate(ctx, line.ProductID)
				if err != nil {
					if errors.Is(err, shared.ErrNotFound) {
						return httpx.NotFoundf("product with id %d not found", line.ProductID)
					}
					return err
				}
				products[line.ProductID] = product
				workingStock[line.ProductID] = product.Stock
			}

			if workingStock[line.ProductID] < line.Quantity {
				return httpx.Conflictf("insufficient stock for product %s", product.Name)
			}
			workingStock[line.ProductID] -= line.Quantity

			order.TotalAmount += product.Price * float64(line.Quantity)
			order.Items = append(order.Items, Item{
				ProductID:   line.ProductID,
				Quantity:    line.Quantity,
				PriceAtTime: product.Price,
			})
		}

		for id, stock := range workingStock {
			if err := tx.SetProductStock(ctx, id, stock); err != nil {
				return err
			}
		}

		if err := tx.InsertOrder(ctx, order); err != nil {
			return err
		}
		for _, item := range order.Items {
			if err := tx.InsertItem(ctx, order.ID, item); err != nil {
				return err
			}
		}

		if req.Prescription != nil {
			rx := prescriptionFromRequest(order.ID, *req.Prescription)
			if err := tx.InsertPrescription(ctx, rx); err != nil {
				return err
			}
			order.Prescription = rx
		}

		created = order
		return nil
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "40001" {
			return nil, httpx.Conflictf("order conflicts with a concurrent update, please retry")
		}
		return nil, err
	}
	return created, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Order, error) {
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, httpx.NotFoundf("order not found")
		}
		return nil, err
	}
	return order, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]Order, error) {
	list, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []Order{}
	}
	return list, nil
}

// UpdateStatus moves an order to a new lifecycle state. The value must
// belong to the closed status set.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status Status) error {
	if !status.Valid() {
		return httpx.Validationf("invalid status, must be one of: pending, completed, cancelled")
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return httpx.NotFoundf("order not found")
		}
		return err
	}
	return nil
}

func prescriptionFromRequest(orderID int64, req PrescriptionRequest) *Prescription {
	return &Prescription{
		OrderID:          orderID,
		RightEyeSphere:   req.RightEyeSphere,
		RightEyeCylinder: req.RightEyeCylinder,
		RightEyeAxis:     req.RightEyeAxis,
		RightEyeAdd:      req.RightEyeAdd,
		LeftEyeSphere:    req.LeftEyeSphere,
		LeftEyeCylinder:  req.LeftEyeCylinder,
		LeftEyeAxis:      req.LeftEyeAxis,
		LeftEyeAdd:       req.LeftEyeAdd,
		Material:         req.Material,
		Treatment:        req.Treatment,
		RequiresAdd:      req.RequiresAdd,
		Notes:            req.Notes,
	}
}
