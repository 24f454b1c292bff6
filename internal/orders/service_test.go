package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/optica-pos/optica-pos/internal/platform/httpx"
	"github.com/optica-pos/optica-pos/internal/shared"
)

// memoryRepo models the transactional contract: writes made through a
// TxRepository stay staged until the callback returns nil, and are discarded
// entirely when it returns an error.
type memoryRepo struct {
	products      map[int64]*LockedProduct
	orders        map[int64]*Order
	items         map[int64][]Item
	prescriptions map[int64]*Prescription
	nextOrderID   int64
	nextRxID      int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		products:      map[int64]*LockedProduct{},
		orders:        map[int64]*Order{},
		items:         map[int64][]Item{},
		prescriptions: map[int64]*Prescription{},
		nextOrderID:   1,
		nextRxID:      1,
	}
}

func (m *memoryRepo) seedProduct(id int64, name string, price float64, stock int) {
	m.products[id] = &LockedProduct{ID: id, Name: name, Price: price, Stock: stock}
}

func (m *memoryRepo) WithTx(_ context.Context, fn func(TxRepository) error) error {
	tx := &memoryTx{
		repo:         m,
		stagedStock:  map[int64]int{},
		stagedOrders: map[int64]*Order{},
		stagedItems:  map[int64][]Item{},
		stagedRx:     map[int64]*Prescription{},
	}
	if err := fn(tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}

func (m *memoryRepo) Get(_ context.Context, id int64) (*Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *o
	copied.Items = append([]Item(nil), m.items[id]...)
	if rx, ok := m.prescriptions[id]; ok {
		rxCopy := *rx
		copied.Prescription = &rxCopy
	}
	return &copied, nil
}

func (m *memoryRepo) List(ctx context.Context, limit, offset int) ([]Order, error) {
	var out []Order
	for id := range m.orders {
		o, _ := m.Get(ctx, id)
		out = append(out, *o)
	}
	return out, nil
}

func (m *memoryRepo) UpdateStatus(_ context.Context, id int64, status Status) error {
	o, ok := m.orders[id]
	if !ok {
		return shared.ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now().UTC()
	return nil
}

type memoryTx struct {
	repo         *memoryRepo
	stagedStock  map[int64]int
	stagedOrders map[int64]*Order
	stagedItems  map[int64][]Item
	stagedRx     map[int64]*Prescription
}

func (t *memoryTx) GetProductForUpdate(_ context.Context, id int64) (*LockedProduct, error) {
	p, ok := t.repo.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *p
	if staged, ok := t.stagedStock[id]; ok {
		copied.Stock = staged
	}
	return &copied, nil
}

func (t *memoryTx) SetProductStock(_ context.Context, id int64, stock int) error {
	if _, ok := t.repo.products[id]; !ok {
		return shared.ErrNotFound
	}
	t.stagedStock[id] = stock
	return nil
}

func (t *memoryTx) InsertOrder(_ context.Context, order *Order) error {
	order.ID = t.repo.nextOrderID
	t.repo.nextOrderID++
	order.CreatedAt = time.Now().UTC()
	order.UpdatedAt = order.CreatedAt
	copied := *order
	copied.Items = nil
	copied.Prescription = nil
	t.stagedOrders[order.ID] = &copied
	return nil
}

func (t *memoryTx) InsertItem(_ context.Context, orderID int64, item Item) error {
	t.stagedItems[orderID] = append(t.stagedItems[orderID], item)
	return nil
}

func (t *memoryTx) InsertPrescription(_ context.Context, p *Prescription) error {
	p.ID = t.repo.nextRxID
	t.repo.nextRxID++
	copied := *p
	t.stagedRx[p.OrderID] = &copied
	return nil
}

func (t *memoryTx) commit() {
	for id, stock := range t.stagedStock {
		t.repo.products[id].Stock = stock
	}
	for id, o := range t.stagedOrders {
		t.repo.orders[id] = o
	}
	for id, items := range t.stagedItems {
		t.repo.items[id] = items
	}
	for id, rx := range t.stagedRx {
		t.repo.prescriptions[id] = rx
	}
}

func TestCreateOrderComputesTotalAndDecrementsStock(t *testing.T) {
	repo := newMemoryRepo()
	repo.seedProduct(1, "Aviator Frame", 10.0, 5)
	svc := NewService(repo)

	order, err := svc.Create(context.Background(), 7, CreateOrderRequest{
		Items: []ItemRequest{{ProductID: 1, Quantity: 3}},
	})
	require.NoError(t, err)
	require.Equal(t, 30.0, order.TotalAmount)
	require.Equal(t, StatusPending, order.Status)
	require.Equal(t, int64(7), order.UserID)
	require.Equal(t, 2, repo.products[1].Stock)

	persisted, err := svc.Get(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, persisted.Items, 1)
	require.Equal(t, 10.0, persisted.Items[0].PriceAtTime)
	require.Equal(t, 3, persisted.Items[0].Quantity)
}

func TestCreateOrderTotalMatchesItemSnapshots(t *testing.T) {
	repo := newMemoryRepo()
	repo.seedProduct(1, "Frame", 49.99, 10)
	repo.seedProduct(2, "Lens Kit", 120.5, 10)
	svc := NewService(repo)

	order, err := svc.Create(context.Background(), 1, CreateOrderRequest{
		Items: []ItemRequest{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 1},
		},
	})
	require.NoError(t, err)

	var sum float64
	for _, item := range order.Items {
		sum += item.PriceAtTime * float64(item.Quantity)
	}
	require.Equal(t, sum, order.TotalAmount)

	// later price changes must not touch the snapshot
	repo.products[1].Price = 999
	persisted, err := svc.Get(context.Background(), order.ID)
	require.NoError(t, err)
	require.Equal(t, sum, persisted.TotalAmount)
	require.Equal(t, 49.99, persisted.Items[0].PriceAtTime)
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	repo := newMemoryRepo()
	repo.seedProduct(1, "Round Frame", 25.0, 2)
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), 1, CreateOrderRequest{
		Items: []ItemRequest{{ProductID: 1, Quantity: 3}},
	})
	require.True(t, errors.Is(err, httpx.ErrConflict))
	require.Contains(t, err.Error(), "Round Frame")
	require.Equal(t, 2, repo.products[1].Stock)
	require.Empty(t, repo.orders)
}

func TestCreateOrderUnknownProductLeavesNoPartialState(t *testing.T) {
	repo := newMemoryRepo()
	repo.seedProduct(1, "Frame", 10.0, 5)
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), 1, CreateOrderRequest{
		Items: []ItemRequest{
			{ProductID: 1, Quantity: 2},
			{ProductID: 999, Quantity: 1},
		},
	})
	require.True(t, errors.Is(err, httpx.ErrNotFound))
	require.Contains(t, err.Error(), "999")
	require.Equal(t, 5, repo.products[1].Stock)
	require.Empty(t, repo.orders)
	require.Empty(t, repo.items)
}

func TestCreateOrderRetryAfterFailureIsSideEffectFree(t *testing.T) {
	repo := newMemoryRepo()
	repo.seedProduct(1, "Frame", 10.0, 2)
	svc := NewService(repo)

	req := CreateOrderRequest{Items: []ItemRequest{{ProductID: 1, Quantity: 3}}}

	_, err := svc.Create(context.Background(), 1, req)
	require.True(t, errors.Is(err, httpx.ErrConflict))
	require.Equal(t, 2, repo.products[1].Stock)

	_, err = svc.Create(context.Background(), 1, req)
	require.True(t, errors.Is(err, httpx.ErrConflict))
	require.Equal(t, 2, repo.products[1].Stock)
	require.Empty(t, repo.orders)
}

func TestCreateOrderDuplicateLinesCompound(t *testing.T) {
	repo := newMemoryRepo()
	repo.seedProduct(1, "Frame", 10.0, 5)
	svc := NewService(repo)

	// 3 + 3 exceeds stock 5 even though each line alone would pass
	_, err := svc.Create(context.Background(), 1, CreateOrderRequest{
		Items: []ItemRequest{
			{ProductID: 1, Quantity: 3},
			{ProductID: 1, Quantity: 3},
		},
	})
	require.True(t, errors.Is(err, httpx.ErrConflict))
	require.Equal(t, 5, repo.products[1].Stock)

	order, err := svc.Create(context.Background(), 1, CreateOrderRequest{
		Items: []ItemRequest{
			{ProductID: 1, Quantity: 3},
			{ProductID: 1, Quantity: 2},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 50.0, order.TotalAmount)
	require.Len(t, order.Items, 2)
	require.Equal(t, 0, repo.products[1].Stock)
}

func TestCreateOrderRejectsNonPositiveQuantity(t *testing.T) {
	repo := newMemoryRepo()
	repo.seedProduct(1, "Frame", 10.0, 5)
	svc := NewService(repo)

	for _, qty := range []int{0, -2} {
		_, err := svc.Create(context.Background(), 1, CreateOrderRequest{
			Items: []ItemRequest{{ProductID: 1, Quantity: qty}},
		})
		require.True(t, errors.Is(err, httpx.ErrValidation))
	}
	require.Equal(t, 5, repo.products[1].Stock)
}

func TestCreateOrderAttachesPrescription(t *testing.T) {
	repo := newMemoryRepo()
	repo.seedProduct(1, "Progressive Lens", 200.0, 4)
	svc := NewService(repo)

	add := "+2.00"
	order, err := svc.Create(context.Background(), 1, CreateOrderRequest{
		Items: []ItemRequest{{ProductID: 1, Quantity: 1}},
		Prescription: &PrescriptionRequest{
			RightEyeSphere:   "-1.50",
			RightEyeCylinder: "-0.75",
			RightEyeAxis:     "180",
			RightEyeAdd:      &add,
			LeftEyeSphere:    "-1.25",
			LeftEyeCylinder:  "-0.50",
			LeftEyeAxis:      "175",
			Material:         "polycarbonate",
			Treatment:        "anti-reflective",
			RequiresAdd:      true,
		},
	})
	require.NoError(t, err)
	require.Equal(t, StatusPending, order.Status)
	require.NotNil(t, order.Prescription)
	require.Equal(t, order.ID, order.Prescription.OrderID)

	persisted, err := svc.Get(context.Background(), order.ID)
	require.NoError(t, err)
	require.NotNil(t, persisted.Prescription)
	require.Equal(t, "-1.50", persisted.Prescription.RightEyeSphere)
	require.Equal(t, "polycarbonate", persisted.Prescription.Material)
	require.True(t, persisted.Prescription.RequiresAdd)
	require.Equal(t, &add, persisted.Prescription.RightEyeAdd)
}

func TestCreateOrderSerializedContention(t *testing.T) {
	repo := newMemoryRepo()
	repo.seedProduct(1, "Frame", 10.0, 5)
	svc := NewService(repo)

	// row locking serializes the two transactions; the second observes the
	// committed decrement and must fail
	req := CreateOrderRequest{Items: []ItemRequest{{ProductID: 1, Quantity: 3}}}

	_, err := svc.Create(context.Background(), 1, req)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), 2, req)
	require.True(t, errors.Is(err, httpx.ErrConflict))
	require.Equal(t, 2, repo.products[1].Stock)
	require.GreaterOrEqual(t, repo.products[1].Stock, 0)
}

func TestUpdateStatus(t *testing.T) {
	repo := newMemoryRepo()
	repo.seedProduct(1, "Frame", 10.0, 5)
	svc := NewService(repo)

	order, err := svc.Create(context.Background(), 1, CreateOrderRequest{
		Items: []ItemRequest{{ProductID: 1, Quantity: 1}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.UpdateStatus(context.Background(), order.ID, StatusCompleted))
	persisted, err := svc.Get(context.Background(), order.ID)
	require.NoError(t, err)
	require.Equal(t, StatusCompleted, persisted.Status)

	err = svc.UpdateStatus(context.Background(), order.ID, Status("shipped"))
	require.True(t, errors.Is(err, httpx.ErrValidation))

	err = svc.UpdateStatus(context.Background(), 404, StatusCancelled)
	require.True(t, errors.Is(err, httpx.ErrNotFound))
}

func TestCreateOrderRequiresItems(t *testing.T) {
	svc := NewService(newMemoryRepo())

	_, err := svc.Create(context.Background(), 1, CreateOrderRequest{})
	require.True(t, errors.Is(err, httpx.ErrValidation))
}

// contendedRepo simulates the database aborting the transaction with a
// serialization failure after a concurrent writer won the row.
type contendedRepo struct {
	*memoryRepo
}

func (r contendedRepo) WithTx(context.Context, func(TxRepository) error) error {
	return &pgconn.PgError{Code: "40001", Message: "could not serialize access due to concurrent update"}
}

func TestCreateOrderSerializationFailureIsConflict(t *testing.T) {
	repo := newMemoryRepo()
	repo.seedProduct(1, "Frame", 10.0, 5)
	svc := NewService(contendedRepo{repo})

	_, err := svc.Create(context.Background(), 1, CreateOrderRequest{
		Items: []ItemRequest{{ProductID: 1, Quantity: 3}},
	})
	require.True(t, errors.Is(err, httpx.ErrConflict))
}
