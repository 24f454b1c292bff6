package orders

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/optica-pos/optica-pos/internal/platform/db"
	"github.com/optica-pos/optica-pos/internal/shared"
)

// LockedProduct is the slice of a product row the workflow needs while
// holding its row lock.
type LockedProduct struct {
	ID    int64
	Name  string
	Price float64
	Stock int
}

// Repository gives the service read access and a transactional write scope.
type Repository interface {
	WithTx(ctx context.Context, fn func(TxRepository) error) error
	Get(ctx context.Context, id int64) (*Order, error)
	List(ctx context.Context, limit, offset int) ([]Order, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error
}

// TxRepository is the write surface available inside one transaction. Every
// call operates on the same underlying transaction; nothing becomes durable
// until WithTx commits.
type TxRepository interface {
	GetProductForUpdate(ctx context.Context, id int64) (*LockedProduct, error)
	SetProductStock(ctx context.Context, id int64, stock int) error
	InsertOrder(ctx context.Context, order *Order) error
	InsertItem(ctx context.Context, orderID int64, item Item) error
	InsertPrescription(ctx context.Context, p *Prescription) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(&txRepository{tx: tx})
	})
}

const orderColumns = `id, user_id, total_amount, status, created_at, updated_at`

func (r *repository) Get(ctx context.Context, id int64) (*Order, error) {
	var o Order
	err := r.pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id,
	).Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	if err := r.attachDetails(ctx, []*Order{&o}); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) List(ctx context.Context, limit, offset int) ([]Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders ORDER BY id DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	refs := make([]*Order, len(out))
	for i := range out {
		refs[i] = &out[i]
	}
	if err := r.attachDetails(ctx, refs); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// attachDetails loads line items and prescriptions for the given orders in
// two batched queries.
func (r *repository) attachDetails(ctx context.Context, orders []*Order) error {
	if len(orders) == 0 {
		return nil
	}

	byID := make(map[int64]*Order, len(orders))
	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
		ids = append(ids, o.ID)
	}

	itemRows, err := r.pool.Query(ctx,
		`SELECT order_id, product_id, quantity, price_at_time
		 FROM order_items WHERE order_id = ANY($1) ORDER BY order_id, product_id`, ids)
	if err != nil {
		return err
	}
	defer itemRows.Close()
	for itemRows.Next() {
		var orderID int64
		var item Item
		if err := itemRows.Scan(&orderID, &item.ProductID, &item.Quantity, &item.PriceAtTime); err != nil {
			return err
		}
		if o, ok := byID[orderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	if err := itemRows.Err(); err != nil {
		return err
	}

	rxRows, err := r.pool.Query(ctx,
		`SELECT `+prescriptionColumns+` FROM prescriptions WHERE order_id = ANY($1)`, ids)
	if err != nil {
		return err
	}
	defer rxRows.Close()
	for rxRows.Next() {
		var p Prescription
		if err := scanPrescription(rxRows, &p); err != nil {
			return err
		}
		if o, ok := byID[p.OrderID]; ok {
			o.Prescription = &p
		}
	}
	return rxRows.Err()
}

const prescriptionColumns = `id, order_id,
	right_eye_sphere, right_eye_cylinder, right_eye_axis, right_eye_add,
	left_eye_sphere, left_eye_cylinder, left_eye_axis, left_eye_add,
	material, treatment, requires_add, notes, created_at, updated_at`

func scanPrescription(row pgx.Row, p *Prescription) error {
	return row.Scan(&p.ID, &p.OrderID,
		&p.RightEyeSphere, &p.RightEyeCylinder, &p.RightEyeAxis, &p.RightEyeAdd,
		&p.LeftEyeSphere, &p.LeftEyeCylinder, &p.LeftEyeAxis, &p.LeftEyeAdd,
		&p.Material, &p.Treatment, &p.RequiresAdd, &p.Notes, &p.CreatedAt, &p.UpdatedAt)
}

type txRepository struct {
	tx pgx.Tx
}

// GetProductForUpdate locks the product row for the rest of the transaction
// so the stock check-then-decrement cannot race a concurrent order.
func (t *txRepository) GetProductForUpdate(ctx context.Context, id int64) (*LockedProduct, error) {
	var p LockedProduct
	err := t.tx.QueryRow(ctx,
		`SELECT id, name, price, stock FROM products WHERE id = $1 FOR UPDATE`, id,
	).Scan(&p.ID, &p.Name, &p.Price, &p.Stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (t *txRepository) SetProductStock(ctx context.Context, id int64, stock int) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE products SET stock = $1, updated_at = $2 WHERE id = $3`,
		stock, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (t *txRepository) InsertOrder(ctx context.Context, order *Order) error {
	now := time.Now().UTC()
	err := t.tx.QueryRow(ctx,
		`INSERT INTO orders (user_id, total_amount, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $4) RETURNING id`,
		order.UserID, order.TotalAmount, order.Status, now,
	).Scan(&order.ID)
	if err != nil {
		return err
	}
	order.CreatedAt = now
	order.UpdatedAt = now
	return nil
}

func (t *txRepository) InsertItem(ctx context.Context, orderID int64, item Item) error {
	_, err := t.tx.Exec(ctx,
		`INSERT INTO order_items (order_id, product_id, quantity, price_at_time)
		 VALUES ($1, $2, $3, $4)`,
		orderID, item.ProductID, item.Quantity, item.PriceAtTime)
	return err
}

func (t *txRepository) InsertPrescription(ctx context.Context, p *Prescription) error {
	now := time.Now().UTC()
	err := t.tx.QueryRow(ctx,
		`INSERT INTO prescriptions (order_id,
			right_eye_sphere, right_eye_cylinder, right_eye_axis, right_eye_add,
			left_eye_sphere, left_eye_cylinder, left_eye_axis, left_eye_add,
			material, treatment, requires_add, notes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $14)
		 RETURNING id`,
		p.OrderID,
		p.RightEyeSphere, p.RightEyeCylinder, p.RightEyeAxis, p.RightEyeAdd,
		p.LeftEyeSphere, p.LeftEyeCylinder, p.LeftEyeAxis, p.LeftEyeAdd,
		p.Material, p.Treatment, p.RequiresAdd, p.Notes, now,
	).Scan(&p.ID)
	if err != nil {
		return err
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}
