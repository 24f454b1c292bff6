package labs

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/optica-pos/optica-pos/internal/orders"
	"github.com/optica-pos/optica-pos/internal/shared"
)

// Repository defines persistence operations for lab orders and the
// prescriptions they reference.
type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]LabOrder, error)
	Get(ctx context.Context, id int64) (*LabOrder, error)
	Create(ctx context.Context, lab LabOrder) (*LabOrder, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error
	UpdateNotes(ctx context.Context, id int64, notes string) error

	GetPrescription(ctx context.Context, id int64) (*orders.Prescription, error)
	UpdatePrescription(ctx context.Context, id int64, req orders.PrescriptionRequest) (*orders.Prescription, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const labColumns = `id, prescription_id, status, notes, created_at, updated_at`

func (r *repository) List(ctx context.Context, filters ListFilters) ([]LabOrder, error) {
	query := `SELECT ` + labColumns + ` FROM lab_orders`
	args := []any{}
	if filters.Status != nil {
		query += ` WHERE status = $1`
		args = append(args, *filters.Status)
	}
	query += ` ORDER BY id DESC`
	if filters.Limit > 0 {
		args = append(args, filters.Limit, filters.Offset)
		query += ` LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LabOrder
	for rows.Next() {
		var lab LabOrder
		if err := scanLab(rows, &lab); err != nil {
			return nil, err
		}
		out = append(out, lab)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (*LabOrder, error) {
	var lab LabOrder
	err := scanLab(r.pool.QueryRow(ctx,
		`SELECT `+labColumns+` FROM lab_orders WHERE id = $1`, id), &lab)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &lab, nil
}

func (r *repository) Create(ctx context.Context, lab LabOrder) (*LabOrder, error) {
	now := time.Now().UTC()
	err := r.pool.QueryRow(ctx,
		`INSERT INTO lab_orders (prescription_id, status, notes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $4) RETURNING id`,
		lab.PrescriptionID, lab.Status, lab.Notes, now,
	).Scan(&lab.ID)
	if err != nil {
		return nil, err
	}
	lab.CreatedAt = now
	lab.UpdatedAt = now
	return &lab, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	return r.exec(ctx,
		`UPDATE lab_orders SET status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now().UTC(), id)
}

func (r *repository) UpdateNotes(ctx context.Context, id int64, notes string) error {
	return r.exec(ctx,
		`UPDATE lab_orders SET notes = $1, updated_at = $2 WHERE id = $3`,
		notes, time.Now().UTC(), id)
}

func (r *repository) GetPrescription(ctx context.Context, id int64) (*orders.Prescription, error) {
	var p orders.Prescription
	err := r.pool.QueryRow(ctx,
		`SELECT id, order_id,
			right_eye_sphere, right_eye_cylinder, right_eye_axis, right_eye_add,
			left_eye_sphere, left_eye_cylinder, left_eye_axis, left_eye_add,
			material, treatment, requires_add, notes, created_at, updated_at
		 FROM prescriptions WHERE id = $1`, id,
	).Scan(&p.ID, &p.OrderID,
		&p.RightEyeSphere, &p.RightEyeCylinder, &p.RightEyeAxis, &p.RightEyeAdd,
		&p.LeftEyeSphere, &p.LeftEyeCylinder, &p.LeftEyeAxis, &p.LeftEyeAdd,
		&p.Material, &p.Treatment, &p.RequiresAdd, &p.Notes, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) UpdatePrescription(ctx context.Context, id int64, req orders.PrescriptionRequest) (*orders.Prescription, error) {
	query := `
		UPDATE prescriptions SET
			right_eye_sphere = $1, right_eye_cylinder = $2, right_eye_axis = $3, right_eye_add = $4,
			left_eye_sphere = $5, left_eye_cylinder = $6, left_eye_axis = $7, left_eye_add = $8,
			material = $9, treatment = $10, requires_add = $11, notes = $12, updated_at = $13
		WHERE id = $14
		RETURNING id, order_id,
			right_eye_sphere, right_eye_cylinder, right_eye_axis, right_eye_add,
			left_eye_sphere, left_eye_cylinder, left_eye_axis, left_eye_add,
			material, treatment, requires_add, notes, created_at, updated_at
	`
	var p orders.Prescription
	err := r.pool.QueryRow(ctx, query,
		req.RightEyeSphere, req.RightEyeCylinder, req.RightEyeAxis, req.RightEyeAdd,
		req.LeftEyeSphere, req.LeftEyeCylinder, req.LeftEyeAxis, req.LeftEyeAdd,
		req.Material, req.Treatment, req.RequiresAdd, req.Notes, time.Now().UTC(), id,
	).Scan(&p.ID, &p.OrderID,
		&p.RightEyeSphere, &p.RightEyeCylinder, &p.RightEyeAxis, &p.RightEyeAdd,
		&p.LeftEyeSphere, &p.LeftEyeCylinder, &p.LeftEyeAxis, &p.LeftEyeAdd,
		&p.Material, &p.Treatment, &p.RequiresAdd, &p.Notes, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) exec(ctx context.Context, query string, args ...any) error {
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanLab(row pgx.Row, lab *LabOrder) error {
	return row.Scan(&lab.ID, &lab.PrescriptionID, &lab.Status, &lab.Notes, &lab.CreatedAt, &lab.UpdatedAt)
}
