package expenses

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/optica-pos/optica-pos/internal/shared"
)

// Repository defines persistence operations for expenses.
type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Expense, error)
	Get(ctx context.Context, id int64) (*Expense, error)
	Create(ctx context.Context, expense Expense) (*Expense, error)
	Update(ctx context.Context, id int64, expense Expense) (*Expense, error)
	Delete(ctx context.Context, id int64) error
	TotalSince(ctx context.Context, since time.Time) (float64, error)
	TotalsByCategory(ctx context.Context, since time.Time) ([]CategoryTotal, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const expenseColumns = `id, amount, description, category, date, created_by, created_at, updated_at`

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE 1=1`
	args := []any{}

	if filters.StartDate != nil && filters.EndDate != nil {
		args = append(args, *filters.StartDate)
		query += ` AND date >= $` + strconv.Itoa(len(args))
		args = append(args, filters.EndDate.AddDate(0, 0, 1))
		query += ` AND date < $` + strconv.Itoa(len(args))
	}
	if filters.Category != nil {
		args = append(args, *filters.Category)
		query += ` AND category = $` + strconv.Itoa(len(args))
	}

	query += ` ORDER BY date DESC`
	if filters.Limit > 0 {
		args = append(args, filters.Limit, filters.Offset)
		query += ` LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Expense
	for rows.Next() {
		var e Expense
		if err := scanExpense(rows, &e); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (*Expense, error) {
	var e Expense
	err := scanExpense(r.pool.QueryRow(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, id), &e)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *repository) Create(ctx context.Context, expense Expense) (*Expense, error) {
	now := time.Now().UTC()
	err := r.pool.QueryRow(ctx,
		`INSERT INTO expenses (amount, description, category, date, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $6) RETURNING id`,
		expense.Amount, expense.Description, expense.Category, expense.Date, expense.CreatedBy, now,
	).Scan(&expense.ID)
	if err != nil {
		return nil, err
	}
	expense.CreatedAt = now
	expense.UpdatedAt = now
	return &expense, nil
}

func (r *repository) Update(ctx context.Context, id int64, expense Expense) (*Expense, error) {
	var updated Expense
	err := scanExpense(r.pool.QueryRow(ctx,
		`UPDATE expenses
		 SET amount = $1, description = $2, category = $3, date = $4, updated_at = $5
		 WHERE id = $6
		 RETURNING `+expenseColumns,
		expense.Amount, expense.Description, expense.Category, expense.Date, time.Now().UTC(), id,
	), &updated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &updated, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) TotalSince(ctx context.Context, since time.Time) (float64, error) {
	var total float64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE date >= $1`, since).Scan(&total)
	return total, err
}

func (r *repository) TotalsByCategory(ctx context.Context, since time.Time) ([]CategoryTotal, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT category, SUM(amount) FROM expenses WHERE date >= $1 GROUP BY category ORDER BY category`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CategoryTotal
	for rows.Next() {
		var row CategoryTotal
		if err := rows.Scan(&row.Category, &row.Total); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func scanExpense(row pgx.Row, e *Expense) error {
	return row.Scan(&e.ID, &e.Amount, &e.Description, &e.Category, &e.Date, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt)
}
