package commissions

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository runs the per-seller sales aggregates. Only completed orders
// count toward commission.
type Repository interface {
	SalesByUser(ctx context.Context, start, end time.Time, userID *int64) ([]UserSales, error)
	TopSellers(ctx context.Context, start, end *time.Time, limit int) ([]UserSales, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const salesByUserQuery = `
	SELECT u.id, u.username, u.full_name, COUNT(o.id), COALESCE(SUM(o.total_amount), 0)
	FROM users u
	JOIN orders o ON o.user_id = u.id
	WHERE o.status = 'completed'
`

func (r *repository) SalesByUser(ctx context.Context, start, end time.Time, userID *int64) ([]UserSales, error) {
	query := salesByUserQuery + ` AND o.created_at >= $1 AND o.created_at < $2`
	args := []any{start, end}
	if userID != nil {
		args = append(args, *userID)
		query += ` AND u.id = $3`
	}
	query += ` GROUP BY u.id, u.username, u.full_name ORDER BY u.id`

	return r.query(ctx, query, args...)
}

func (r *repository) TopSellers(ctx context.Context, start, end *time.Time, limit int) ([]UserSales, error) {
	query := salesByUserQuery
	args := []any{}
	if start != nil && end != nil {
		args = append(args, *start, *end)
		query += ` AND o.created_at >= $1 AND o.created_at < $2`
	}
	query += ` GROUP BY u.id, u.username, u.full_name ORDER BY SUM(o.total_amount) DESC`
	args = append(args, limit)
	query += ` LIMIT $` + strconv.Itoa(len(args))

	return r.query(ctx, query, args...)
}

func (r *repository) query(ctx context.Context, query string, args ...any) ([]UserSales, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []UserSales
	for rows.Next() {
		var s UserSales
		if err := rows.Scan(&s.UserID, &s.Username, &s.FullName, &s.TotalOrders, &s.TotalSales); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
