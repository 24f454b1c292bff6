package reports

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository runs the aggregate queries behind the reports. All sales
// figures count only completed orders.
type Repository interface {
	SalesTotals(ctx context.Context, start, end time.Time) (SalesTotals, error)
	HourlySales(ctx context.Context, start, end time.Time) ([]HourBucket, error)
	DailySales(ctx context.Context, start, end time.Time) ([]DayBucket, error)
	ProductMovement(ctx context.Context, start, end *time.Time, limit int) ([]ProductSales, error)
	LowStock(ctx context.Context, threshold int) ([]LowStockProduct, error)
	AverageOrderValue(ctx context.Context, start, end time.Time) (float64, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) SalesTotals(ctx context.Context, start, end time.Time) (SalesTotals, error) {
	var t SalesTotals
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(id), COALESCE(SUM(total_amount), 0)
		 FROM orders
		 WHERE created_at >= $1 AND created_at < $2 AND status = 'completed'`,
		start, end,
	).Scan(&t.TotalOrders, &t.TotalSales)
	return t, err
}

func (r *repository) HourlySales(ctx context.Context, start, end time.Time) ([]HourBucket, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT EXTRACT(HOUR FROM created_at)::int, COUNT(id), COALESCE(SUM(total_amount), 0)
		 FROM orders
		 WHERE created_at >= $1 AND created_at < $2 AND status = 'completed'
		 GROUP BY 1 ORDER BY 1`,
		start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HourBucket
	for rows.Next() {
		var b HourBucket
		if err := rows.Scan(&b.Hour, &b.Orders, &b.Sales); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *repository) DailySales(ctx context.Context, start, end time.Time) ([]DayBucket, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT created_at::date, COUNT(id), COALESCE(SUM(total_amount), 0)
		 FROM orders
		 WHERE created_at >= $1 AND created_at < $2 AND status = 'completed'
		 GROUP BY 1 ORDER BY 1`,
		start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DayBucket
	for rows.Next() {
		var b DayBucket
		var day time.Time
		if err := rows.Scan(&day, &b.Orders, &b.Sales); err != nil {
			return nil, err
		}
		b.Date = day.Format("2006-01-02")
		out = append(out, b)
	}
	return out, rows.Err()
}

// ProductMovement aggregates per-product sales through the order line items.
// Revenue is the snapshot price times quantity, so it reflects what was
// actually charged. A nil start/end drops the date filter; limit 0 means
// unbounded.
func (r *repository) ProductMovement(ctx context.Context, start, end *time.Time, limit int) ([]ProductSales, error) {
	query := `
		SELECT p.id, p.name, COUNT(DISTINCT o.id), COALESCE(SUM(oi.price_at_time * oi.quantity), 0)
		FROM products p
		JOIN order_items oi ON oi.product_id = p.id
		JOIN orders o ON o.id = oi.order_id
		WHERE o.status = 'completed'
	`
	args := []any{}
	if start != nil && end != nil {
		args = append(args, *start, *end)
		query += ` AND o.created_at >= $1 AND o.created_at < $2`
	}
	query += ` GROUP BY p.id, p.name ORDER BY COUNT(DISTINCT o.id) DESC, p.id`
	if limit > 0 {
		args = append(args, limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ProductSales
	for rows.Next() {
		var p ProductSales
		if err := rows.Scan(&p.ID, &p.Name, &p.TimesSold, &p.TotalRevenue); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *repository) LowStock(ctx context.Context, threshold int) ([]LowStockProduct, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, stock, updated_at FROM products WHERE stock <= $1 ORDER BY stock ASC, id ASC`,
		threshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LowStockProduct
	for rows.Next() {
		var p LowStockProduct
		if err := rows.Scan(&p.ID, &p.Name, &p.CurrentStock, &p.LastUpdated); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *repository) AverageOrderValue(ctx context.Context, start, end time.Time) (float64, error) {
	var avg float64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(AVG(total_amount), 0)
		 FROM orders
		 WHERE created_at >= $1 AND created_at < $2 AND status = 'completed'`,
		start, end,
	).Scan(&avg)
	return avg, err
}
