package inventory

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/optica-pos/optica-pos/internal/shared"
)

// Repository defines persistence operations for products.
type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Product, error)
	LowStock(ctx context.Context, threshold int) ([]Product, error)
	Get(ctx context.Context, id int64) (*Product, error)
	FindByName(ctx context.Context, name string) (*Product, error)
	Create(ctx context.Context, product Product) (*Product, error)
	Update(ctx context.Context, id int64, product Product) (*Product, error)
	Delete(ctx context.Context, id int64) error
	AdjustStock(ctx context.Context, id int64, delta int) (*Product, error)
	Stats(ctx context.Context, threshold int) (Stats, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const productColumns = `id, name, description, price, stock, created_at, updated_at`

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	args := []any{}
	argCount := 0

	if filters.Search != "" {
		argCount++
		query += ` AND name ILIKE $` + strconv.Itoa(argCount)
		args = append(args, "%"+filters.Search+"%")
	}
	if filters.MaxStock != nil {
		argCount++
		query += ` AND stock <= $` + strconv.Itoa(argCount)
		args = append(args, *filters.MaxStock)
	}

	query += ` ORDER BY stock ASC, id ASC`

	if filters.Limit > 0 {
		argCount++
		query += ` LIMIT $` + strconv.Itoa(argCount)
		args = append(args, filters.Limit)

		argCount++
		query += ` OFFSET $` + strconv.Itoa(argCount)
		args = append(args, filters.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (r *repository) LowStock(ctx context.Context, threshold int) ([]Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE stock <= $1 ORDER BY stock ASC, id ASC`, threshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (r *repository) Get(ctx context.Context, id int64) (*Product, error) {
	return r.findOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

func (r *repository) FindByName(ctx context.Context, name string) (*Product, error) {
	return r.findOne(ctx, `SELECT `+productColumns+` FROM products WHERE name = $1`, name)
}

func (r *repository) Create(ctx context.Context, product Product) (*Product, error) {
	query := `
		INSERT INTO products (name, description, price, stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING id
	`
	now := time.Now().UTC()
	err := r.pool.QueryRow(ctx, query, product.Name, product.Description, product.Price, product.Stock, now).Scan(&product.ID)
	if err != nil {
		return nil, mapPGError(err)
	}
	product.CreatedAt = now
	product.UpdatedAt = now
	return &product, nil
}

func (r *repository) Update(ctx context.Context, id int64, product Product) (*Product, error) {
	query := `
		UPDATE products
		SET name = $1, description = $2, price = $3, stock = $4, updated_at = $5
		WHERE id = $6
		RETURNING ` + productColumns
	var updated Product
	err := scanProduct(r.pool.QueryRow(ctx, query,
		product.Name, product.Description, product.Price, product.Stock, time.Now().UTC(), id,
	), &updated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, mapPGError(err)
	}
	return &updated, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// AdjustStock applies a delta atomically. The WHERE guard keeps stock from
// ever going negative regardless of concurrent adjustments; zero rows with an
// existing product means the guard fired.
func (r *repository) AdjustStock(ctx context.Context, id int64, delta int) (*Product, error) {
	query := `
		UPDATE products
		SET stock = stock + $1, updated_at = $2
		WHERE id = $3 AND stock + $1 >= 0
		RETURNING ` + productColumns
	var updated Product
	err := scanProduct(r.pool.QueryRow(ctx, query, delta, time.Now().UTC(), id), &updated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, getErr := r.Get(ctx, id); getErr != nil {
				return nil, getErr
			}
			return nil, shared.ErrInsufficientStock
		}
		return nil, err
	}
	return &updated, nil
}

func (r *repository) Stats(ctx context.Context, threshold int) (Stats, error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(stock), 0),
		       COUNT(*) FILTER (WHERE stock <= $1),
		       COUNT(*) FILTER (WHERE stock = 0)
		FROM products
	`
	var s Stats
	err := r.pool.QueryRow(ctx, query, threshold).Scan(&s.TotalProducts, &s.TotalStock, &s.LowStockCount, &s.OutOfStock)
	return s, err
}

func (r *repository) findOne(ctx context.Context, query string, arg any) (*Product, error) {
	var p Product
	if err := scanProduct(r.pool.QueryRow(ctx, query, arg), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func collectProducts(rows pgx.Rows) ([]Product, error) {
	var products []Product
	for rows.Next() {
		var p Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func scanProduct(row pgx.Row, p *Product) error {
	return row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.CreatedAt, &p.UpdatedAt)
}

func mapPGError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateName
	}
	return err
}
