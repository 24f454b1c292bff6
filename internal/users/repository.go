package users

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/optica-pos/optica-pos/internal/shared"
)

// ErrDuplicate indicates a unique-constraint violation on email or username.
var ErrDuplicate = errors.New("users: duplicate email or username")

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	List(ctx context.Context, limit, offset int) ([]User, error)
	Get(ctx context.Context, id int64) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, user User) (*User, error)
	Update(ctx context.Context, user User) error
	Delete(ctx context.Context, id int64) error
	SetAdmin(ctx context.Context, id int64, isAdmin bool) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) RepositoryPort {
	return &repository{pool: pool}
}

const userColumns = `id, email, username, full_name, hashed_password, is_active, is_admin, created_at`

func (r *repository) List(ctx context.Context, limit, offset int) ([]User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []User
	for rows.Next() {
		var u User
		if err := scanUser(rows, &u); err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	return result, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (*User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *repository) FindByUsername(ctx context.Context, username string) (*User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *repository) Create(ctx context.Context, user User) (*User, error) {
	query := `
		INSERT INTO users (email, username, full_name, hashed_password, is_active, is_admin, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	now := time.Now().UTC()
	err := r.pool.QueryRow(ctx, query,
		user.Email, user.Username, user.FullName, user.PasswordHash, user.IsActive, user.IsAdmin, now,
	).Scan(&user.ID)
	if err != nil {
		return nil, mapPGError(err)
	}
	user.CreatedAt = now
	return &user, nil
}

func (r *repository) Update(ctx context.Context, user User) error {
	query := `
		UPDATE users
		SET email = $1, username = $2, full_name = $3, hashed_password = $4
		WHERE id = $5
	`
	tag, err := r.pool.Exec(ctx, query, user.Email, user.Username, user.FullName, user.PasswordHash, user.ID)
	if err != nil {
		return mapPGError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) SetAdmin(ctx context.Context, id int64, isAdmin bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET is_admin = $1 WHERE id = $2`, isAdmin, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) findOne(ctx context.Context, query string, arg any) (*User, error) {
	var u User
	if err := scanUser(r.pool.QueryRow(ctx, query, arg), &u); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func scanUser(row pgx.Row, u *User) error {
	return row.Scan(&u.ID, &u.Email, &u.Username, &u.FullName, &u.PasswordHash, &u.IsActive, &u.IsAdmin, &u.CreatedAt)
}

func mapPGError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicate
	}
	return err
}
