// Command seed creates the database schema and a starter data set: an admin
// account and a handful of products. It is idempotent.
package main

import (
	"context"
	"log/slog"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/optica-pos/optica-pos/internal/app"
	"github.com/optica-pos/optica-pos/internal/platform/db"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id BIGSERIAL PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	username TEXT NOT NULL UNIQUE,
	full_name TEXT NOT NULL,
	hashed_password TEXT NOT NULL,
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	is_admin BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS products (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	description TEXT,
	price DOUBLE PRECISION NOT NULL CHECK (price >= 0),
	stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS orders (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL REFERENCES users(id),
	total_amount DOUBLE PRECISION NOT NULL,
	status TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS order_items (
	order_id BIGINT NOT NULL REFERENCES orders(id),
	product_id BIGINT NOT NULL REFERENCES products(id),
	quantity INTEGER NOT NULL,
	price_at_time DOUBLE PRECISION NOT NULL
);

CREATE TABLE IF NOT EXISTS prescriptions (
	id BIGSERIAL PRIMARY KEY,
	order_id BIGINT NOT NULL UNIQUE REFERENCES orders(id),
	right_eye_sphere TEXT NOT NULL,
	right_eye_cylinder TEXT NOT NULL,
	right_eye_axis TEXT NOT NULL,
	right_eye_add TEXT,
	left_eye_sphere TEXT NOT NULL,
	left_eye_cylinder TEXT NOT NULL,
	left_eye_axis TEXT NOT NULL,
	left_eye_add TEXT,
	material TEXT NOT NULL,
	treatment TEXT NOT NULL,
	requires_add BOOLEAN NOT NULL DEFAULT FALSE,
	notes TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS lab_orders (
	id BIGSERIAL PRIMARY KEY,
	prescription_id BIGINT NOT NULL REFERENCES prescriptions(id),
	status TEXT NOT NULL,
	notes TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS expenses (
	id BIGSERIAL PRIMARY KEY,
	amount DOUBLE PRECISION NOT NULL,
	description TEXT NOT NULL,
	category TEXT NOT NULL,
	date TIMESTAMPTZ NOT NULL,
	created_by BIGINT NOT NULL REFERENCES users(id),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS orders_created_at_idx ON orders (created_at);
CREATE INDEX IF NOT EXISTS order_items_order_id_idx ON order_items (order_id);
CREATE INDEX IF NOT EXISTS expenses_date_idx ON expenses (date);
`

func main() {
	ctx := context.Background()
	logger := slog.Default()

	cfg, err := app.LoadConfig()
	if err != nil {
		logger.Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, schema); err != nil {
		logger.Error("apply schema", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("schema applied")

	adminPassword := os.Getenv("SEED_ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "changeme-now"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("hash password", slog.Any("error", err))
		os.Exit(1)
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO users (email, username, full_name, hashed_password, is_active, is_admin)
		VALUES ('admin@optica.local', 'admin', 'Administrator', $1, TRUE, TRUE)
		ON CONFLICT (username) DO NOTHING`, string(hash))
	if err != nil {
		logger.Error("seed admin", slog.Any("error", err))
		os.Exit(1)
	}

	products := []struct {
		name  string
		desc  string
		price float64
		stock int
	}{
		{"Classic Aviator Frame", "Metal frame, gold finish", 89.90, 25},
		{"Round Acetate Frame", "Tortoise shell acetate", 74.50, 18},
		{"Single Vision Lens CR-39", "Standard plastic lens, pair", 45.00, 60},
		{"Progressive Lens Polycarbonate", "Impact resistant, pair", 210.00, 30},
		{"Lens Cleaning Kit", "Spray and microfibre cloth", 9.90, 100},
	}
	for _, p := range products {
		_, err := pool.Exec(ctx, `
			INSERT INTO products (name, description, price, stock)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (name) DO NOTHING`, p.name, p.desc, p.price, p.stock)
		if err != nil {
			logger.Error("seed product", slog.String("name", p.name), slog.Any("error", err))
			os.Exit(1)
		}
	}

	logger.Info("seed complete")
}
