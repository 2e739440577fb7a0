package postgres

import (
	"context"
	"fmt"
)

// schemaStatements crea el esquema de forma idempotente. El orden respeta las llaves foráneas.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGSERIAL PRIMARY KEY,
		username      VARCHAR(80)  NOT NULL UNIQUE,
		email         VARCHAR(255) NOT NULL DEFAULT '',
		password_hash VARCHAR(255) NOT NULL,
		role          VARCHAR(20)  NOT NULL CHECK (role IN ('user', 'store manager', 'admin')),
		status        VARCHAR(20)  NOT NULL CHECK (status IN ('approved', 'pending', 'rejected')),
		last_activity TIMESTAMPTZ  NOT NULL DEFAULT now(),
		created_at    TIMESTAMPTZ  NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS sections (
		id   BIGSERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id                 BIGSERIAL PRIMARY KEY,
		section_id         BIGINT NOT NULL REFERENCES sections(id) ON DELETE RESTRICT,
		name               VARCHAR(255)   NOT NULL,
		unit_type          VARCHAR(50)    NOT NULL,
		rate_per_unit      NUMERIC(12, 2) NOT NULL CHECK (rate_per_unit >= 0),
		quantity_available INTEGER        NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_section ON products(section_id)`,
	`CREATE TABLE IF NOT EXISTS section_requests (
		id               BIGSERIAL PRIMARY KEY,
		request_type     VARCHAR(10) NOT NULL CHECK (request_type IN ('create', 'edit', 'delete')),
		section_id       BIGINT,
		section_name     VARCHAR(255) NOT NULL DEFAULT '',
		status           VARCHAR(10) NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'approved', 'rejected')),
		requested_by     BIGINT NOT NULL REFERENCES users(id),
		resolved_by      BIGINT REFERENCES users(id),
		resolved_at      TIMESTAMPTZ,
		rejection_reason TEXT NOT NULL DEFAULT '',
		created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_section_requests_status ON section_requests(status)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id        BIGSERIAL PRIMARY KEY,
		user_id   BIGINT NOT NULL REFERENCES users(id),
		timestamp TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_user_ts ON orders(user_id, timestamp)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id           BIGSERIAL PRIMARY KEY,
		order_id     BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		product_id   BIGINT NOT NULL REFERENCES products(id),
		product_name VARCHAR(255)   NOT NULL,
		quantity     INTEGER        NOT NULL CHECK (quantity > 0),
		price        NUMERIC(12, 2) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS export_jobs (
		id           UUID PRIMARY KEY,
		status       VARCHAR(10) NOT NULL,
		file_path    TEXT NOT NULL DEFAULT '',
		error        TEXT NOT NULL DEFAULT '',
		requested_by BIGINT NOT NULL DEFAULT 0,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
		finished_at  TIMESTAMPTZ
	)`,
}

// EnsureSchema crea tablas e índices que falten. Es seguro ejecutarlo en cada arranque.
func EnsureSchema(ctx context.Context, q Querier) error {
	for i, stmt := range schemaStatements {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	return nil
}
