package postgres

import (
	"context"
	"fmt"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Paleteria-ledger/pkg/config"
)

// NewPool crea un pool de conexiones PostgreSQL usando la configuración de
// la app. El pool es chico a propósito: el pipeline es de un solo escritor.
func NewPool(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}

	poolConfig.MaxConns = 4
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute

	// Registrar codec para NUMERIC/DECIMAL -> shopspring/decimal.
	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	return pool, nil
}

// schema mínimo de los stores. EnsureSchema es idempotente.
const schema = `
CREATE TABLE IF NOT EXISTS ledger_entries (
	id          TEXT NOT NULL,
	scope       TEXT NOT NULL,
	kind        TEXT NOT NULL,
	origen      TEXT NOT NULL,
	fecha       TEXT NOT NULL,
	sku         TEXT NOT NULL,
	cantidad    INTEGER NOT NULL,
	precio_unit NUMERIC(12,2) NOT NULL DEFAULT 0,
	importe     NUMERIC(12,2) NOT NULL DEFAULT 0,
	pago        TEXT NOT NULL DEFAULT '',
	notas       TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (scope, kind, id)
);
CREATE INDEX IF NOT EXISTS ledger_entries_origen_idx ON ledger_entries (scope, kind, origen);

CREATE TABLE IF NOT EXISTS inventory_records (
	scope       TEXT NOT NULL,
	sku         TEXT NOT NULL,
	product_id  TEXT NOT NULL,
	descripcion TEXT NOT NULL DEFAULT '',
	stock       INTEGER NOT NULL DEFAULT 0,
	precio      NUMERIC(12,2),
	PRIMARY KEY (scope, sku)
);
`

// EnsureSchema crea las tablas de los stores si no existen.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("crear esquema: %w", err)
	}
	return nil
}
