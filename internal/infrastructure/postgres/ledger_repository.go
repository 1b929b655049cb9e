package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Paleteria-ledger/internal/domain/entity"
	"github.com/jhoicas/Paleteria-ledger/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo implementación de LedgerRepository sobre PostgreSQL, detrás del
// mismo puerto que el backend CSV. La supersesión es DELETE por origen más
// INSERT, en una transacción.
type LedgerRepo struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository construye el adaptador.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepo {
	return &LedgerRepo{pool: pool}
}

// ReadAll devuelve todas las filas del ledger (canal, tipo). La PK por
// (scope, kind, id) ya garantiza unicidad por identidad.
func (r *LedgerRepo) ReadAll(ctx context.Context, scope, kind string) ([]entity.LedgerEntry, error) {
	query := `
		SELECT id, origen, fecha, sku, cantidad, precio_unit, importe, pago, notas
		FROM ledger_entries WHERE scope = $1 AND kind = $2
		ORDER BY fecha, sku`
	rows, err := r.pool.Query(ctx, query, scope, kind)
	if err != nil {
		return nil, fmt.Errorf("leer ledger: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// FindByOrigin devuelve las filas vigentes de un origen.
func (r *LedgerRepo) FindByOrigin(ctx context.Context, scope, kind, origin string) ([]entity.LedgerEntry, error) {
	query := `
		SELECT id, origen, fecha, sku, cantidad, precio_unit, importe, pago, notas
		FROM ledger_entries WHERE scope = $1 AND kind = $2 AND origen = $3`
	rows, err := r.pool.Query(ctx, query, scope, kind, origin)
	if err != nil {
		return nil, fmt.Errorf("buscar ledger por origen: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// Upsert borra las filas del origen e inserta las nuevas, atómicamente.
func (r *LedgerRepo) Upsert(ctx context.Context, scope, kind, origin string, entries []entity.LedgerEntry) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("iniciar tx de ledger: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM ledger_entries WHERE scope = $1 AND kind = $2 AND origen = $3`,
		scope, kind, origin,
	); err != nil {
		return fmt.Errorf("superseder origen: %w", err)
	}
	for _, e := range entries {
		if _, err := tx.Exec(ctx, `
			INSERT INTO ledger_entries
				(id, scope, kind, origen, fecha, sku, cantidad, precio_unit, importe, pago, notas)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			e.ID, scope, kind, e.Origin, e.Fecha, e.SKU, e.Cantidad, e.PrecioUnit, e.Importe, e.Pago, e.Notas,
		); err != nil {
			return fmt.Errorf("insertar fila de ledger: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit de ledger: %w", err)
	}
	return nil
}

type pgxRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanEntries(rows pgxRows) ([]entity.LedgerEntry, error) {
	var out []entity.LedgerEntry
	for rows.Next() {
		var e entity.LedgerEntry
		if err := rows.Scan(&e.ID, &e.Origin, &e.Fecha, &e.SKU, &e.Cantidad,
			&e.PrecioUnit, &e.Importe, &e.Pago, &e.Notas); err != nil {
			return nil, fmt.Errorf("scan de fila de ledger: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterar ledger: %w", err)
	}
	return out, nil
}
