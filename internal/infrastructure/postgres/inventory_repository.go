package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Paleteria-ledger/internal/domain/entity"
	"github.com/jhoicas/Paleteria-ledger/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo implementación de InventoryRepository sobre PostgreSQL.
type InventoryRepo struct {
	pool *pgxpool.Pool
}

// NewInventoryRepository construye el adaptador.
func NewInventoryRepository(pool *pgxpool.Pool) *InventoryRepo {
	return &InventoryRepo{pool: pool}
}

// ReadAll devuelve todos los registros del canal, ordenados por item.
func (r *InventoryRepo) ReadAll(ctx context.Context, scope string) ([]entity.InventoryRecord, error) {
	query := `
		SELECT product_id, sku, descripcion, stock, precio
		FROM inventory_records WHERE scope = $1
		ORDER BY sku`
	rows, err := r.pool.Query(ctx, query, scope)
	if err != nil {
		return nil, fmt.Errorf("leer inventario: %w", err)
	}
	defer rows.Close()

	var out []entity.InventoryRecord
	for rows.Next() {
		var rec entity.InventoryRecord
		if err := rows.Scan(&rec.ProductID, &rec.SKU, &rec.Descripcion, &rec.Stock, &rec.Precio); err != nil {
			return nil, fmt.Errorf("scan de inventario: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterar inventario: %w", err)
	}
	return out, nil
}

// Get devuelve el registro del SKU en el canal, o nil si no existe.
func (r *InventoryRepo) Get(ctx context.Context, scope, sku string) (*entity.InventoryRecord, error) {
	query := `
		SELECT product_id, sku, descripcion, stock, precio
		FROM inventory_records WHERE scope = $1 AND sku = $2`
	var rec entity.InventoryRecord
	err := r.pool.QueryRow(ctx, query, scope, sku).Scan(
		&rec.ProductID, &rec.SKU, &rec.Descripcion, &rec.Stock, &rec.Precio,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventario: %w", err)
	}
	return &rec, nil
}

// Upsert inserta o actualiza el registro (por canal y SKU).
func (r *InventoryRepo) Upsert(ctx context.Context, scope string, rec *entity.InventoryRecord) error {
	query := `
		INSERT INTO inventory_records (scope, sku, product_id, descripcion, stock, precio)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (scope, sku)
		DO UPDATE SET descripcion = EXCLUDED.descripcion, stock = EXCLUDED.stock, precio = EXCLUDED.precio`
	_, err := r.pool.Exec(ctx, query, scope, rec.SKU, rec.ProductID, rec.Descripcion, rec.Stock, rec.Precio)
	if err != nil {
		return fmt.Errorf("upsert inventario: %w", err)
	}
	return nil
}
