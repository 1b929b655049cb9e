package repository

import (
	"context"

	"github.com/jhoicas/Paleteria-ledger/internal/domain/entity"
)

// InventoryRepository es el snapshot mutable de stock, un registro por
// (canal, SKU). Solo el reconciliador lo muta.
type InventoryRepository interface {
	// ReadAll devuelve todos los registros del canal.
	ReadAll(ctx context.Context, scope string) ([]entity.InventoryRecord, error)

	// Get devuelve el registro del SKU en el canal, o nil si no existe.
	Get(ctx context.Context, scope, sku string) (*entity.InventoryRecord, error)

	// Upsert inserta o reemplaza el registro del SKU en el canal.
	Upsert(ctx context.Context, scope string, rec *entity.InventoryRecord) error
}

// CatalogRepository es el catálogo estático de productos (colaborador
// externo): SKU -> descripción y precio por defecto, o desconocido.
type CatalogRepository interface {
	Lookup(sku string) (*entity.CatalogItem, bool)
}
