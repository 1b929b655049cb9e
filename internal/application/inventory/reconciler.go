// Package inventory aplica deltas de cantidad con signo al snapshot de stock.
package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/Paleteria-ledger/internal/domain"
	"github.com/jhoicas/Paleteria-ledger/internal/domain/entity"
	"github.com/jhoicas/Paleteria-ledger/internal/domain/identity"
	"github.com/jhoicas/Paleteria-ledger/internal/domain/repository"
)

// Reconciler muta el inventario de un canal. Es el único escritor del
// snapshot; debe invocarse exactamente una vez por transacción aceptada,
// ligado al upsert del ledger en el call site.
type Reconciler struct {
	repo    repository.InventoryRepository
	catalog repository.CatalogRepository
}

// NewReconciler construye el reconciliador.
func NewReconciler(repo repository.InventoryRepository, catalog repository.CatalogRepository) *Reconciler {
	return &Reconciler{repo: repo, catalog: catalog}
}

// Apply suma signo × cantidad al stock de cada item en el canal.
// Un SKU sin registro se auto-crea con stock 0 (enriquecido con descripción
// y precio del catálogo si existe) y luego recibe el delta. No hay clamp:
// el stock negativo es señal, no error.
func (r *Reconciler) Apply(ctx context.Context, scope string, items []entity.LineItem, sign int) error {
	if sign != 1 && sign != -1 {
		return fmt.Errorf("%w: signo %d (esperado +1 o -1)", domain.ErrInvalidInput, sign)
	}
	for _, it := range items {
		rec, err := r.repo.Get(ctx, scope, it.SKU)
		if err != nil {
			return fmt.Errorf("leer inventario %s/%s: %w", scope, it.SKU, err)
		}
		if rec == nil {
			rec = &entity.InventoryRecord{
				ProductID: identity.ProductID(it.SKU),
				SKU:       it.SKU,
			}
			if cat, ok := r.catalog.Lookup(it.SKU); ok {
				rec.Descripcion = cat.Descripcion
				rec.Precio = cat.Precio
			}
		}
		rec.Stock += sign * it.Cantidad
		if err := r.repo.Upsert(ctx, scope, rec); err != nil {
			return fmt.Errorf("guardar inventario %s/%s: %w", scope, it.SKU, err)
		}
	}
	return nil
}
