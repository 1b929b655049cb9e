package repository

import (
	"context"

	"github.com/jhoicas/Paleteria-ledger/internal/domain/entity"
)

// LedgerRepository es el ledger append-only por (canal, tipo).
// La supersesión nunca muta filas in place: es borrar-por-origen e insertar.
type LedgerRepository interface {
	// ReadAll devuelve todas las filas del ledger, de-duplicadas
	// defensivamente por ID (protege contra ediciones manuales del store).
	ReadAll(ctx context.Context, scope, kind string) ([]entity.LedgerEntry, error)

	// FindByOrigin devuelve las filas vigentes de un origen.
	FindByOrigin(ctx context.Context, scope, kind, origin string) ([]entity.LedgerEntry, error)

	// Upsert elimina las filas existentes del origen del lote y agrega las
	// nuevas, para el ledger seleccionado por (canal, tipo).
	Upsert(ctx context.Context, scope, kind, origin string, rows []entity.LedgerEntry) error
}
