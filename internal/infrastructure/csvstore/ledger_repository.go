package csvstore

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Paleteria-ledger/internal/domain/entity"
	"github.com/jhoicas/Paleteria-ledger/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

var ledgerHeader = []string{"id", "origen", "fecha", "sku", "cantidad", "precio_unit", "importe", "pago", "notas"}

// LedgerRepo implementación de LedgerRepository sobre archivos CSV planos,
// uno por (canal, tipo). El upsert reescribe el archivo completo (tmp +
// rename): borrar-por-origen más append, nunca mutación in place.
type LedgerRepo struct {
	dataDir string
}

// NewLedgerRepository construye el adaptador sobre dataDir.
func NewLedgerRepository(dataDir string) *LedgerRepo {
	return &LedgerRepo{dataDir: dataDir}
}

// fileFor mapea (canal, tipo) a su archivo. Los traslados viven en un solo
// ledger dedicado: un traslado es un asiento único que afecta ambos canales.
func (r *LedgerRepo) fileFor(scope, kind string) string {
	switch kind {
	case entity.KindVenta:
		return filepath.Join(r.dataDir, "ventas_"+scope+".csv")
	case entity.KindProduccion:
		return filepath.Join(r.dataDir, "produccion_"+scope+".csv")
	case entity.KindTraslado:
		return filepath.Join(r.dataDir, "traslados.csv")
	default:
		return filepath.Join(r.dataDir, "ledger_"+scope+"_"+kind+".csv")
	}
}

// ReadAll devuelve todas las filas, de-duplicadas por ID (gana la última:
// protege contra duplicados introducidos por ediciones manuales del CSV).
func (r *LedgerRepo) ReadAll(ctx context.Context, scope, kind string) ([]entity.LedgerEntry, error) {
	rows, err := r.readFile(r.fileFor(scope, kind))
	if err != nil {
		return nil, err
	}
	seen := make(map[string]int, len(rows))
	out := make([]entity.LedgerEntry, 0, len(rows))
	for _, row := range rows {
		if idx, dup := seen[row.ID]; dup {
			out[idx] = row
			continue
		}
		seen[row.ID] = len(out)
		out = append(out, row)
	}
	return out, nil
}

// FindByOrigin devuelve las filas vigentes de un origen.
func (r *LedgerRepo) FindByOrigin(ctx context.Context, scope, kind, origin string) ([]entity.LedgerEntry, error) {
	rows, err := r.ReadAll(ctx, scope, kind)
	if err != nil {
		return nil, err
	}
	var out []entity.LedgerEntry
	for _, row := range rows {
		if row.Origin == origin {
			out = append(out, row)
		}
	}
	return out, nil
}

// Upsert elimina las filas del origen y agrega las nuevas al final.
func (r *LedgerRepo) Upsert(ctx context.Context, scope, kind, origin string, rows []entity.LedgerEntry) error {
	path := r.fileFor(scope, kind)
	existing, err := r.readFile(path)
	if err != nil {
		return err
	}
	kept := make([]entity.LedgerEntry, 0, len(existing)+len(rows))
	for _, row := range existing {
		if row.Origin != origin {
			kept = append(kept, row)
		}
	}
	kept = append(kept, rows...)

	records := make([][]string, 0, len(kept)+1)
	records = append(records, ledgerHeader)
	for _, row := range kept {
		records = append(records, []string{
			row.ID,
			row.Origin,
			row.Fecha,
			row.SKU,
			strconv.Itoa(row.Cantidad),
			row.PrecioUnit.StringFixed(2),
			row.Importe.StringFixed(2),
			row.Pago,
			row.Notas,
		})
	}
	return writeAtomic(path, records)
}

// readFile parsea el archivo del ledger. Filas malformadas se descartan:
// el store puede haber sido editado a mano y una fila rota no debe impedir
// leer el resto.
func (r *LedgerRepo) readFile(path string) ([]entity.LedgerEntry, error) {
	records, err := readRecords(path)
	if err != nil {
		return nil, fmt.Errorf("ledger: %w", err)
	}
	var out []entity.LedgerEntry
	for i, rec := range records {
		if i == 0 && len(rec) > 0 && rec[0] == "id" {
			continue // encabezado
		}
		if len(rec) < 7 {
			continue
		}
		cantidad, err := strconv.Atoi(rec[4])
		if err != nil {
			continue
		}
		precio, err := decimal.NewFromString(rec[5])
		if err != nil {
			continue
		}
		importe, err := decimal.NewFromString(rec[6])
		if err != nil {
			continue
		}
		row := entity.LedgerEntry{
			ID:         rec[0],
			Origin:     rec[1],
			Fecha:      rec[2],
			SKU:        rec[3],
			Cantidad:   cantidad,
			PrecioUnit: precio,
			Importe:    importe,
		}
		if len(rec) > 7 {
			row.Pago = rec[7]
		}
		if len(rec) > 8 {
			row.Notas = rec[8]
		}
		out = append(out, row)
	}
	return out, nil
}
