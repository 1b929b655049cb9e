package csvstore

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Paleteria-ledger/internal/domain/entity"
	"github.com/jhoicas/Paleteria-ledger/internal/domain/identity"
	"github.com/jhoicas/Paleteria-ledger/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

var inventoryHeader = []string{"item", "descripcion", "stock", "precio"}

// InventoryRepo implementación de InventoryRepository sobre CSV, un archivo
// por canal con el esquema histórico item,descripcion,stock,precio.
// El product_id no se persiste: se deriva del SKU al leer.
type InventoryRepo struct {
	dataDir string
}

// NewInventoryRepository construye el adaptador sobre dataDir.
func NewInventoryRepository(dataDir string) *InventoryRepo {
	return &InventoryRepo{dataDir: dataDir}
}

func (r *InventoryRepo) fileFor(scope string) string {
	if scope == entity.ScopeMercado {
		return filepath.Join(r.dataDir, "inventory_mercado.csv")
	}
	return filepath.Join(r.dataDir, "inventory.csv")
}

// ReadAll devuelve todos los registros del canal.
func (r *InventoryRepo) ReadAll(ctx context.Context, scope string) ([]entity.InventoryRecord, error) {
	records, err := readRecords(r.fileFor(scope))
	if err != nil {
		return nil, fmt.Errorf("inventario: %w", err)
	}
	var out []entity.InventoryRecord
	for i, rec := range records {
		if i == 0 && len(rec) > 0 && rec[0] == "item" {
			continue // encabezado
		}
		if len(rec) < 3 || rec[0] == "" {
			continue
		}
		stock, err := strconv.Atoi(rec[2])
		if err != nil {
			continue
		}
		row := entity.InventoryRecord{
			ProductID:   identity.ProductID(rec[0]),
			SKU:         rec[0],
			Descripcion: rec[1],
			Stock:       stock,
		}
		if len(rec) > 3 && rec[3] != "" {
			if p, err := decimal.NewFromString(rec[3]); err == nil {
				row.Precio = &p
			}
		}
		out = append(out, row)
	}
	return out, nil
}

// Get devuelve el registro del SKU, o nil si no existe.
func (r *InventoryRepo) Get(ctx context.Context, scope, sku string) (*entity.InventoryRecord, error) {
	rows, err := r.ReadAll(ctx, scope)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].SKU == sku {
			return &rows[i], nil
		}
	}
	return nil, nil
}

// Upsert inserta o reemplaza el registro y reescribe el archivo ordenado
// por item, el orden histórico del inventario.
func (r *InventoryRepo) Upsert(ctx context.Context, scope string, rec *entity.InventoryRecord) error {
	rows, err := r.ReadAll(ctx, scope)
	if err != nil {
		return err
	}
	replaced := false
	for i := range rows {
		if rows[i].SKU == rec.SKU {
			rows[i] = *rec
			replaced = true
			break
		}
	}
	if !replaced {
		rows = append(rows, *rec)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].SKU < rows[j].SKU })
	return r.writeAll(scope, rows)
}

func (r *InventoryRepo) writeAll(scope string, rows []entity.InventoryRecord) error {
	records := make([][]string, 0, len(rows)+1)
	records = append(records, inventoryHeader)
	for _, row := range rows {
		precio := ""
		if row.Precio != nil {
			precio = row.Precio.StringFixed(2)
		}
		records = append(records, []string{row.SKU, row.Descripcion, strconv.Itoa(row.Stock), precio})
	}
	return writeAtomic(r.fileFor(scope), records)
}
