package csvstore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Paleteria-ledger/internal/domain/entity"
	"github.com/jhoicas/Paleteria-ledger/internal/infrastructure/csvstore"
)

func entry(id, origin, fecha, sku string, cantidad int, precio string) entity.LedgerEntry {
	p := decimal.RequireFromString(precio)
	e := entity.LedgerEntry{
		ID: id, Origin: origin, Fecha: fecha, SKU: sku,
		Cantidad: cantidad, PrecioUnit: p,
		Pago: entity.PaymentEfectivo,
	}
	e.ComputeImporte()
	return e
}

func TestLedger_ArchivoAusenteEsVacio(t *testing.T) {
	repo := csvstore.NewLedgerRepository(t.TempDir())
	rows, err := repo.ReadAll(context.Background(), entity.ScopeGeneral, entity.KindVenta)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestLedger_UpsertYReadAll(t *testing.T) {
	ctx := context.Background()
	repo := csvstore.NewLedgerRepository(t.TempDir())

	in := []entity.LedgerEntry{
		entry("id-1", "issue-1", "2025-10-15", "SKU-A", 3, "10.00"),
		entry("id-2", "issue-1", "2025-10-15", "SKU-B", 1, "25.00"),
	}
	require.NoError(t, repo.Upsert(ctx, entity.ScopeGeneral, entity.KindVenta, "issue-1", in))

	rows, err := repo.ReadAll(ctx, entity.ScopeGeneral, entity.KindVenta)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "id-1", rows[0].ID)
	assert.Equal(t, 3, rows[0].Cantidad)
	assert.True(t, rows[0].PrecioUnit.Equal(decimal.RequireFromString("10.00")))
	assert.True(t, rows[0].Importe.Equal(decimal.RequireFromString("30.00")))
	assert.Equal(t, entity.PaymentEfectivo, rows[0].Pago)
}

// El upsert reemplaza todas las filas del origen; las de otros orígenes quedan.
func TestLedger_UpsertSupersedePorOrigen(t *testing.T) {
	ctx := context.Background()
	repo := csvstore.NewLedgerRepository(t.TempDir())

	require.NoError(t, repo.Upsert(ctx, entity.ScopeGeneral, entity.KindVenta, "issue-1", []entity.LedgerEntry{
		entry("id-1", "issue-1", "2025-10-15", "SKU-A", 3, "10.00"),
		entry("id-2", "issue-1", "2025-10-15", "SKU-B", 1, "25.00"),
	}))
	require.NoError(t, repo.Upsert(ctx, entity.ScopeGeneral, entity.KindVenta, "issue-2", []entity.LedgerEntry{
		entry("id-3", "issue-2", "2025-10-16", "SKU-A", 2, "10.00"),
	}))
	require.NoError(t, repo.Upsert(ctx, entity.ScopeGeneral, entity.KindVenta, "issue-1", []entity.LedgerEntry{
		entry("id-4", "issue-1", "2025-10-15", "SKU-A", 5, "10.00"),
	}))

	rows, err := repo.ReadAll(ctx, entity.ScopeGeneral, entity.KindVenta)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	ids := []string{rows[0].ID, rows[1].ID}
	assert.ElementsMatch(t, []string{"id-3", "id-4"}, ids, "quedan la fila ajena y la versión nueva")
}

func TestLedger_FindByOrigin(t *testing.T) {
	ctx := context.Background()
	repo := csvstore.NewLedgerRepository(t.TempDir())

	require.NoError(t, repo.Upsert(ctx, entity.ScopeGeneral, entity.KindVenta, "issue-1", []entity.LedgerEntry{
		entry("id-1", "issue-1", "2025-10-15", "SKU-A", 3, "10.00"),
	}))
	require.NoError(t, repo.Upsert(ctx, entity.ScopeGeneral, entity.KindVenta, "issue-2", []entity.LedgerEntry{
		entry("id-2", "issue-2", "2025-10-16", "SKU-B", 1, "25.00"),
	}))

	rows, err := repo.FindByOrigin(ctx, entity.ScopeGeneral, entity.KindVenta, "issue-1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "id-1", rows[0].ID)

	none, err := repo.FindByOrigin(ctx, entity.ScopeGeneral, entity.KindVenta, "issue-99")
	require.NoError(t, err)
	assert.Empty(t, none)
}

// Cada (canal, tipo) vive en su propio archivo; los traslados comparten uno.
func TestLedger_ArchivosPorCanalYTipo(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	repo := csvstore.NewLedgerRepository(dir)

	require.NoError(t, repo.Upsert(ctx, entity.ScopeGeneral, entity.KindVenta, "i1", []entity.LedgerEntry{entry("a", "i1", "2025-10-15", "SKU-A", 1, "10.00")}))
	require.NoError(t, repo.Upsert(ctx, entity.ScopeMercado, entity.KindVenta, "i2", []entity.LedgerEntry{entry("b", "i2", "2025-10-15", "SKU-A", 1, "10.00")}))
	require.NoError(t, repo.Upsert(ctx, entity.ScopeGeneral, entity.KindProduccion, "i3", []entity.LedgerEntry{entry("c", "i3", "2025-10-15", "SKU-A", 1, "0")}))
	require.NoError(t, repo.Upsert(ctx, entity.ScopeGeneral, entity.KindTraslado, "i4", []entity.LedgerEntry{entry("d", "i4", "2025-10-15", "SKU-A", 1, "0")}))

	for _, name := range []string{"ventas_general.csv", "ventas_mercado.csv", "produccion_general.csv", "traslados.csv"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, "debe existir %s", name)
	}
}

// Duplicados por ID (ediciones manuales del CSV): gana la última aparición.
func TestLedger_DedupePorID(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	contenido := "id,origen,fecha,sku,cantidad,precio_unit,importe,pago,notas\n" +
		"id-1,issue-1,2025-10-15,SKU-A,3,10.00,30.00,efectivo,\n" +
		"id-1,issue-1,2025-10-15,SKU-A,5,10.00,50.00,efectivo,\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ventas_general.csv"), []byte(contenido), 0o644))

	rows, err := csvstore.NewLedgerRepository(dir).ReadAll(ctx, entity.ScopeGeneral, entity.KindVenta)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 5, rows[0].Cantidad)
}

// Filas malformadas se descartan sin tumbar la lectura del resto.
func TestLedger_FilasMalformadasSeDescartan(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	contenido := "id,origen,fecha,sku,cantidad,precio_unit,importe,pago,notas\n" +
		"id-1,issue-1,2025-10-15,SKU-A,tres,10.00,30.00,efectivo,\n" +
		"id-2,issue-1,2025-10-15\n" +
		"id-3,issue-1,2025-10-15,SKU-B,2,25.00,50.00,efectivo,\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ventas_general.csv"), []byte(contenido), 0o644))

	rows, err := csvstore.NewLedgerRepository(dir).ReadAll(ctx, entity.ScopeGeneral, entity.KindVenta)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "id-3", rows[0].ID)
}
