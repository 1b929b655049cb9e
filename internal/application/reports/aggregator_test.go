package reports_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Paleteria-ledger/internal/application/reports"
	"github.com/jhoicas/Paleteria-ledger/internal/domain/entity"
	"github.com/jhoicas/Paleteria-ledger/internal/infrastructure/csvstore"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seedFixture(t *testing.T) *reports.Aggregator {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()

	menu := `[{"item": "SKU-B", "descripcion": "Genérico B", "precio": 20.00}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "menu.json"), []byte(menu), 0o644))
	catalog, err := csvstore.LoadCatalog(filepath.Join(dir, "menu.json"))
	require.NoError(t, err)

	inv := csvstore.NewInventoryRepository(dir)
	precio := dec("10.00")
	require.NoError(t, inv.Upsert(ctx, entity.ScopeGeneral, &entity.InventoryRecord{
		SKU: "SKU-A", Descripcion: "Genérico A", Stock: 2, Precio: &precio,
	}))
	require.NoError(t, inv.Upsert(ctx, entity.ScopeGeneral, &entity.InventoryRecord{
		SKU: "SKU-B", Stock: 10,
	}))
	require.NoError(t, inv.Upsert(ctx, entity.ScopeMercado, &entity.InventoryRecord{
		SKU: "SKU-A", Descripcion: "Genérico A", Stock: 3,
	}))

	ledger := csvstore.NewLedgerRepository(dir)
	require.NoError(t, ledger.Upsert(ctx, entity.ScopeGeneral, entity.KindVenta, "issue-1", []entity.LedgerEntry{
		{ID: "a1", Origin: "issue-1", Fecha: "2025-10-16", SKU: "SKU-B", Cantidad: 1, PrecioUnit: dec("20.00"), Importe: dec("20.00"), Pago: entity.PaymentEfectivo},
	}))
	require.NoError(t, ledger.Upsert(ctx, entity.ScopeGeneral, entity.KindVenta, "issue-2", []entity.LedgerEntry{
		{ID: "a2", Origin: "issue-2", Fecha: "2025-10-15", SKU: "SKU-A", Cantidad: 3, PrecioUnit: dec("10.00"), Importe: dec("30.00"), Pago: entity.PaymentTarjeta},
		{ID: "a3", Origin: "issue-2", Fecha: "2025-10-15", SKU: "SKU-A", Cantidad: 2, PrecioUnit: dec("10.00"), Importe: dec("20.00"), Pago: entity.PaymentEfectivo},
	}))
	require.NoError(t, ledger.Upsert(ctx, entity.ScopeMercado, entity.KindVenta, "issue-3", []entity.LedgerEntry{
		{ID: "b1", Origin: "issue-3", Fecha: "2025-10-18", SKU: "PALETA-X", Cantidad: 4, PrecioUnit: dec("25.00"), Importe: dec("100.00"), Pago: entity.PaymentEfectivo},
	}))
	require.NoError(t, ledger.Upsert(ctx, entity.ScopeGeneral, entity.KindProduccion, "issue-4", []entity.LedgerEntry{
		{ID: "p1", Origin: "issue-4", Fecha: "2025-10-14", SKU: "SKU-A", Cantidad: 20, PrecioUnit: decimal.Zero, Importe: decimal.Zero},
	}))

	return reports.NewAggregator(ledger, inv, catalog, 5)
}

func TestRebuild_Resumen(t *testing.T) {
	d, err := seedFixture(t).Rebuild(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, d.Resumen.ProductosDistintos, "los SKU se cuentan una vez aunque estén en ambos canales")
	assert.Equal(t, 2, d.Resumen.StockBajo, "stock 2 y 3 quedan bajo el umbral de 5; stock 10 no")
	assert.Equal(t, 10, d.Resumen.UnidadesVendidas)
	assert.True(t, d.Resumen.ImporteVentas.Equal(dec("170.00")), "importe total = %s", d.Resumen.ImporteVentas)
	assert.Equal(t, 20, d.Resumen.UnidadesProducidas)
}

// Los rollups deben ser consistentes entre sí: lo agregado por item, por día
// y el detalle suman lo mismo.
func TestRebuild_RollupsConsistentes(t *testing.T) {
	d, err := seedFixture(t).Rebuild(context.Background())
	require.NoError(t, err)

	for _, scope := range []string{entity.ScopeGeneral, entity.ScopeMercado} {
		var detalle, porItem, porDia int
		for _, r := range d.VentasDetalle[scope] {
			detalle += r.Cantidad
		}
		for _, r := range d.PorItem[scope] {
			porItem += r.Cantidad
		}
		for _, r := range d.PorDia[scope] {
			porDia += r.Cantidad
		}
		assert.Equal(t, detalle, porItem, "canal %s: por item debe sumar igual que el detalle", scope)
		assert.Equal(t, detalle, porDia, "canal %s: por día debe sumar igual que el detalle", scope)
	}
}

func TestRebuild_OrdenDelDetalle(t *testing.T) {
	d, err := seedFixture(t).Rebuild(context.Background())
	require.NoError(t, err)

	detalle := d.VentasDetalle[entity.ScopeGeneral]
	require.Len(t, detalle, 3)
	assert.Equal(t, "2025-10-15", detalle[0].Fecha, "el detalle va por fecha ascendente")
	assert.Equal(t, "2025-10-15", detalle[1].Fecha)
	assert.Equal(t, "2025-10-16", detalle[2].Fecha)
}

func TestRebuild_PorItemOrdenadoPorCantidad(t *testing.T) {
	d, err := seedFixture(t).Rebuild(context.Background())
	require.NoError(t, err)

	porItem := d.PorItem[entity.ScopeGeneral]
	require.Len(t, porItem, 2)
	assert.Equal(t, "SKU-A", porItem[0].SKU, "el item más vendido va primero")
	assert.Equal(t, 5, porItem[0].Cantidad)
	assert.True(t, porItem[0].Importe.Equal(dec("50.00")))
	assert.Equal(t, "SKU-B", porItem[1].SKU)
}

func TestRebuild_PorDiaConSplitDePago(t *testing.T) {
	d, err := seedFixture(t).Rebuild(context.Background())
	require.NoError(t, err)

	porDia := d.PorDia[entity.ScopeGeneral]
	require.Len(t, porDia, 2)
	assert.Equal(t, "2025-10-15", porDia[0].Fecha)
	assert.Equal(t, 5, porDia[0].Cantidad)
	assert.True(t, porDia[0].Importe.Equal(dec("50.00")))
	assert.True(t, porDia[0].Efectivo.Equal(dec("20.00")), "efectivo del día = %s", porDia[0].Efectivo)
	assert.True(t, porDia[0].Tarjeta.Equal(dec("30.00")), "tarjeta del día = %s", porDia[0].Tarjeta)
	assert.Equal(t, "2025-10-16", porDia[1].Fecha)
}

func TestRebuild_DiarioParteElDetallePorFecha(t *testing.T) {
	d, err := seedFixture(t).Rebuild(context.Background())
	require.NoError(t, err)

	diario := d.Diario[entity.ScopeGeneral]
	require.Len(t, diario, 2)
	assert.Len(t, diario["2025-10-15"], 2)
	assert.Len(t, diario["2025-10-16"], 1)
}

// Cadena de descripciones: inventario → catálogo → el SKU mismo.
func TestRebuild_JoinDeDescripciones(t *testing.T) {
	d, err := seedFixture(t).Rebuild(context.Background())
	require.NoError(t, err)

	detalle := d.VentasDetalle[entity.ScopeGeneral]
	byID := make(map[string]reports.DetalleRow, len(detalle))
	for _, r := range detalle {
		byID[r.TransactionID] = r
	}
	assert.Equal(t, "Genérico A", byID["a2"].Descripcion, "del inventario")
	assert.Equal(t, "Genérico B", byID["a1"].Descripcion, "del catálogo cuando el inventario no tiene descripción")

	mercado := d.VentasDetalle[entity.ScopeMercado]
	require.Len(t, mercado, 1)
	assert.Equal(t, "PALETA-X", mercado[0].Descripcion, "sin descripción en ningún lado, queda el SKU")
}

func TestRebuild_InventarioOrdenadoPorSKU(t *testing.T) {
	d, err := seedFixture(t).Rebuild(context.Background())
	require.NoError(t, err)

	inv := d.Inventario[entity.ScopeGeneral]
	require.Len(t, inv, 2)
	assert.Equal(t, "SKU-A", inv[0].SKU)
	assert.Equal(t, "SKU-B", inv[1].SKU)
}

// Stores vacíos: el rebuild produce datos vacíos, no error.
func TestRebuild_SinDatos(t *testing.T) {
	dir := t.TempDir()
	catalog, err := csvstore.LoadCatalog(filepath.Join(dir, "menu.json"))
	require.NoError(t, err)
	agg := reports.NewAggregator(csvstore.NewLedgerRepository(dir), csvstore.NewInventoryRepository(dir), catalog, 5)

	d, err := agg.Rebuild(context.Background())
	require.NoError(t, err)
	assert.Zero(t, d.Resumen.ProductosDistintos)
	assert.Zero(t, d.Resumen.UnidadesVendidas)
	assert.True(t, d.Resumen.ImporteVentas.IsZero())
	assert.Empty(t, d.VentasDetalle[entity.ScopeGeneral])
}
