// Package reports reconstruye los reportes publicados desde cero en cada
// corrida. Nunca hay actualización incremental: los reportes son funciones
// puras del ledger y el inventario al momento del rebuild.
package reports

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Paleteria-ledger/internal/domain/entity"
	"github.com/jhoicas/Paleteria-ledger/internal/domain/repository"
)

// DetalleRow es una fila de detalle (venta o producción) con la descripción
// ya unida desde inventario/catálogo.
type DetalleRow struct {
	TransactionID string
	Fecha         string
	SKU           string
	Descripcion   string
	Cantidad      int
	PrecioUnit    decimal.Decimal
	Importe       decimal.Decimal
	Pago          string
	Origen        string
}

// ItemRollup es el agregado por producto.
type ItemRollup struct {
	SKU         string
	Descripcion string
	Cantidad    int
	Importe     decimal.Decimal
}

// DiaRollup es el agregado por fecha, con el split por método de pago.
type DiaRollup struct {
	Fecha    string
	Cantidad int
	Importe  decimal.Decimal
	Efectivo decimal.Decimal
	Tarjeta  decimal.Decimal
}

// Resumen son los contadores globales publicados en resumen.json.
type Resumen struct {
	ProductosDistintos int             `json:"productos_distintos"`
	StockBajo          int             `json:"stock_bajo"`
	UnidadesVendidas   int             `json:"unidades_vendidas"`
	ImporteVentas      decimal.Decimal `json:"importe_ventas"`
	UnidadesProducidas int             `json:"unidades_producidas"`
}

// Data es el resultado completo de un rebuild; derivado y desechable.
// Los mapas de primer nivel van por canal.
type Data struct {
	Inventario        map[string][]entity.InventoryRecord
	VentasDetalle     map[string][]DetalleRow
	PorItem           map[string][]ItemRollup
	PorDia            map[string][]DiaRollup
	Diario            map[string]map[string][]DetalleRow // canal -> fecha -> filas
	ProduccionDetalle []DetalleRow
	Resumen           Resumen
}

// Writer publica un rebuild completo en algún formato de salida.
type Writer interface {
	Write(ctx context.Context, d *Data) error
}

// Aggregator recalcula todos los rollups desde ledger + inventario.
type Aggregator struct {
	ledger            repository.LedgerRepository
	inv               repository.InventoryRepository
	catalog           repository.CatalogRepository
	lowStockThreshold int
}

// NewAggregator construye el agregador. threshold es el umbral de stock bajo.
func NewAggregator(
	ledger repository.LedgerRepository,
	inv repository.InventoryRepository,
	catalog repository.CatalogRepository,
	threshold int,
) *Aggregator {
	return &Aggregator{ledger: ledger, inv: inv, catalog: catalog, lowStockThreshold: threshold}
}

var scopes = []string{entity.ScopeGeneral, entity.ScopeMercado}

// Rebuild recalcula todo. Siempre recomputación completa para garantizar
// consistencia después de cualquier edición manual del ledger.
func (a *Aggregator) Rebuild(ctx context.Context) (*Data, error) {
	d := &Data{
		Inventario:    make(map[string][]entity.InventoryRecord, len(scopes)),
		VentasDetalle: make(map[string][]DetalleRow, len(scopes)),
		PorItem:       make(map[string][]ItemRollup, len(scopes)),
		PorDia:        make(map[string][]DiaRollup, len(scopes)),
		Diario:        make(map[string]map[string][]DetalleRow, len(scopes)),
	}
	distinct := make(map[string]bool)

	for _, scope := range scopes {
		inv, err := a.inv.ReadAll(ctx, scope)
		if err != nil {
			return nil, fmt.Errorf("leer inventario %s: %w", scope, err)
		}
		sort.Slice(inv, func(i, j int) bool { return inv[i].SKU < inv[j].SKU })
		d.Inventario[scope] = inv

		desc := a.descripciones(inv)
		for _, rec := range inv {
			distinct[rec.SKU] = true
			if rec.Stock <= a.lowStockThreshold {
				d.Resumen.StockBajo++
			}
		}

		ventas, err := a.ledger.ReadAll(ctx, scope, entity.KindVenta)
		if err != nil {
			return nil, fmt.Errorf("leer ledger de ventas %s: %w", scope, err)
		}
		detalle := a.detalle(ventas, desc)
		d.VentasDetalle[scope] = detalle
		d.PorItem[scope] = rollupPorItem(detalle, desc)
		d.PorDia[scope] = rollupPorDia(detalle)
		d.Diario[scope] = porFecha(detalle)

		for _, row := range detalle {
			d.Resumen.UnidadesVendidas += row.Cantidad
			d.Resumen.ImporteVentas = d.Resumen.ImporteVentas.Add(row.Importe)
		}
	}

	produccion, err := a.ledger.ReadAll(ctx, entity.ScopeGeneral, entity.KindProduccion)
	if err != nil {
		return nil, fmt.Errorf("leer ledger de producción: %w", err)
	}
	descGeneral := a.descripciones(d.Inventario[entity.ScopeGeneral])
	d.ProduccionDetalle = a.detalle(produccion, descGeneral)
	for _, row := range d.ProduccionDetalle {
		d.Resumen.UnidadesProducidas += row.Cantidad
	}

	d.Resumen.ProductosDistintos = len(distinct)
	d.Resumen.ImporteVentas = d.Resumen.ImporteVentas.Round(2)
	return d, nil
}

// descripciones arma el join SKU -> descripción: inventario → catálogo → SKU.
func (a *Aggregator) descripciones(inv []entity.InventoryRecord) map[string]string {
	m := make(map[string]string, len(inv))
	for _, rec := range inv {
		if rec.Descripcion != "" {
			m[rec.SKU] = rec.Descripcion
		}
	}
	return m
}

func (a *Aggregator) describe(desc map[string]string, sku string) string {
	if s, ok := desc[sku]; ok {
		return s
	}
	if cat, ok := a.catalog.Lookup(sku); ok && cat.Descripcion != "" {
		return cat.Descripcion
	}
	return sku
}

// detalle proyecta filas del ledger a filas de detalle ordenadas por
// (fecha, item, precio) ascendente, el orden estable de los extractos.
func (a *Aggregator) detalle(rows []entity.LedgerEntry, desc map[string]string) []DetalleRow {
	out := make([]DetalleRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, DetalleRow{
			TransactionID: r.ID,
			Fecha:         r.Fecha,
			SKU:           r.SKU,
			Descripcion:   a.describe(desc, r.SKU),
			Cantidad:      r.Cantidad,
			PrecioUnit:    r.PrecioUnit,
			Importe:       r.Importe,
			Pago:          r.Pago,
			Origen:        r.Origin,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Fecha != out[j].Fecha {
			return out[i].Fecha < out[j].Fecha
		}
		if out[i].SKU != out[j].SKU {
			return out[i].SKU < out[j].SKU
		}
		return out[i].PrecioUnit.LessThan(out[j].PrecioUnit)
	})
	return out
}

// rollupPorItem agrupa por SKU y ordena por cantidad desc, importe desc,
// item asc — orden total estable para salida reproducible.
func rollupPorItem(detalle []DetalleRow, desc map[string]string) []ItemRollup {
	acc := make(map[string]*ItemRollup)
	for _, row := range detalle {
		r, ok := acc[row.SKU]
		if !ok {
			r = &ItemRollup{SKU: row.SKU, Descripcion: row.Descripcion, Importe: decimal.Zero}
			acc[row.SKU] = r
		}
		r.Cantidad += row.Cantidad
		r.Importe = r.Importe.Add(row.Importe)
	}
	out := make([]ItemRollup, 0, len(acc))
	for _, r := range acc {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Cantidad != out[j].Cantidad {
			return out[i].Cantidad > out[j].Cantidad
		}
		if !out[i].Importe.Equal(out[j].Importe) {
			return out[i].Importe.GreaterThan(out[j].Importe)
		}
		return out[i].SKU < out[j].SKU
	})
	return out
}

// rollupPorDia agrupa por fecha ascendente con split efectivo/tarjeta.
func rollupPorDia(detalle []DetalleRow) []DiaRollup {
	acc := make(map[string]*DiaRollup)
	for _, row := range detalle {
		r, ok := acc[row.Fecha]
		if !ok {
			r = &DiaRollup{Fecha: row.Fecha, Importe: decimal.Zero, Efectivo: decimal.Zero, Tarjeta: decimal.Zero}
			acc[row.Fecha] = r
		}
		r.Cantidad += row.Cantidad
		r.Importe = r.Importe.Add(row.Importe)
		if row.Pago == entity.PaymentTarjeta {
			r.Tarjeta = r.Tarjeta.Add(row.Importe)
		} else {
			r.Efectivo = r.Efectivo.Add(row.Importe)
		}
	}
	out := make([]DiaRollup, 0, len(acc))
	for _, r := range acc {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Fecha < out[j].Fecha })
	return out
}

// porFecha parte el detalle en un extracto por fecha distinta.
func porFecha(detalle []DetalleRow) map[string][]DetalleRow {
	m := make(map[string][]DetalleRow)
	for _, row := range detalle {
		m[row.Fecha] = append(m[row.Fecha], row)
	}
	return m
}
