package csvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jhoicas/Paleteria-ledger/internal/application/reports"
	"github.com/jhoicas/Paleteria-ledger/internal/domain/entity"
)

var _ reports.Writer = (*ReportWriter)(nil)

// ReportWriter publica el rebuild como archivos CSV (más resumen.json) bajo
// docsDir. Cada archivo es un reemplazo completo escrito con tmp + rename;
// nunca se parchea un reporte existente. El canal mercado se publica bajo
// el subdirectorio mercado/.
type ReportWriter struct {
	docsDir string
}

// NewReportWriter construye el escritor sobre docsDir.
func NewReportWriter(docsDir string) *ReportWriter {
	return &ReportWriter{docsDir: docsDir}
}

func (w *ReportWriter) scopeDir(scope string) string {
	if scope == entity.ScopeMercado {
		return filepath.Join(w.docsDir, "mercado")
	}
	return w.docsDir
}

// Write publica todas las tablas del rebuild.
func (w *ReportWriter) Write(ctx context.Context, d *reports.Data) error {
	for scope, inv := range d.Inventario {
		if err := w.writeInventario(scope, inv); err != nil {
			return err
		}
	}
	for scope, detalle := range d.VentasDetalle {
		if err := w.writeVentasDetalle(scope, detalle); err != nil {
			return err
		}
	}
	for scope, rollup := range d.PorItem {
		if err := w.writePorItem(scope, rollup); err != nil {
			return err
		}
	}
	for scope, rollup := range d.PorDia {
		if err := w.writePorDia(scope, rollup); err != nil {
			return err
		}
	}
	for scope, porFecha := range d.Diario {
		if err := w.writeDiario(scope, porFecha); err != nil {
			return err
		}
	}
	if err := w.writeProduccion(d.ProduccionDetalle); err != nil {
		return err
	}
	return w.writeResumen(d.Resumen)
}

func (w *ReportWriter) writeInventario(scope string, inv []entity.InventoryRecord) error {
	records := [][]string{{"product_id", "item", "descripcion", "precio", "stock"}}
	for _, rec := range inv {
		precio := ""
		if rec.Precio != nil {
			precio = rec.Precio.StringFixed(2)
		}
		records = append(records, []string{rec.ProductID, rec.SKU, rec.Descripcion, precio, strconv.Itoa(rec.Stock)})
	}
	return writeAtomic(filepath.Join(w.scopeDir(scope), "inventario.csv"), records)
}

func (w *ReportWriter) writeVentasDetalle(scope string, detalle []reports.DetalleRow) error {
	records := [][]string{{"transaction_id", "fecha", "item", "descripcion", "cantidad", "precio_unit", "importe", "pago", "origen"}}
	for _, row := range detalle {
		records = append(records, []string{
			row.TransactionID, row.Fecha, row.SKU, row.Descripcion,
			strconv.Itoa(row.Cantidad), row.PrecioUnit.StringFixed(2),
			row.Importe.StringFixed(2), row.Pago, row.Origen,
		})
	}
	return writeAtomic(filepath.Join(w.scopeDir(scope), "ventas_detalle.csv"), records)
}

// writeProduccion publica el detalle de producción: sin columnas de precio
// ni método de pago.
func (w *ReportWriter) writeProduccion(detalle []reports.DetalleRow) error {
	records := [][]string{{"transaction_id", "fecha", "item", "descripcion", "cantidad", "origen"}}
	for _, row := range detalle {
		records = append(records, []string{
			row.TransactionID, row.Fecha, row.SKU, row.Descripcion,
			strconv.Itoa(row.Cantidad), row.Origen,
		})
	}
	return writeAtomic(filepath.Join(w.docsDir, "produccion_detalle.csv"), records)
}

func (w *ReportWriter) writePorItem(scope string, rollup []reports.ItemRollup) error {
	records := [][]string{{"item", "descripcion", "cantidad", "importe"}}
	for _, r := range rollup {
		records = append(records, []string{r.SKU, r.Descripcion, strconv.Itoa(r.Cantidad), r.Importe.StringFixed(2)})
	}
	return writeAtomic(filepath.Join(w.scopeDir(scope), "ventas_por_item.csv"), records)
}

func (w *ReportWriter) writePorDia(scope string, rollup []reports.DiaRollup) error {
	records := [][]string{{"fecha", "cantidad", "importe", "efectivo", "tarjeta"}}
	for _, r := range rollup {
		records = append(records, []string{
			r.Fecha, strconv.Itoa(r.Cantidad), r.Importe.StringFixed(2),
			r.Efectivo.StringFixed(2), r.Tarjeta.StringFixed(2),
		})
	}
	return writeAtomic(filepath.Join(w.scopeDir(scope), "ventas_por_dia.csv"), records)
}

// writeDiario publica un extracto por fecha distinta. El directorio se
// limpia primero: un rebuild es un reemplazo total y las fechas que ya no
// existen en el ledger no deben dejar archivos huérfanos.
func (w *ReportWriter) writeDiario(scope string, porFecha map[string][]reports.DetalleRow) error {
	dir := filepath.Join(w.scopeDir(scope), "diario")
	if err := clearDailyFiles(dir); err != nil {
		return err
	}
	for fecha, rows := range porFecha {
		records := [][]string{{"fecha", "item", "descripcion", "cantidad", "precio_unit", "importe", "pago"}}
		for _, row := range rows {
			records = append(records, []string{
				row.Fecha, row.SKU, row.Descripcion, strconv.Itoa(row.Cantidad),
				row.PrecioUnit.StringFixed(2), row.Importe.StringFixed(2), row.Pago,
			})
		}
		if err := writeAtomic(filepath.Join(dir, fecha+"-ventas.csv"), records); err != nil {
			return err
		}
	}
	return nil
}

func (w *ReportWriter) writeResumen(r reports.Resumen) error {
	if err := os.MkdirAll(w.docsDir, 0o755); err != nil {
		return fmt.Errorf("crear %s: %w", w.docsDir, err)
	}
	path := filepath.Join(w.docsDir, "resumen.json")
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("serializar resumen: %w", err)
	}
	tmp, err := os.CreateTemp(w.docsDir, "resumen.json.tmp-*")
	if err != nil {
		return fmt.Errorf("crear temporal de resumen: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("escribir resumen: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cerrar temporal de resumen: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

func clearDailyFiles(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("crear %s: %w", dir, err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("listar %s: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), "-ventas.csv") {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
			return fmt.Errorf("limpiar %s: %w", e.Name(), err)
		}
	}
	return nil
}
