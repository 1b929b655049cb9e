// Package excel exporta el rebuild como un workbook resumen.xlsx, la vista
// de consulta rápida de los mismos datos que publican los CSV.
package excel

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Paleteria-ledger/internal/application/reports"
	"github.com/jhoicas/Paleteria-ledger/internal/domain/entity"
)

var _ reports.Writer = (*Exporter)(nil)

// Exporter escribe docs/resumen.xlsx. Igual que los CSV, el archivo es un
// reemplazo completo (se escribe a temporal y se renombra).
type Exporter struct {
	docsDir string
}

// NewExporter construye el exportador sobre docsDir.
func NewExporter(docsDir string) *Exporter {
	return &Exporter{docsDir: docsDir}
}

var scopeOrder = []string{entity.ScopeGeneral, entity.ScopeMercado}

// Write genera el workbook con hojas Inventario, Ventas por item,
// Ventas por dia y Resumen.
func (e *Exporter) Write(ctx context.Context, d *reports.Data) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := e.sheetInventario(f, d); err != nil {
		return err
	}
	if err := e.sheetPorItem(f, d); err != nil {
		return err
	}
	if err := e.sheetPorDia(f, d); err != nil {
		return err
	}
	if err := e.sheetResumen(f, d.Resumen); err != nil {
		return err
	}

	if err := os.MkdirAll(e.docsDir, 0o755); err != nil {
		return fmt.Errorf("crear %s: %w", e.docsDir, err)
	}
	path := filepath.Join(e.docsDir, "resumen.xlsx")
	tmp := path + ".tmp"
	if err := f.SaveAs(tmp); err != nil {
		return fmt.Errorf("guardar workbook: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("publicar workbook: %w", err)
	}
	return nil
}

func (e *Exporter) sheetInventario(f *excelize.File, d *reports.Data) error {
	const sheet = "Inventario"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("hoja %s: %w", sheet, err)
	}
	setRow(f, sheet, 1, "canal", "product_id", "item", "descripcion", "precio", "stock")
	row := 2
	for _, scope := range scopeOrder {
		for _, rec := range d.Inventario[scope] {
			precio := ""
			if rec.Precio != nil {
				precio = rec.Precio.StringFixed(2)
			}
			setRow(f, sheet, row, scope, rec.ProductID, rec.SKU, rec.Descripcion, precio, rec.Stock)
			row++
		}
	}
	return nil
}

func (e *Exporter) sheetPorItem(f *excelize.File, d *reports.Data) error {
	const sheet = "Ventas por item"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("hoja %s: %w", sheet, err)
	}
	setRow(f, sheet, 1, "canal", "item", "descripcion", "cantidad", "importe")
	row := 2
	for _, scope := range scopeOrder {
		for _, r := range d.PorItem[scope] {
			setRow(f, sheet, row, scope, r.SKU, r.Descripcion, r.Cantidad, r.Importe.InexactFloat64())
			row++
		}
	}
	return nil
}

func (e *Exporter) sheetPorDia(f *excelize.File, d *reports.Data) error {
	const sheet = "Ventas por dia"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("hoja %s: %w", sheet, err)
	}
	setRow(f, sheet, 1, "canal", "fecha", "cantidad", "importe", "efectivo", "tarjeta")
	row := 2
	for _, scope := range scopeOrder {
		for _, r := range d.PorDia[scope] {
			setRow(f, sheet, row, scope, r.Fecha, r.Cantidad,
				r.Importe.InexactFloat64(), r.Efectivo.InexactFloat64(), r.Tarjeta.InexactFloat64())
			row++
		}
	}
	return nil
}

func (e *Exporter) sheetResumen(f *excelize.File, r reports.Resumen) error {
	const sheet = "Resumen"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("hoja %s: %w", sheet, err)
	}
	setRow(f, sheet, 1, "productos_distintos", r.ProductosDistintos)
	setRow(f, sheet, 2, "stock_bajo", r.StockBajo)
	setRow(f, sheet, 3, "unidades_vendidas", r.UnidadesVendidas)
	setRow(f, sheet, 4, "importe_ventas", r.ImporteVentas.InexactFloat64())
	setRow(f, sheet, 5, "unidades_producidas", r.UnidadesProducidas)
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values ...any) {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			continue
		}
		_ = f.SetCellValue(sheet, cell, v)
	}
}
