package entity

import "github.com/shopspring/decimal"

// InventoryRecord es el snapshot de stock de un producto en un canal.
// Stock es entero y puede ser negativo: una sobreventa o un error de captura
// se detecta aguas abajo, no se corrige en silencio.
type InventoryRecord struct {
	ProductID   string // identificador corto determinista derivado del SKU
	SKU         string
	Descripcion string
	Stock       int
	Precio      *decimal.Decimal // precio por defecto; nil si no se conoce
}
