package entity

import "github.com/shopspring/decimal"

// LedgerEntry es una fila del ledger: un par (transacción, item) con el
// precio ya resuelto. Importe = cantidad × precio unitario, redondeado a
// 2 decimales con Round de shopspring (half away from zero). Ese redondeo
// es fijo para todo el sistema.
type LedgerEntry struct {
	ID         string // clave de idempotencia de la fila
	Origin     string // origen del evento; la supersesión borra por origen
	Fecha      string // YYYY-MM-DD
	SKU        string
	Cantidad   int
	PrecioUnit decimal.Decimal // cero en producción y traslados
	Importe    decimal.Decimal
	Pago       string // solo ventas
	Notas      string
}

// ComputeImporte fija Importe = Cantidad × PrecioUnit redondeado a 2 decimales.
func (e *LedgerEntry) ComputeImporte() {
	e.Importe = e.PrecioUnit.Mul(decimal.NewFromInt(int64(e.Cantidad))).Round(2)
}
