package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Paleteria-ledger/internal/domain/entity"
)

func TestComputeImporte(t *testing.T) {
	e := entity.LedgerEntry{Cantidad: 3, PrecioUnit: decimal.RequireFromString("10.00")}
	e.ComputeImporte()
	assert.True(t, e.Importe.Equal(decimal.RequireFromString("30.00")))
}

// El medio centavo redondea alejándose de cero (half away from zero), el
// redondeo fijo de todos los montos del sistema.
func TestComputeImporte_RedondeoDelMedioCentavo(t *testing.T) {
	e := entity.LedgerEntry{Cantidad: 3, PrecioUnit: decimal.RequireFromString("0.335")}
	e.ComputeImporte()
	assert.Equal(t, "1.01", e.Importe.StringFixed(2))
}

func TestComputeImporte_SinPrecio(t *testing.T) {
	e := entity.LedgerEntry{Cantidad: 5}
	e.ComputeImporte()
	assert.True(t, e.Importe.IsZero(), "producción y traslados llevan importe cero")
}
