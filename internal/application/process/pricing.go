package process

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Paleteria-ledger/internal/domain/entity"
)

// resolvePrecio fija el precio unitario de una fila de venta:
// literal de la fila si es numéricamente válido → precio por defecto del
// inventario del canal → precio del catálogo → cero. Nunca es fatal.
func (uc *UseCase) resolvePrecio(ctx context.Context, scope string, it entity.LineItem) (decimal.Decimal, error) {
	if p, ok := parsePrecioLiteral(it.Precio); ok {
		return p, nil
	}
	rec, err := uc.inv.Get(ctx, scope, it.SKU)
	if err != nil {
		return decimal.Zero, fmt.Errorf("consultar precio por defecto de %s: %w", it.SKU, err)
	}
	if rec != nil && rec.Precio != nil {
		return *rec.Precio, nil
	}
	if cat, ok := uc.catalog.Lookup(it.SKU); ok && cat.Precio != nil {
		return *cat.Precio, nil
	}
	return decimal.Zero, nil
}

// parsePrecioLiteral coerciona el literal de precio de una fila ("25.00",
// "$1,200.50"). Vacío, no numérico o negativo no es válido.
func parsePrecioLiteral(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return decimal.Zero, false
	}
	p, err := decimal.NewFromString(s)
	if err != nil || p.IsNegative() {
		return decimal.Zero, false
	}
	return p, true
}

// entriesToItems proyecta filas del ledger a items para revertir su efecto
// sobre el stock.
func entriesToItems(rows []entity.LedgerEntry) []entity.LineItem {
	items := make([]entity.LineItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, entity.LineItem{SKU: r.SKU, Cantidad: r.Cantidad})
	}
	return items
}
