package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event es el registro de entrada: un ticket del issue tracker ya entregado.
// La mecánica de entrega (reintentos, firma del webhook) es externa.
type Event struct {
	Title     string
	Body      string
	Labels    []string
	Origin    string // URL del ticket
	CreatedAt time.Time
}

// CatalogItem es una entrada del catálogo estático de productos (menu.json).
type CatalogItem struct {
	SKU         string
	Descripcion string
	Precio      *decimal.Decimal // nil si el catálogo no trae precio
}
