// Package classify mapea el conjunto de etiquetas de un ticket a un tipo de
// transacción y un canal. Las etiquetas no son mutuamente excluyentes en la
// práctica, así que la tabla de reglas se evalúa en orden y gana la primera
// coincidencia.
package classify

import (
	"strings"

	"github.com/jhoicas/Paleteria-ledger/internal/domain/entity"
)

// Classification es el resultado del despacho por etiquetas.
type Classification struct {
	Kind       string
	Scope      string
	Actionable bool
}

// rule es una fila de la tabla ordenada: predicado sobre las etiquetas
// normalizadas y el (tipo, canal) que produce.
type rule struct {
	name  string
	match func(labels map[string]bool) bool
	kind  string
	scope string
}

// Tabla ordenada de despacho. El orden importa: "venta-mercado" contiene
// "mercado" y debe ganar antes que la regla de traslado; "venta" a secas
// solo aplica cuando ninguna etiqueta de mercado está presente.
var rules = []rule{
	{
		name:  "venta-mercado",
		match: func(l map[string]bool) bool { return l["venta-mercado"] },
		kind:  entity.KindVenta,
		scope: entity.ScopeMercado,
	},
	{
		name: "traslado-mercado",
		match: func(l map[string]bool) bool {
			for lbl := range l {
				if strings.Contains(lbl, "mercado") {
					return true
				}
			}
			return false
		},
		kind:  entity.KindTraslado,
		scope: entity.ScopeMercado,
	},
	{
		name:  "produccion",
		match: func(l map[string]bool) bool { return l["produccion"] || l["producción"] },
		kind:  entity.KindProduccion,
		scope: entity.ScopeGeneral,
	},
	{
		name:  "venta",
		match: func(l map[string]bool) bool { return l["venta"] },
		kind:  entity.KindVenta,
		scope: entity.ScopeGeneral,
	},
}

// Classify evalúa la tabla en orden sobre las etiquetas del evento.
// Sin etiqueta reconocida devuelve una clasificación no accionable: el
// pipeline no muta ledger ni stock, pero sí reconstruye reportes.
func Classify(labels []string) Classification {
	norm := make(map[string]bool, len(labels))
	for _, lbl := range labels {
		norm[strings.ToLower(strings.TrimSpace(lbl))] = true
	}
	for _, r := range rules {
		if r.match(norm) {
			return Classification{Kind: r.kind, Scope: r.scope, Actionable: true}
		}
	}
	return Classification{}
}

// NormalizePayment reduce el campo "Método de pago" al enum de dos valores.
// Ausente o irreconocible -> efectivo.
func NormalizePayment(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "tarjeta", "card", "tdc", "débito", "debito", "crédito", "credito":
		return entity.PaymentTarjeta
	default:
		return entity.PaymentEfectivo
	}
}
