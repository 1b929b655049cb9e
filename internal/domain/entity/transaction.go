package entity

// Canales de venta. Cada canal tiene su propio ledger e inventario.
const (
	ScopeGeneral = "general"
	ScopeMercado = "mercado"
)

// Tipos de transacción.
const (
	KindVenta      = "VENTA"
	KindProduccion = "PRODUCCION"
	KindTraslado   = "TRASLADO" // restock del mercado desde el inventario general
)

// Métodos de pago (solo ventas).
const (
	PaymentEfectivo = "efectivo"
	PaymentTarjeta  = "tarjeta"
)

// LineItem es una fila de items extraída del cuerpo del ticket.
// Precio conserva el literal de la fila ("25.00", "$1,200", "" si no vino);
// la coerción numérica ocurre al resolver el precio de la fila del ledger.
type LineItem struct {
	SKU      string
	Cantidad int
	Precio   string
}

// Transaction es el resultado de clasificar un evento accionable.
// Inmutable una vez almacenada; una versión posterior del mismo origen la
// supersede (borrar e insertar), nunca se mezcla.
type Transaction struct {
	Kind   string
	Scope  string
	Fecha  string // canónica YYYY-MM-DD
	Pago   string // efectivo | tarjeta; vacío fuera de ventas
	Items  []LineItem
	Origin string // localizador estable del evento fuente (URL del ticket)
	Notas  string
}
