// Package identity deriva claves deterministas: la clave de idempotencia de
// cada fila del ledger y el identificador corto de producto. Mismo input,
// misma clave, en cualquier máquina y corrida.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Namespace fijo para los product_id (UUIDv5). Cambiarlo invalidaría todos
// los identificadores ya publicados.
var productNamespace = uuid.MustParse("7a5a4e52-9c3b-4f1e-9b7d-2e8c1a6d0f43")

// Key calcula la clave de idempotencia de una fila a partir de su contenido:
// origen|canal|tipo|sku|cantidad|precio|fecha, SHA-256 en hex.
// Re-procesar el mismo origen con los mismos items resuelve a las mismas
// claves; un item editado resuelve a una clave nueva (la supersesión por
// origen elimina la vieja).
func Key(origin, scope, kind, sku string, cantidad int, precio decimal.Decimal, fecha string) string {
	cadena := strings.Join([]string{
		origin, scope, kind, sku,
		strconv.Itoa(cantidad),
		precio.Round(2).StringFixed(2),
		fecha,
	}, "|")
	sum := sha256.Sum256([]byte(cadena))
	return hex.EncodeToString(sum[:])
}

// OrdinalKey es el fallback posicional cuando la fila no trae contenido
// completo. Es más débil: no distingue una cantidad editada de un evento
// distinto, por eso solo se usa a falta del hash de contenido.
func OrdinalKey(origin, scope, kind string, ordinal int) string {
	cadena := strings.Join([]string{origin, scope, kind, "#" + strconv.Itoa(ordinal)}, "|")
	sum := sha256.Sum256([]byte(cadena))
	return hex.EncodeToString(sum[:])
}

// ProductID deriva el identificador corto de producto desde el SKU:
// UUIDv5 sobre el namespace fijo, truncado a 8 hex.
func ProductID(sku string) string {
	id := uuid.NewSHA1(productNamespace, []byte(sku))
	return strings.ReplaceAll(id.String(), "-", "")[:8]
}
