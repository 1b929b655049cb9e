// Package extract saca campos tipados del texto libre de un ticket.
// Todas las funciones son totales: ante texto inservible devuelven campos
// vacíos o ausentes, nunca error — el juicio de validez es de los
// componentes siguientes.
package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/Paleteria-ledger/internal/domain/entity"
)

// Formatos de fecha aceptados; la salida siempre se canonicaliza a YYYY-MM-DD.
var dateLayouts = []string{"2006-01-02", "02/01/2006", "2006/01/02"}

var (
	// Campos etiquetados, anclados a inicio de línea, negritas opcionales.
	// Se acepta ':' ASCII y '：' fullwidth (aparece en tickets reales).
	fechaRx = regexp.MustCompile(`(?im)^\s*\*{0,2}\s*fecha\s*\*{0,2}\s*[:：]\s*(.+?)\s*$`)
	notasRx = regexp.MustCompile(`(?im)^\s*\*{0,2}\s*notas\s*\*{0,2}\s*[:：]\s*(.*?)\s*$`)
	pagoRx  = regexp.MustCompile(`(?im)^\s*\*{0,2}\s*m[ée]todo de pago\s*\*{0,2}\s*[:：]\s*(.+?)\s*$`)

	// Campos discretos del fallback de item único (formularios sin tabla).
	itemRx     = regexp.MustCompile(`(?im)^\s*\*{0,2}\s*item\s*\*{0,2}\s*[:：]\s*(.+?)\s*$`)
	cantidadRx = regexp.MustCompile(`(?im)^\s*\*{0,2}\s*cantidad\s*\*{0,2}\s*[:：]\s*(.+?)\s*$`)
	precioRx   = regexp.MustCompile(`(?im)^\s*\*{0,2}\s*precio(?:\s+unitario)?\s*(?:\(opcional\))?\s*\*{0,2}\s*[:：]\s*(.+?)\s*$`)

	// Fecha al final del título: "Venta: 3 items @ 2025-10-15".
	tituloFechaRx = regexp.MustCompile(`@?\s*(\d{4}[-/]\d{2}[-/]\d{2}|\d{2}/\d{2}/\d{4})\s*$`)

	// Encabezado de la sección de items.
	itemsHeaderRx = regexp.MustCompile(`(?i)^\s*\*{0,2}\s*items\s*\*{0,2}\s*$`)

	// Primera celda que es una etiqueta en negritas ("**Cantidad**:"),
	// artefacto de tablas malformadas.
	celdaEtiquetaRx = regexp.MustCompile(`(?i)^\*+\s*[^|*]*\*+\s*:?\s*$`)

	// Alfabeto restringido de SKU: mayúsculas, dígitos, guion y dos puntos,
	// largo mínimo 3, sin espacios embebidos.
	skuRx = regexp.MustCompile(`^[A-Z0-9][A-Z0-9:-]{2,}$`)
)

// Fields son los campos extraídos del ticket; todos opcionales.
type Fields struct {
	Fecha string // canónica YYYY-MM-DD; "" si no se encontró
	Notas string
	Pago  string // token crudo del campo "Método de pago"
	Items []entity.LineItem

	// Campos discretos para el fallback de item único.
	Item     string
	Cantidad string
	Precio   string
}

// Parse extrae fecha, notas, método de pago y filas de items de un ticket.
// Total: nunca falla.
func Parse(title, body string) Fields {
	f := Fields{
		Notas:    firstGroup(notasRx, body),
		Pago:     firstGroup(pagoRx, body),
		Item:     firstGroup(itemRx, body),
		Cantidad: firstGroup(cantidadRx, body),
		Precio:   firstGroup(precioRx, body),
		Items:    parseItems(body),
	}

	// Fecha: campo etiquetado en el cuerpo; si no, sufijo del título.
	if raw := firstGroup(fechaRx, body); raw != "" {
		f.Fecha = CanonicalDate(raw)
	}
	if f.Fecha == "" {
		if m := tituloFechaRx.FindStringSubmatch(title); m != nil {
			f.Fecha = CanonicalDate(m[1])
		}
	}
	return f
}

// CanonicalDate intenta los formatos aceptados y devuelve YYYY-MM-DD,
// o "" si ninguno aplica.
func CanonicalDate(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}

// FallbackItem arma el item único desde los campos discretos cuando el
// ticket no trajo tabla de items. Aplica las mismas reglas de validez que
// las filas de tabla.
func (f Fields) FallbackItem() (entity.LineItem, bool) {
	sku := strings.TrimSpace(f.Item)
	if !skuRx.MatchString(sku) {
		return entity.LineItem{}, false
	}
	cantidad, err := strconv.Atoi(strings.TrimSpace(f.Cantidad))
	if err != nil || cantidad <= 0 {
		return entity.LineItem{}, false
	}
	return entity.LineItem{SKU: sku, Cantidad: cantidad, Precio: strings.TrimSpace(f.Precio)}, true
}

// parseItems localiza la sección "Items" y lee las filas pipe siguientes
// hasta una línea no-pipe no vacía o el fin del texto. Si no hay encabezado,
// barre cualquier línea con pipes (formato laxo de los primeros tickets).
func parseItems(body string) []entity.LineItem {
	lines := strings.Split(body, "\n")
	start := 0
	bounded := false
	for i, ln := range lines {
		if itemsHeaderRx.MatchString(strings.TrimSpace(ln)) {
			start = i + 1
			bounded = true
			break
		}
	}

	var items []entity.LineItem
	for _, ln := range lines[start:] {
		if !strings.Contains(ln, "|") {
			// Con encabezado, una línea no-pipe no vacía cierra la sección.
			if bounded && strings.TrimSpace(ln) != "" {
				break
			}
			continue
		}
		if it, ok := parseRow(ln); ok {
			items = append(items, it)
		}
	}
	return items
}

// parseRow valida y parsea una fila "SKU | Cantidad | Precio?".
func parseRow(ln string) (entity.LineItem, bool) {
	cells := strings.Split(ln, "|")
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	// Bordes de tabla markdown ("| A | B |") dejan celdas vacías en los extremos.
	for len(cells) > 0 && cells[0] == "" {
		cells = cells[1:]
	}
	for len(cells) > 0 && cells[len(cells)-1] == "" {
		cells = cells[:len(cells)-1]
	}
	if len(cells) < 2 {
		return entity.LineItem{}, false
	}

	// Separadores "----|----" (solo guiones, dos puntos y espacios).
	if isSeparator(cells) {
		return entity.LineItem{}, false
	}

	// Encabezado típico "SKU | Cantidad | Precio".
	joined := strings.ToLower(strings.Join(cells, " "))
	if strings.Contains(joined, "sku") && (strings.Contains(joined, "cantidad") || strings.Contains(joined, "precio")) {
		return entity.LineItem{}, false
	}

	// Etiquetas en negritas coladas como primera celda.
	if celdaEtiquetaRx.MatchString(cells[0]) {
		return entity.LineItem{}, false
	}

	sku := cells[0]
	if !skuRx.MatchString(sku) {
		return entity.LineItem{}, false
	}
	cantidad, err := strconv.Atoi(cells[1])
	if err != nil || cantidad <= 0 {
		return entity.LineItem{}, false
	}

	precio := ""
	if len(cells) >= 3 && cells[2] != "" {
		precio = cells[2] // literal; la coerción numérica es aguas abajo
	}
	return entity.LineItem{SKU: sku, Cantidad: cantidad, Precio: precio}, true
}

func isSeparator(cells []string) bool {
	joined := strings.Join(cells, "")
	if joined == "" {
		return true
	}
	for _, r := range joined {
		if r != '-' && r != ':' && r != ' ' {
			return false
		}
	}
	return true
}

func firstGroup(rx *regexp.Regexp, s string) string {
	if m := rx.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}
