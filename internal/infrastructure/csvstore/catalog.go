package csvstore

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Paleteria-ledger/internal/domain/entity"
	"github.com/jhoicas/Paleteria-ledger/internal/domain/repository"
)

var _ repository.CatalogRepository = (*Catalog)(nil)

// Catalog es el catálogo estático de productos cargado de menu.json.
// Se carga una vez al arranque; el archivo no cambia durante una corrida.
type Catalog struct {
	items map[string]entity.CatalogItem
}

// menuRow es el esquema de menu.json. El precio llega como número o como
// string (el archivo se edita a mano), por eso RawMessage.
type menuRow struct {
	Item        string          `json:"item"`
	Descripcion string          `json:"descripcion"`
	Precio      json.RawMessage `json:"precio"`
}

// LoadCatalog lee menu.json. Un archivo ausente es un catálogo vacío, no un
// error: las descripciones y precios simplemente quedan sin resolver.
func LoadCatalog(path string) (*Catalog, error) {
	c := &Catalog{items: make(map[string]entity.CatalogItem)}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, fmt.Errorf("leer catálogo %s: %w", path, err)
	}

	var rows []menuRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parsear catálogo %s: %w", path, err)
	}
	for _, row := range rows {
		if row.Item == "" {
			continue
		}
		item := entity.CatalogItem{SKU: row.Item, Descripcion: row.Descripcion}
		if p, ok := parsePrecio(row.Precio); ok {
			item.Precio = &p
		}
		c.items[row.Item] = item
	}
	return c, nil
}

// Lookup devuelve la entrada del catálogo para el SKU, o desconocido.
func (c *Catalog) Lookup(sku string) (*entity.CatalogItem, bool) {
	item, ok := c.items[sku]
	if !ok {
		return nil, false
	}
	return &item, true
}

// Len devuelve el número de entradas cargadas.
func (c *Catalog) Len() int { return len(c.items) }

func parsePrecio(raw json.RawMessage) (decimal.Decimal, bool) {
	s := strings.TrimSpace(string(raw))
	s = strings.Trim(s, `"`)
	if s == "" || s == "null" {
		return decimal.Zero, false
	}
	p, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return p, true
}
