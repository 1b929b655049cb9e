// Package issueevent decodifica el payload de un evento de issue (webhook o
// archivo de evento de CI) al registro de entrada del dominio.
package issueevent

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/Paleteria-ledger/internal/domain/entity"
)

// Label es una etiqueta del issue.
type Label struct {
	Name string `json:"name"`
}

// Issue es el subconjunto de campos del issue que el pipeline usa.
type Issue struct {
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	HTMLURL   string    `json:"html_url"`
	CreatedAt time.Time `json:"created_at"`
	Labels    []Label   `json:"labels"`
}

// Payload es el sobre del evento: {"action": ..., "issue": {...}}.
type Payload struct {
	Action string `json:"action"`
	Issue  *Issue `json:"issue"`
}

// Event proyecta el payload al registro de entrada del dominio.
// ok es false si el evento no trae issue (no hay nada que procesar).
func (p Payload) Event() (entity.Event, bool) {
	if p.Issue == nil {
		return entity.Event{}, false
	}
	labels := make([]string, 0, len(p.Issue.Labels))
	for _, l := range p.Issue.Labels {
		labels = append(labels, l.Name)
	}
	return entity.Event{
		Title:     p.Issue.Title,
		Body:      p.Issue.Body,
		Labels:    labels,
		Origin:    p.Issue.HTMLURL,
		CreatedAt: p.Issue.CreatedAt,
	}, true
}

// DecodeFile lee el payload desde un archivo (el JSON del evento que deja el
// scheduler de CI).
func DecodeFile(path string) (Payload, error) {
	var p Payload
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("leer evento %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parsear evento %s: %w", path, err)
	}
	return p, nil
}
