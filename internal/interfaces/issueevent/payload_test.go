package issueevent_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Paleteria-ledger/internal/interfaces/issueevent"
)

const samplePayload = `{
	"action": "labeled",
	"issue": {
		"title": "Venta del día",
		"body": "Fecha: 2025-10-15\n\nItems\nSKU-A | 3 | 10.00\n",
		"html_url": "https://example.com/issues/42",
		"created_at": "2025-10-15T18:30:00Z",
		"labels": [{"name": "venta"}, {"name": "registrada"}]
	}
}`

func TestDecodeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "event.json")
	require.NoError(t, os.WriteFile(path, []byte(samplePayload), 0o644))

	p, err := issueevent.DecodeFile(path)
	require.NoError(t, err)
	assert.Equal(t, "labeled", p.Action)
	require.NotNil(t, p.Issue)

	ev, ok := p.Event()
	require.True(t, ok)
	assert.Equal(t, "Venta del día", ev.Title)
	assert.Equal(t, "https://example.com/issues/42", ev.Origin, "la URL del issue es el origen")
	assert.Equal(t, []string{"venta", "registrada"}, ev.Labels)
	assert.Equal(t, 2025, ev.CreatedAt.Year())
}

func TestPayload_SinIssue(t *testing.T) {
	p := issueevent.Payload{Action: "ping"}
	_, ok := p.Event()
	assert.False(t, ok, "un evento sin issue no produce nada que procesar")
}

func TestDecodeFile_Errores(t *testing.T) {
	_, err := issueevent.DecodeFile(filepath.Join(t.TempDir(), "no-existe.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "roto.json")
	require.NoError(t, os.WriteFile(path, []byte("{no es json"), 0o644))
	_, err = issueevent.DecodeFile(path)
	assert.Error(t, err)
}
