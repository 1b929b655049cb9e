package http_test

import (
	"context"
	"io"
	nethttp "net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinventory "github.com/jhoicas/Paleteria-ledger/internal/application/inventory"
	"github.com/jhoicas/Paleteria-ledger/internal/application/process"
	"github.com/jhoicas/Paleteria-ledger/internal/domain/entity"
	"github.com/jhoicas/Paleteria-ledger/internal/infrastructure/csvstore"
	httpiface "github.com/jhoicas/Paleteria-ledger/internal/interfaces/http"
	"github.com/jhoicas/Paleteria-ledger/pkg/logger"
)

type noopPublisher struct{}

func (noopPublisher) Publish(ctx context.Context) error { return nil }

func newApp(t *testing.T) (*fiber.App, *csvstore.LedgerRepo) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "menu.json"), []byte(`[]`), 0o644))
	catalog, err := csvstore.LoadCatalog(filepath.Join(dir, "menu.json"))
	require.NoError(t, err)

	ledger := csvstore.NewLedgerRepository(dir)
	inv := csvstore.NewInventoryRepository(dir)
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	uc := process.NewUseCase(ledger, inv, catalog, appinventory.NewReconciler(inv, catalog), noopPublisher{}, log)

	app := fiber.New()
	httpiface.Router(app, httpiface.RouterDeps{Webhook: httpiface.NewWebhookHandler(uc, log)})
	return app, ledger
}

func postJSON(t *testing.T, app *fiber.App, body string) *nethttp.Response {
	t.Helper()
	req, err := nethttp.NewRequest(nethttp.MethodPost, "/webhook/issues", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestHandleIssue_Procesado(t *testing.T) {
	app, ledger := newApp(t)

	payload := `{
		"action": "labeled",
		"issue": {
			"title": "Venta",
			"body": "Fecha: 2025-10-15\n\nItems\nSKU-A | 3 | 10.00\n",
			"html_url": "https://example.com/issues/1",
			"labels": [{"name": "venta"}]
		}
	}`
	resp := postJSON(t, app, payload)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "procesado")

	rows, err := ledger.ReadAll(context.Background(), entity.ScopeGeneral, entity.KindVenta)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestHandleIssue_SinIssueSeIgnora(t *testing.T) {
	app, ledger := newApp(t)

	resp := postJSON(t, app, `{"action": "ping"}`)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "ignorado")

	rows, err := ledger.ReadAll(context.Background(), entity.ScopeGeneral, entity.KindVenta)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestHandleIssue_PayloadInvalido(t *testing.T) {
	app, _ := newApp(t)

	resp := postJSON(t, app, `{no es json`)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
