package inventory_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinventory "github.com/jhoicas/Paleteria-ledger/internal/application/inventory"
	"github.com/jhoicas/Paleteria-ledger/internal/domain"
	"github.com/jhoicas/Paleteria-ledger/internal/domain/entity"
	"github.com/jhoicas/Paleteria-ledger/internal/infrastructure/csvstore"
)

func newReconciler(t *testing.T) (*appinventory.Reconciler, *csvstore.InventoryRepo) {
	t.Helper()
	dir := t.TempDir()
	catalog, err := csvstore.LoadCatalog(filepath.Join(dir, "menu.json"))
	require.NoError(t, err)
	repo := csvstore.NewInventoryRepository(dir)
	return appinventory.NewReconciler(repo, catalog), repo
}

func TestApply_SignoInvalido(t *testing.T) {
	r, _ := newReconciler(t)
	err := r.Apply(context.Background(), entity.ScopeGeneral, []entity.LineItem{{SKU: "SKU-A", Cantidad: 1}}, 2)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	err = r.Apply(context.Background(), entity.ScopeGeneral, nil, 0)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestApply_DeltaConSigno(t *testing.T) {
	ctx := context.Background()
	r, repo := newReconciler(t)

	require.NoError(t, repo.Upsert(ctx, entity.ScopeGeneral, &entity.InventoryRecord{SKU: "SKU-A", Stock: 10}))

	items := []entity.LineItem{{SKU: "SKU-A", Cantidad: 3}}
	require.NoError(t, r.Apply(ctx, entity.ScopeGeneral, items, -1))
	rec, err := repo.Get(ctx, entity.ScopeGeneral, "SKU-A")
	require.NoError(t, err)
	assert.Equal(t, 7, rec.Stock)

	require.NoError(t, r.Apply(ctx, entity.ScopeGeneral, items, +1))
	rec, err = repo.Get(ctx, entity.ScopeGeneral, "SKU-A")
	require.NoError(t, err)
	assert.Equal(t, 10, rec.Stock, "aplicar y revertir debe dejar el stock donde estaba")
}

// Un SKU desconocido se auto-crea con stock 0 y recibe el delta; no hay clamp
// en cero.
func TestApply_AutoCreaYPermiteNegativo(t *testing.T) {
	ctx := context.Background()
	r, repo := newReconciler(t)

	require.NoError(t, r.Apply(ctx, entity.ScopeGeneral, []entity.LineItem{{SKU: "SKU-NUEVO", Cantidad: 4}}, -1))

	rec, err := repo.Get(ctx, entity.ScopeGeneral, "SKU-NUEVO")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, -4, rec.Stock)
	assert.NotEmpty(t, rec.ProductID)
}
