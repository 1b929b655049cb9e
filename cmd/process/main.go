// Binario batch: procesa un único evento de issue (el JSON que deja el
// scheduler de CI en EVENT_PATH) y termina. Una corrida, de principio a fin.
package main

import (
	"context"
	"os"

	appinventory "github.com/jhoicas/Paleteria-ledger/internal/application/inventory"
	"github.com/jhoicas/Paleteria-ledger/internal/application/process"
	"github.com/jhoicas/Paleteria-ledger/internal/application/reports"
	"github.com/jhoicas/Paleteria-ledger/internal/domain/repository"
	"github.com/jhoicas/Paleteria-ledger/internal/infrastructure/csvstore"
	"github.com/jhoicas/Paleteria-ledger/internal/infrastructure/excel"
	"github.com/jhoicas/Paleteria-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/Paleteria-ledger/internal/interfaces/issueevent"
	"github.com/jhoicas/Paleteria-ledger/pkg/config"
	"github.com/jhoicas/Paleteria-ledger/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	eventPath := cfg.Store.EventPath
	if len(os.Args) > 1 {
		eventPath = os.Args[1]
	}
	if eventPath == "" {
		log.Info().Msg("sin EVENT_PATH; nada que procesar")
		return
	}

	payload, err := issueevent.DecodeFile(eventPath)
	if err != nil {
		log.Fatal().Err(err).Msg("decodificar evento")
	}
	ev, ok := payload.Event()
	if !ok {
		log.Info().Str("action", payload.Action).Msg("evento sin issue; nada que procesar")
		return
	}

	ctx := context.Background()
	uc, cleanup, err := buildPipeline(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("armar pipeline")
	}
	defer cleanup()

	if err := uc.Process(ctx, ev); err != nil {
		log.Fatal().Err(err).Str("origen", ev.Origin).Msg("corrida fallida")
	}
}

// buildPipeline arma stores (según backend), reconciliador, agregador y
// escritores de reportes.
func buildPipeline(ctx context.Context, cfg *config.Config, log *logger.Logger) (*process.UseCase, func(), error) {
	catalog, err := csvstore.LoadCatalog(cfg.Store.MenuPath)
	if err != nil {
		return nil, nil, err
	}
	if catalog.Len() == 0 {
		log.Warn().Str("ruta", cfg.Store.MenuPath).Msg("catálogo vacío; descripciones y precios pueden quedar sin resolver")
	}

	var (
		ledgerRepo repository.LedgerRepository
		invRepo    repository.InventoryRepository
		cleanup    = func() {}
	)
	if cfg.Store.Backend == config.BackendPostgres {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		ledgerRepo = postgres.NewLedgerRepository(pool)
		invRepo = postgres.NewInventoryRepository(pool)
		cleanup = pool.Close
	} else {
		ledgerRepo = csvstore.NewLedgerRepository(cfg.Store.DataDir)
		invRepo = csvstore.NewInventoryRepository(cfg.Store.DataDir)
	}

	reconciler := appinventory.NewReconciler(invRepo, catalog)
	agg := reports.NewAggregator(ledgerRepo, invRepo, catalog, cfg.Report.LowStockThreshold)
	publisher := reports.NewService(agg, log,
		csvstore.NewReportWriter(cfg.Store.DocsDir),
		excel.NewExporter(cfg.Store.DocsDir),
	)
	uc := process.NewUseCase(ledgerRepo, invRepo, catalog, reconciler, publisher, log)
	return uc, cleanup, nil
}
