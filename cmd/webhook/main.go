// Binario servidor: expone el pipeline como webhook de issues. Las corridas
// se serializan dentro del handler; la entrega (reintentos, firma) es del
// lado del issue tracker.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appinventory "github.com/jhoicas/Paleteria-ledger/internal/application/inventory"
	"github.com/jhoicas/Paleteria-ledger/internal/application/process"
	"github.com/jhoicas/Paleteria-ledger/internal/application/reports"
	"github.com/jhoicas/Paleteria-ledger/internal/domain/repository"
	"github.com/jhoicas/Paleteria-ledger/internal/infrastructure/csvstore"
	"github.com/jhoicas/Paleteria-ledger/internal/infrastructure/excel"
	"github.com/jhoicas/Paleteria-ledger/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Paleteria-ledger/internal/interfaces/http"
	"github.com/jhoicas/Paleteria-ledger/pkg/config"
	"github.com/jhoicas/Paleteria-ledger/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("backend", cfg.Store.Backend).
		Msg("iniciando aplicación")

	ctx := context.Background()

	catalog, err := csvstore.LoadCatalog(cfg.Store.MenuPath)
	if err != nil {
		log.Fatal().Err(err).Msg("cargar catálogo")
	}

	var (
		ledgerRepo repository.LedgerRepository
		invRepo    repository.InventoryRepository
	)
	if cfg.Store.Backend == config.BackendPostgres {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("esquema de PostgreSQL")
		}
		ledgerRepo = postgres.NewLedgerRepository(pool)
		invRepo = postgres.NewInventoryRepository(pool)
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

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Webhook: httpRouter.NewWebhookHandler(uc, log),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
