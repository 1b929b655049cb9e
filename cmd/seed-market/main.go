// Binario de siembra: construye el inventario del canal mercado a partir del
// inventario general (solo paletas, stock 0, heredando descripción y precio)
// y opcionalmente sobreescribe el stock inicial desde un CSV item,stock.
package main

import (
	"context"
	"encoding/csv"
	"os"
	"strconv"
	"strings"

	"github.com/jhoicas/Paleteria-ledger/internal/domain/entity"
	"github.com/jhoicas/Paleteria-ledger/internal/domain/identity"
	"github.com/jhoicas/Paleteria-ledger/internal/infrastructure/csvstore"
	"github.com/jhoicas/Paleteria-ledger/pkg/config"
	"github.com/jhoicas/Paleteria-ledger/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx := context.Background()
	repo := csvstore.NewInventoryRepository(cfg.Store.DataDir)

	general, err := repo.ReadAll(ctx, entity.ScopeGeneral)
	if err != nil {
		log.Fatal().Err(err).Msg("leer inventario general")
	}
	if len(general) == 0 {
		log.Fatal().Msg("inventario general vacío; súbelo primero")
	}

	// Stock inicial opcional: CSV item,stock pasado como argumento.
	stockInicial := map[string]int{}
	if len(os.Args) > 1 {
		stockInicial, err = readStockInicial(os.Args[1])
		if err != nil {
			log.Fatal().Err(err).Str("ruta", os.Args[1]).Msg("leer stock inicial")
		}
	}

	sembrados := 0
	for _, rec := range general {
		if !strings.HasPrefix(rec.SKU, "PALETA-") {
			continue
		}
		mkt := rec
		mkt.Stock = stockInicial[rec.SKU]
		delete(stockInicial, rec.SKU)
		if err := repo.Upsert(ctx, entity.ScopeMercado, &mkt); err != nil {
			log.Fatal().Err(err).Str("sku", rec.SKU).Msg("sembrar registro")
		}
		sembrados++
	}

	// SKUs del stock inicial que no existen en el general: se agregan sin
	// descripción ni precio, con aviso.
	for sku, stock := range stockInicial {
		rec := entity.InventoryRecord{
			ProductID: identity.ProductID(sku),
			SKU:       sku,
			Stock:     stock,
		}
		if err := repo.Upsert(ctx, entity.ScopeMercado, &rec); err != nil {
			log.Fatal().Err(err).Str("sku", sku).Msg("sembrar registro faltante")
		}
		log.Warn().Str("sku", sku).Msg("SKU sin entrada en el inventario general; agregado sin precio")
		sembrados++
	}

	log.Info().Int("registros", sembrados).Msg("inventario mercado sembrado")
}

func readStockInicial(path string) (map[string]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(records))
	for _, rec := range records {
		if len(rec) < 2 || rec[0] == "item" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(rec[1]))
		if err != nil {
			continue
		}
		out[strings.TrimSpace(rec[0])] = n
	}
	return out, nil
}
