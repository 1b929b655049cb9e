// Package process orquesta el pipeline por evento: extraer → clasificar →
// resolver identidad → upsert del ledger → reconciliar stock → rebuild de
// reportes. Una corrida por evento, sin paralelismo interno; el scheduler
// externo serializa invocaciones.
package process

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Paleteria-ledger/internal/application/classify"
	"github.com/jhoicas/Paleteria-ledger/internal/application/extract"
	"github.com/jhoicas/Paleteria-ledger/internal/application/inventory"
	"github.com/jhoicas/Paleteria-ledger/internal/domain/entity"
	"github.com/jhoicas/Paleteria-ledger/internal/domain/identity"
	"github.com/jhoicas/Paleteria-ledger/internal/domain/repository"
	"github.com/jhoicas/Paleteria-ledger/pkg/logger"
)

// ReportPublisher reconstruye y publica todos los reportes desde cero.
type ReportPublisher interface {
	Publish(ctx context.Context) error
}

// UseCase procesa un evento de ticket de punta a punta.
type UseCase struct {
	ledger     repository.LedgerRepository
	inv        repository.InventoryRepository
	catalog    repository.CatalogRepository
	reconciler *inventory.Reconciler
	publisher  ReportPublisher
	log        *logger.Logger
	now        func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	ledger repository.LedgerRepository,
	inv repository.InventoryRepository,
	catalog repository.CatalogRepository,
	reconciler *inventory.Reconciler,
	publisher ReportPublisher,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		ledger:     ledger,
		inv:        inv,
		catalog:    catalog,
		reconciler: reconciler,
		publisher:  publisher,
		log:        log,
		now:        time.Now,
	}
}

// Process aplica un evento exactamente una vez. Re-procesar el mismo origen
// (re-entrega byte-idéntica o edición) supersede las filas previas de ese
// origen y deja ledger y stock como si solo la última versión hubiera
// existido. El orden upsert → reconciliación → rebuild es fijo.
func (uc *UseCase) Process(ctx context.Context, ev entity.Event) error {
	log := uc.log.WithOrigin(ev.Origin)

	fields := extract.Parse(ev.Title, ev.Body)
	cls := classify.Classify(ev.Labels)
	if !cls.Actionable {
		log.Info().Msg("sin etiqueta reconocida; solo rebuild de reportes")
		return uc.publisher.Publish(ctx)
	}

	tx := entity.Transaction{
		Kind:   cls.Kind,
		Scope:  cls.Scope,
		Fecha:  uc.resolveFecha(fields, ev, log),
		Items:  fields.Items,
		Origin: ev.Origin,
		Notas:  fields.Notas,
	}
	if tx.Kind == entity.KindVenta {
		tx.Pago = classify.NormalizePayment(fields.Pago)
	}

	// Fallback de item único: formularios sin tabla traen campos discretos.
	if len(tx.Items) == 0 {
		if it, ok := fields.FallbackItem(); ok {
			tx.Items = []entity.LineItem{it}
		}
	}
	if len(tx.Items) == 0 {
		log.Warn().Str("titulo", ev.Title).Msg("transacción sin items válidos; no-op")
		return uc.publisher.Publish(ctx)
	}

	var err error
	switch tx.Kind {
	case entity.KindVenta:
		err = uc.applyVenta(ctx, tx)
	case entity.KindProduccion:
		err = uc.applyProduccion(ctx, tx)
	case entity.KindTraslado:
		err = uc.applyTraslado(ctx, tx)
	}
	if err != nil {
		// Fatal para la corrida: no se publica ningún reporte a medias.
		log.Error().Err(err).Str("tipo", tx.Kind).Msg("fallo al aplicar la transacción")
		return fmt.Errorf("aplicar %s de %s: %w", tx.Kind, ev.Origin, err)
	}

	log.Info().
		Str("tipo", tx.Kind).
		Str("canal", tx.Scope).
		Str("fecha", tx.Fecha).
		Int("items", len(tx.Items)).
		Msg("transacción aplicada")

	return uc.publisher.Publish(ctx)
}

// resolveFecha aplica la cadena de recuperación: campo extraído → timestamp
// de creación del evento → fecha actual. Nunca falla.
func (uc *UseCase) resolveFecha(f extract.Fields, ev entity.Event, log *logger.Logger) string {
	if f.Fecha != "" {
		return f.Fecha
	}
	if !ev.CreatedAt.IsZero() {
		log.Debug().Msg("sin fecha en el ticket; usando created_at del evento")
		return ev.CreatedAt.Format("2006-01-02")
	}
	log.Debug().Msg("sin fecha en el ticket ni en el evento; usando fecha actual")
	return uc.now().Format("2006-01-02")
}

// applyVenta: upsert en el ledger de ventas del canal y decremento de stock.
// La convergencia ante re-entregas/ediciones se logra revirtiendo el efecto
// de las filas previas del mismo origen antes de aplicar las nuevas.
func (uc *UseCase) applyVenta(ctx context.Context, tx entity.Transaction) error {
	rows, err := uc.buildRows(ctx, tx, true)
	if err != nil {
		return err
	}
	prev, err := uc.ledger.FindByOrigin(ctx, tx.Scope, tx.Kind, tx.Origin)
	if err != nil {
		return err
	}
	if err := uc.ledger.Upsert(ctx, tx.Scope, tx.Kind, tx.Origin, rows); err != nil {
		return err
	}
	if err := uc.reconciler.Apply(ctx, tx.Scope, entriesToItems(prev), +1); err != nil {
		return err
	}
	return uc.reconciler.Apply(ctx, tx.Scope, tx.Items, -1)
}

// applyProduccion: upsert en el ledger de producción (sin precio) e
// incremento de stock en el canal general.
func (uc *UseCase) applyProduccion(ctx context.Context, tx entity.Transaction) error {
	rows, err := uc.buildRows(ctx, tx, false)
	if err != nil {
		return err
	}
	prev, err := uc.ledger.FindByOrigin(ctx, tx.Scope, tx.Kind, tx.Origin)
	if err != nil {
		return err
	}
	if err := uc.ledger.Upsert(ctx, tx.Scope, tx.Kind, tx.Origin, rows); err != nil {
		return err
	}
	if err := uc.reconciler.Apply(ctx, tx.Scope, entriesToItems(prev), -1); err != nil {
		return err
	}
	return uc.reconciler.Apply(ctx, tx.Scope, tx.Items, +1)
}

// applyTraslado es el único caso con doble efecto atómico entre canales:
// resta stock general, suma stock mercado, y queda registrado como un solo
// asiento (sin precio) en el ledger dedicado de traslados.
func (uc *UseCase) applyTraslado(ctx context.Context, tx entity.Transaction) error {
	rows, err := uc.buildRows(ctx, tx, false)
	if err != nil {
		return err
	}
	prev, err := uc.ledger.FindByOrigin(ctx, entity.ScopeGeneral, entity.KindTraslado, tx.Origin)
	if err != nil {
		return err
	}
	if err := uc.ledger.Upsert(ctx, entity.ScopeGeneral, entity.KindTraslado, tx.Origin, rows); err != nil {
		return err
	}
	prevItems := entriesToItems(prev)
	if err := uc.reconciler.Apply(ctx, entity.ScopeGeneral, prevItems, +1); err != nil {
		return err
	}
	if err := uc.reconciler.Apply(ctx, entity.ScopeMercado, prevItems, -1); err != nil {
		return err
	}
	if err := uc.reconciler.Apply(ctx, entity.ScopeGeneral, tx.Items, -1); err != nil {
		return err
	}
	return uc.reconciler.Apply(ctx, entity.ScopeMercado, tx.Items, +1)
}

// buildRows materializa las filas del ledger para la transacción, con precio
// resuelto (si aplica), importe redondeado y clave de idempotencia.
func (uc *UseCase) buildRows(ctx context.Context, tx entity.Transaction, priced bool) ([]entity.LedgerEntry, error) {
	rows := make([]entity.LedgerEntry, 0, len(tx.Items))
	for i, it := range tx.Items {
		row := entity.LedgerEntry{
			Origin:   tx.Origin,
			Fecha:    tx.Fecha,
			SKU:      it.SKU,
			Cantidad: it.Cantidad,
			Pago:     tx.Pago,
			Notas:    tx.Notas,
		}
		if priced {
			precio, err := uc.resolvePrecio(ctx, tx.Scope, it)
			if err != nil {
				return nil, err
			}
			row.PrecioUnit = precio
		}
		row.ComputeImporte()
		if row.SKU != "" && row.Fecha != "" {
			row.ID = identity.Key(tx.Origin, tx.Scope, tx.Kind, row.SKU, row.Cantidad, row.PrecioUnit, row.Fecha)
		} else {
			row.ID = identity.OrdinalKey(tx.Origin, tx.Scope, tx.Kind, i)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
