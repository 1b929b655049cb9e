package reports

import (
	"context"
	"fmt"

	"github.com/jhoicas/Paleteria-ledger/pkg/logger"
)

// Service une el agregador con los escritores de salida. Publish es
// todo-o-nada por escritor: un fallo aborta la corrida sin dejar reportes
// a medio escribir (cada escritor reemplaza archivos completos).
type Service struct {
	agg     *Aggregator
	writers []Writer
	log     *logger.Logger
}

// NewService construye el servicio de publicación.
func NewService(agg *Aggregator, log *logger.Logger, writers ...Writer) *Service {
	return &Service{agg: agg, writers: writers, log: log}
}

// Publish reconstruye los reportes y los escribe en todas las salidas.
func (s *Service) Publish(ctx context.Context) error {
	d, err := s.agg.Rebuild(ctx)
	if err != nil {
		return fmt.Errorf("rebuild de reportes: %w", err)
	}
	for _, w := range s.writers {
		if err := w.Write(ctx, d); err != nil {
			return fmt.Errorf("publicar reportes: %w", err)
		}
	}
	s.log.Debug().
		Int("productos", d.Resumen.ProductosDistintos).
		Int("unidades_vendidas", d.Resumen.UnidadesVendidas).
		Msg("reportes publicados")
	return nil
}
