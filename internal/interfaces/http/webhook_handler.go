package http

import (
	"sync"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Paleteria-ledger/internal/application/process"
	"github.com/jhoicas/Paleteria-ledger/internal/interfaces/issueevent"
	"github.com/jhoicas/Paleteria-ledger/pkg/logger"
)

// WebhookHandler recibe eventos de issues ya entregados y corre el pipeline.
// El mutex serializa las corridas: el diseño de los stores asume a lo sumo
// una invocación a la vez y aquí es donde se sostiene esa suposición cuando
// el ingreso es HTTP.
type WebhookHandler struct {
	uc  *process.UseCase
	log *logger.Logger
	mu  sync.Mutex
}

// NewWebhookHandler construye el handler.
func NewWebhookHandler(uc *process.UseCase, log *logger.Logger) *WebhookHandler {
	return &WebhookHandler{uc: uc, log: log}
}

// HandleIssue procesa un POST del webhook de issues.
func (h *WebhookHandler) HandleIssue(c *fiber.Ctx) error {
	var p issueevent.Payload
	if err := c.BodyParser(&p); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "payload inválido"})
	}
	ev, ok := p.Event()
	if !ok {
		h.log.Debug().Str("action", p.Action).Msg("evento sin issue; ignorado")
		return c.JSON(fiber.Map{"status": "ignorado"})
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.uc.Process(c.Context(), ev); err != nil {
		h.log.Error().Err(err).Str("origen", ev.Origin).Msg("corrida fallida")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "corrida fallida"})
	}
	return c.JSON(fiber.Map{"status": "procesado", "origen": ev.Origin})
}
