package http

import (
	"github.com/gofiber/fiber/v2"
)

// RouterDeps dependencias del router.
type RouterDeps struct {
	Webhook *WebhookHandler
}

// Router registra las rutas de la aplicación.
func Router(app *fiber.App, deps RouterDeps) {
	app.Post("/webhook/issues", deps.Webhook.HandleIssue)
}
