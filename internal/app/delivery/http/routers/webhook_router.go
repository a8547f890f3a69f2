package routers

import (
	"nursecare-service/internal/app/delivery/http/controllers"
	"nursecare-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachWebhookRoutes(router chi.Router, middlewares *middlewares.Middlewares, webhookController *controllers.WebhookController) {
	router.With(middlewares.BodyBuffer).Post("/webhook", webhookController.HandleLedgerWebhook)
}
