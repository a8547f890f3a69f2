package routers

import (
	"nursecare-service/internal/app/delivery/http/controllers"

	"github.com/go-chi/chi/v5"
)

func attachPageRoutes(router chi.Router, pageController *controllers.PageController) {
	router.Get("/success", pageController.CheckoutSuccess)
	router.Get("/cancel", pageController.CheckoutCancel)
	router.Get("/healthz", pageController.Liveness)
	router.Get("/readyz", pageController.Readiness)
}
