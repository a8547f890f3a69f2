package routers

import (
	"fmt"
	"nursecare-service/internal/app/config"
	"nursecare-service/internal/app/delivery/http/controllers"
	"nursecare-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
)

func SetupRoutes(
	router *chi.Mux,
	internalConfig *config.InternalConfig,
	middlewares *middlewares.Middlewares,
	accessLog *logrus.Logger,
	appointmentController *controllers.AppointmentController,
	webhookController *controllers.WebhookController,
	chatController *controllers.ChatController,
	pageController *controllers.PageController,
) {
	corsOptions := cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}
	router.Use(cors.Handler(corsOptions))
	router.Use(middlewares.RequestIDMiddleware)
	router.Use(middlewares.ErrorHandler)
	router.Use(middlewares.Logging)
	if accessLog != nil {
		router.Use(middlewares.RequestLogger(accessLog))
	}
	router.Use(middlewares.RateLimit())

	endpointPrefix := fmt.Sprintf("/%s", internalConfig.App.EndpointPrefix)
	versionPrefix := fmt.Sprintf("/%s", internalConfig.App.Version)

	router.Route(endpointPrefix, func(r chi.Router) {
		r.Route(versionPrefix, func(r chi.Router) {
			attachPageRoutes(r, pageController)
			attachWebhookRoutes(r, middlewares, webhookController)

			r.Route("/appointments", func(r chi.Router) {
				attachAppointmentRoutes(r, middlewares, appointmentController)
			})

			r.Route("/chats", func(r chi.Router) {
				attachChatRoutes(r, middlewares, chatController)
			})
		})
	})
}
