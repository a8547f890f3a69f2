package routers

import (
	"nursecare-service/internal/app/delivery/http/controllers"
	"nursecare-service/internal/app/delivery/http/middlewares"
	"nursecare-service/internal/pkg/constvars"

	"github.com/go-chi/chi/v5"
)

// The role segment in the path and the token role must agree; the controller
// always reads the party kind from the token.
func attachChatRoutes(router chi.Router, middlewares *middlewares.Middlewares, chatController *controllers.ChatController) {
	router.Use(middlewares.Authenticate)

	router.With(middlewares.RequireRole(constvars.RoleUser)).Post("/userSendMessage", chatController.SendMessage)
	router.With(middlewares.RequireRole(constvars.RoleNurse)).Post("/nurseSendMessage", chatController.SendMessage)

	for _, role := range []string{constvars.RoleUser, constvars.RoleNurse} {
		router.Route("/"+role, func(r chi.Router) {
			r.Use(middlewares.RequireRole(role))
			r.Get("/mine", chatController.GetMyChats)
			r.Get("/appointment/{appointmentID}", chatController.GetChatByAppointment)
			r.Get("/{chatID}", chatController.GetChat)
		})
	}
}
