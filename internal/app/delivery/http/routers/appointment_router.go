package routers

import (
	"nursecare-service/internal/app/delivery/http/controllers"
	"nursecare-service/internal/app/delivery/http/middlewares"
	"nursecare-service/internal/pkg/constvars"

	"github.com/go-chi/chi/v5"
)

func attachAppointmentRoutes(router chi.Router, middlewares *middlewares.Middlewares, appointmentController *controllers.AppointmentController) {
	router.Use(middlewares.Authenticate)

	router.Group(func(r chi.Router) {
		r.Use(middlewares.RequireRole(constvars.RoleUser))
		r.Post("/checkout-session", appointmentController.CreateCheckoutSession)
		r.Post("/userConfirmation/{appointmentID}", appointmentController.UserConfirmAppointment)
		r.Delete("/userCancellation/{appointmentID}", appointmentController.UserCancelAppointment)
		r.Delete("/userCancellationWithTax/{appointmentID}", appointmentController.CancelWithTax)
		r.Get("/user/{bucket}", appointmentController.ListMyAppointments)
	})

	router.Group(func(r chi.Router) {
		r.Use(middlewares.RequireRole(constvars.RoleNurse))
		r.Post("/nurseAcceptance/{appointmentID}", appointmentController.AcceptAppointment)
		r.Post("/nurseRejection/{appointmentID}", appointmentController.RejectAppointment)
		r.Delete("/nurseCancellation/{appointmentID}", appointmentController.NurseCancelAppointment)
		r.Get("/nurse/{bucket}", appointmentController.ListMyAppointments)
	})

	router.Group(func(r chi.Router) {
		r.Use(middlewares.RequireRole(constvars.RoleAdmin))
		r.Get("/", appointmentController.GetAllAppointments)
		r.Get("/{appointmentID}", appointmentController.GetAppointment)
		r.Delete("/{appointmentID}", appointmentController.DeleteAppointment)
	})
}
