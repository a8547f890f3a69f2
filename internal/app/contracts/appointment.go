package contracts

import (
	"context"
	"nursecare-service/internal/app/models"
	"nursecare-service/internal/pkg/dto/requests"
	"nursecare-service/internal/pkg/dto/responses"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *models.Appointment) error
	FindByID(ctx context.Context, appointmentID primitive.ObjectID) (*models.Appointment, error)
	FindAll(ctx context.Context) ([]models.Appointment, error)
	FindByIDs(ctx context.Context, appointmentIDs []primitive.ObjectID, sortByDateTime bool) ([]models.Appointment, error)
	UpdateTransition(ctx context.Context, appointment *models.Appointment, expected models.AppointmentStatus) error
	DeleteByID(ctx context.Context, appointmentID primitive.ObjectID) error
}

type AppointmentUsecase interface {
	CreateCheckoutSession(ctx context.Context, userID primitive.ObjectID, request *requests.CreateCheckoutSession) (*responses.CheckoutSession, error)
	HandleLedgerWebhook(ctx context.Context, payload []byte, signature string) (*responses.WebhookAck, error)
	AcceptAppointment(ctx context.Context, nurseID, appointmentID primitive.ObjectID) (*models.Appointment, error)
	RejectAppointment(ctx context.Context, nurseID, appointmentID primitive.ObjectID) (*models.Appointment, error)
	UserCancelAppointment(ctx context.Context, userID, appointmentID primitive.ObjectID, request *requests.CancelAppointment) (*models.Appointment, error)
	CancelWithTax(ctx context.Context, userID, appointmentID primitive.ObjectID, request *requests.CancelAppointment) (*models.Appointment, error)
	NurseCancelAppointment(ctx context.Context, nurseID, appointmentID primitive.ObjectID, request *requests.CancelAppointment) (*models.Appointment, error)
	UserConfirmAppointment(ctx context.Context, userID, appointmentID primitive.ObjectID) (*models.Appointment, error)
	DeleteAppointment(ctx context.Context, appointmentID primitive.ObjectID) error
	GetAllAppointments(ctx context.Context) ([]models.Appointment, error)
	GetAppointment(ctx context.Context, appointmentID primitive.ObjectID) (*models.Appointment, error)
	ListPartyAppointments(ctx context.Context, kind models.PartyKind, partyID primitive.ObjectID, bucket models.Bucket) ([]models.Appointment, error)
}
