package contracts

import (
	"context"
	"nursecare-service/internal/app/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PartyRepository is implemented once per party collection (users, nurses).
// Bucket mutations are set-like: pulling an absent id and adding a present one
// are no-ops.
type PartyRepository interface {
	Kind() models.PartyKind
	Create(ctx context.Context, party *models.Party) error
	FindByID(ctx context.Context, partyID primitive.ObjectID) (*models.Party, error)
	MoveAppointment(ctx context.Context, partyID, appointmentID primitive.ObjectID, from []models.Bucket, to models.Bucket) error
	PullAppointmentEverywhere(ctx context.Context, partyID, appointmentID primitive.ObjectID) error
	AddChat(ctx context.Context, partyID, chatID primitive.ObjectID) error
	AddNotification(ctx context.Context, partyID, notificationID primitive.ObjectID) error
	IncrementPatients(ctx context.Context, partyID primitive.ObjectID) error
}
