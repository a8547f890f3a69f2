package appointments

import (
	"context"
	"nursecare-service/internal/app/contracts"
	"nursecare-service/internal/app/models"
	"nursecare-service/internal/pkg/constvars"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type notice struct {
	recipient *models.Party
	sender    *models.Party
	title     string
	body      string
	status    string
}

func (uc *appointmentUsecase) partyRepository(kind models.PartyKind) contracts.PartyRepository {
	if kind == models.PartyKindNurse {
		return uc.NurseRepository
	}
	return uc.UserRepository
}

// notify writes the notification row with a pending delivery and links it to
// the recipient. It must run inside the caller's transaction; the push itself
// is sent later by the outbox relay.
func (uc *appointmentUsecase) notify(ctx context.Context, appointment *models.Appointment, n notice, now time.Time) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	notification := &models.Notification{
		ID:            primitive.NewObjectID(),
		Recipient:     n.recipient.ID,
		RecipientKind: n.recipient.Kind,
		Title:         n.title,
		Body:          n.body,
		Type:          constvars.NotificationTypeNotification,
		Date:          now,
		Status:        n.status,
		ReferenceID:   appointment.ID.Hex(),
		Image:         n.sender.Photo,
		Delivery: models.NotificationDelivery{
			Status:      constvars.PushDeliveryPending,
			DeviceToken: n.recipient.DeviceID,
			UpdatedAt:   now,
		},
	}

	if err := uc.NotificationRepository.Create(ctx, notification); err != nil {
		uc.Log.Error("appointmentUsecase.notify error creating notification",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAppointmentIDKey, appointment.ID.Hex()),
			zap.Error(err),
		)
		return err
	}

	if err := uc.partyRepository(n.recipient.Kind).AddNotification(ctx, n.recipient.ID, notification.ID); err != nil {
		uc.Log.Error("appointmentUsecase.notify error linking notification to recipient",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingNotificationIDKey, notification.ID.Hex()),
			zap.Error(err),
		)
		return err
	}
	return nil
}
