package push

import (
	"context"
	"nursecare-service/internal/app/config"
	"nursecare-service/internal/app/contracts"
	"nursecare-service/internal/pkg/constvars"
	"nursecare-service/internal/pkg/exceptions"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// MessageSender is the part of *messaging.Client the dispatcher needs.
type MessageSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

type firebaseDispatcher struct {
	Sender  MessageSender
	Limiter *rate.Limiter
	Log     *zap.Logger
}

func NewFirebaseDispatcher(sender MessageSender, internalConfig *config.InternalConfig, logger *zap.Logger) contracts.PushDispatcher {
	burst := internalConfig.Firebase.PushBurst
	if burst <= 0 {
		burst = 1
	}
	limit := rate.Inf
	if internalConfig.Firebase.PushRatePerSecond > 0 {
		limit = rate.Limit(internalConfig.Firebase.PushRatePerSecond)
	}
	return &firebaseDispatcher{
		Sender:  sender,
		Limiter: rate.NewLimiter(limit, burst),
		Log:     logger,
	}
}

// Send delivers a data message. Clients build the visible notification from
// the data keys, so no notification block is attached.
func (d *firebaseDispatcher) Send(ctx context.Context, deviceToken string, payload contracts.PushPayload) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	d.Log.Info("firebaseDispatcher.Send called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingMessageIDKey, payload.ID),
	)

	err := d.Limiter.Wait(ctx)
	if err != nil {
		return exceptions.ErrPushSend(err)
	}

	message := &messaging.Message{
		Token: deviceToken,
		Data: map[string]string{
			"title": payload.Title,
			"body":  payload.Body,
			"type":  payload.Type,
			"id":    payload.ID,
			"date":  payload.Date,
			"image": payload.Image,
		},
	}

	messageID, err := d.Sender.Send(ctx, message)
	if err != nil {
		d.Log.Error("firebaseDispatcher.Send error sending message",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return exceptions.ErrPushSend(err)
	}

	d.Log.Info("firebaseDispatcher.Send succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("provider_message_id", messageID),
	)
	return nil
}
