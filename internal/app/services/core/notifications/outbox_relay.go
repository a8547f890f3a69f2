package notifications

import (
	"context"
	"nursecare-service/internal/app/config"
	"nursecare-service/internal/app/contracts"
	"nursecare-service/internal/app/models"
	"nursecare-service/internal/app/services/shared/storage"
	"nursecare-service/internal/pkg/constvars"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultRelayInterval  = 5 * time.Second
	defaultRelayBatchSize = 50
)

// OutboxRelay moves notifications written inside lifecycle transactions onto
// the push queue. A notification is queued at most once; delivery retries are
// the push worker's job.
type OutboxRelay struct {
	log           *zap.Logger
	cfg           *config.InternalConfig
	locker        contracts.LockerService
	notifications contracts.NotificationRepository
	queue         contracts.PushQueue
	storage       contracts.Storage
}

func NewOutboxRelay(log *zap.Logger, cfg *config.InternalConfig, lockerSvc contracts.LockerService, notificationRepository contracts.NotificationRepository, queue contracts.PushQueue, minioStorage contracts.Storage) *OutboxRelay {
	return &OutboxRelay{
		log:           log,
		cfg:           cfg,
		locker:        lockerSvc,
		notifications: notificationRepository,
		queue:         queue,
		storage:       minioStorage,
	}
}

func (r *OutboxRelay) interval() time.Duration {
	return intervalOrDefault(r.cfg.Outbox.RelayIntervalInSeconds, defaultRelayInterval)
}

// Start begins the ticker loop. It returns a stop function to halt execution.
func (r *OutboxRelay) Start(ctx context.Context) (stop func()) {
	r.log.Info("notifications.OutboxRelay started", zap.Duration("interval", r.interval()))
	return runEvery(ctx, r.interval(), r.RunOnce)
}

func (r *OutboxRelay) RunOnce(ctx context.Context, now time.Time) {
	acquired, lockValue, err := r.locker.TryLock(ctx, constvars.LockKeyOutboxRelay, lockTTL(r.interval()))
	if err != nil {
		r.log.Warn("notifications.OutboxRelay lock attempt failed", zap.Error(err))
		return
	}
	if !acquired {
		r.log.Debug("notifications.OutboxRelay lock held by another instance")
		return
	}
	defer func() {
		if err := r.locker.Unlock(ctx, constvars.LockKeyOutboxRelay, lockValue); err != nil {
			r.log.Error("notifications.OutboxRelay unlock failed", zap.Error(err))
		}
	}()

	batchSize := r.cfg.Outbox.RelayBatchSize
	if batchSize <= 0 {
		batchSize = defaultRelayBatchSize
	}
	pending, err := r.notifications.FindPendingDelivery(ctx, batchSize)
	if err != nil {
		r.log.Error("notifications.OutboxRelay error fetching pending notifications", zap.Error(err))
		return
	}

	for i := range pending {
		r.relay(ctx, &pending[i])
	}
	if len(pending) > 0 {
		r.log.Info("notifications.OutboxRelay relayed batch",
			zap.Int(constvars.LoggingCountKey, len(pending)),
			zap.Time("now", now),
		)
	}
}

func (r *OutboxRelay) relay(ctx context.Context, notification *models.Notification) {
	notificationID := notification.ID.Hex()
	attempts := notification.Delivery.Attempts

	if notification.Delivery.DeviceToken == "" {
		if err := r.notifications.MarkDelivery(ctx, notification.ID, constvars.PushDeliverySkipped, attempts, ""); err != nil {
			r.log.Error("notifications.OutboxRelay error marking skipped",
				zap.String(constvars.LoggingNotificationIDKey, notificationID),
				zap.Error(err),
			)
		}
		return
	}

	image, err := storage.ResolveImageURL(ctx, r.storage, notification.Image)
	if err != nil {
		r.log.Warn("notifications.OutboxRelay error presigning image",
			zap.String(constvars.LoggingNotificationIDKey, notificationID),
			zap.Error(err),
		)
		image = ""
	}

	message := contracts.PushMessage{
		ID:             uuid.NewString(),
		NotificationID: notificationID,
		DeviceToken:    notification.Delivery.DeviceToken,
		Payload: contracts.PushPayload{
			Title: notification.Title,
			Body:  notification.Body,
			Type:  notification.Type,
			ID:    notification.ReferenceID,
			Date:  notification.Date.Format(time.RFC3339),
			Image: image,
		},
	}
	if err := r.queue.Enqueue(ctx, message); err != nil {
		// left pending, picked up again on the next tick
		r.log.Error("notifications.OutboxRelay error enqueueing push",
			zap.String(constvars.LoggingNotificationIDKey, notificationID),
			zap.Error(err),
		)
		return
	}

	if err := r.notifications.MarkDelivery(ctx, notification.ID, constvars.PushDeliveryQueued, attempts, ""); err != nil {
		r.log.Error("notifications.OutboxRelay error marking queued",
			zap.String(constvars.LoggingNotificationIDKey, notificationID),
			zap.Error(err),
		)
	}
}
