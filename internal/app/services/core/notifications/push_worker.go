package notifications

import (
	"context"
	"nursecare-service/internal/app/config"
	"nursecare-service/internal/app/contracts"
	"nursecare-service/internal/pkg/constvars"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	defaultPushInterval  = 5 * time.Second
	defaultPushBatchSize = 20
	defaultThrottleRetry = 5
)

// PushWorker drains the push queue with at-least-once semantics. Failed sends
// go back to the tail until ThrottleRetry is reached, then to the dead letter
// queue.
type PushWorker struct {
	log           *zap.Logger
	cfg           *config.InternalConfig
	locker        contracts.LockerService
	queue         contracts.PushQueue
	dispatcher    contracts.PushDispatcher
	notifications contracts.NotificationRepository
}

func NewPushWorker(log *zap.Logger, cfg *config.InternalConfig, lockerSvc contracts.LockerService, queue contracts.PushQueue, dispatcher contracts.PushDispatcher, notificationRepository contracts.NotificationRepository) *PushWorker {
	return &PushWorker{
		log:           log,
		cfg:           cfg,
		locker:        lockerSvc,
		queue:         queue,
		dispatcher:    dispatcher,
		notifications: notificationRepository,
	}
}

func (w *PushWorker) interval() time.Duration {
	return intervalOrDefault(w.cfg.Outbox.PushIntervalInSeconds, defaultPushInterval)
}

func (w *PushWorker) throttleRetry() int {
	if w.cfg.Outbox.ThrottleRetry <= 0 {
		return defaultThrottleRetry
	}
	return w.cfg.Outbox.ThrottleRetry
}

// Start begins the ticker loop. It returns a stop function to halt execution.
func (w *PushWorker) Start(ctx context.Context) (stop func()) {
	w.log.Info("notifications.PushWorker started", zap.Duration("interval", w.interval()))
	return runEvery(ctx, w.interval(), w.RunOnce)
}

func (w *PushWorker) RunOnce(ctx context.Context, now time.Time) {
	acquired, lockValue, err := w.locker.TryLock(ctx, constvars.LockKeyPushWorker, lockTTL(w.interval()))
	if err != nil {
		w.log.Warn("notifications.PushWorker lock attempt failed", zap.Error(err))
		return
	}
	if !acquired {
		w.log.Debug("notifications.PushWorker lock held by another instance")
		return
	}
	defer func() {
		if err := w.locker.Unlock(ctx, constvars.LockKeyPushWorker, lockValue); err != nil {
			w.log.Error("notifications.PushWorker unlock failed", zap.Error(err))
		}
	}()

	max := w.cfg.Outbox.PushBatchSize
	if max <= 0 {
		max = defaultPushBatchSize
	}
	items, err := w.queue.FetchN(ctx, max)
	if err != nil {
		w.log.Error("notifications.PushWorker error fetching queue", zap.Error(err))
		return
	}

	for _, item := range items {
		w.processItem(ctx, item)
	}
	if len(items) > 0 {
		w.log.Info("notifications.PushWorker processed batch",
			zap.Int(constvars.LoggingCountKey, len(items)),
			zap.Time("now", now),
		)
	}
}

func (w *PushWorker) processItem(ctx context.Context, item contracts.QueuedPush) {
	msg := item.Message

	err := w.dispatcher.Send(ctx, msg.DeviceToken, msg.Payload)
	if err == nil {
		if ackErr := w.queue.Ack(ctx, item.DeliveryTag); ackErr != nil {
			w.log.Warn("notifications.PushWorker ack failed after send",
				zap.String(constvars.LoggingMessageIDKey, msg.ID),
				zap.Error(ackErr),
			)
		}
		w.markDelivery(ctx, msg, constvars.PushDeliverySent, msg.FailedCount+1, "")
		return
	}

	msg.FailedCount++
	if msg.FailedCount >= w.throttleRetry() {
		if dlqErr := w.queue.EnqueueToDeadQueue(ctx, msg); dlqErr != nil {
			w.log.Error("notifications.PushWorker enqueue to DLQ failed",
				zap.String(constvars.LoggingMessageIDKey, msg.ID),
				zap.Error(dlqErr),
			)
			return
		}
		_ = w.queue.Ack(ctx, item.DeliveryTag)
		w.markDelivery(ctx, msg, constvars.PushDeliveryFailed, msg.FailedCount, err.Error())
		w.log.Warn("notifications.PushWorker moved message to DLQ",
			zap.String(constvars.LoggingMessageIDKey, msg.ID),
			zap.Int(constvars.LoggingFailedCountKey, msg.FailedCount),
			zap.Error(err),
		)
		return
	}

	if requeueErr := w.queue.Reenqueue(ctx, msg); requeueErr != nil {
		w.log.Error("notifications.PushWorker reenqueue failed",
			zap.String(constvars.LoggingMessageIDKey, msg.ID),
			zap.Error(requeueErr),
		)
		return
	}
	_ = w.queue.Ack(ctx, item.DeliveryTag)
	w.log.Info("notifications.PushWorker send failed, requeued",
		zap.String(constvars.LoggingMessageIDKey, msg.ID),
		zap.Int(constvars.LoggingFailedCountKey, msg.FailedCount),
		zap.Error(err),
	)
}

// markDelivery records the outcome on the notification row. Chat pushes have
// no row and are skipped.
func (w *PushWorker) markDelivery(ctx context.Context, msg contracts.PushMessage, status string, attempts int, lastError string) {
	if msg.NotificationID == "" {
		return
	}
	notificationID, err := primitive.ObjectIDFromHex(msg.NotificationID)
	if err != nil {
		w.log.Warn("notifications.PushWorker invalid notification id",
			zap.String(constvars.LoggingNotificationIDKey, msg.NotificationID),
		)
		return
	}
	if err := w.notifications.MarkDelivery(ctx, notificationID, status, attempts, lastError); err != nil {
		w.log.Error("notifications.PushWorker error recording delivery",
			zap.String(constvars.LoggingNotificationIDKey, msg.NotificationID),
			zap.Error(err),
		)
	}
}
