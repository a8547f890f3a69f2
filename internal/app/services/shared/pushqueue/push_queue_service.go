package pushqueue

import (
	"context"
	"fmt"
	"nursecare-service/internal/app/contracts"
	"nursecare-service/internal/pkg/constvars"
	"nursecare-service/internal/pkg/exceptions"
	"sync"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	StandardQueueName   = "nursecare_push_notification_queue"
	DeadLetterQueueName = "nursecare_push_notification_dlq"
)

// Service publishes push messages to a durable queue with publisher confirms
// and pulls them back with basic.get so the worker controls the batch size.
type Service struct {
	ch       *amqp.Channel
	log      *zap.Logger
	prefetch int
	confirms chan amqp.Confirmation
	mu       sync.Mutex
}

func NewService(conn *amqp.Connection, log *zap.Logger, prefetch int) (contracts.PushQueue, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	for _, queue := range []string{StandardQueueName, DeadLetterQueueName} {
		_, err = ch.QueueDeclare(
			queue, // name
			true,  // durable
			false, // autoDelete
			false, // exclusive
			false, // noWait
			nil,   // args
		)
		if err != nil {
			return nil, err
		}
	}

	if prefetch <= 0 {
		prefetch = 1
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		return nil, err
	}

	if err := ch.Confirm(false); err != nil {
		return nil, err
	}

	return &Service{
		ch:       ch,
		log:      log,
		prefetch: prefetch,
		confirms: ch.NotifyPublish(make(chan amqp.Confirmation, 1)),
	}, nil
}

func (s *Service) Enqueue(ctx context.Context, message contracts.PushMessage) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.log.Info("PushQueue.Enqueue called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingMessageIDKey, message.ID),
	)
	return s.publish(ctx, StandardQueueName, message)
}

// Reenqueue puts a message back at the tail of the standard queue, usually
// with an increased failed count.
func (s *Service) Reenqueue(ctx context.Context, message contracts.PushMessage) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.log.Info("PushQueue.Reenqueue called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingMessageIDKey, message.ID),
		zap.Int(constvars.LoggingFailedCountKey, message.FailedCount),
	)
	return s.publish(ctx, StandardQueueName, message)
}

func (s *Service) EnqueueToDeadQueue(ctx context.Context, message contracts.PushMessage) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.log.Warn("PushQueue.EnqueueToDeadQueue called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingMessageIDKey, message.ID),
		zap.Int(constvars.LoggingFailedCountKey, message.FailedCount),
	)
	return s.publish(ctx, DeadLetterQueueName, message)
}

// FetchN retrieves up to max messages without auto-ack.
func (s *Service) FetchN(ctx context.Context, max int) ([]contracts.QueuedPush, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.log.Info("PushQueue.FetchN called", zap.String(constvars.LoggingRequestIDKey, requestID))

	if max <= 0 {
		max = 1
	}
	items := make([]contracts.QueuedPush, 0, max)

	for i := 0; i < max; i++ {
		delivery, ok, err := s.ch.Get(StandardQueueName, false)
		if err != nil {
			return nil, exceptions.ErrRabbitMQFetchMessage(err, StandardQueueName)
		}
		if !ok {
			break
		}

		var message contracts.PushMessage
		if err := json.Unmarshal(delivery.Body, &message); err != nil {
			// poison message, park it in the DLQ
			_ = delivery.Ack(false)
			_ = s.publishRaw(ctx, DeadLetterQueueName, delivery.Body)
			continue
		}
		items = append(items, contracts.QueuedPush{DeliveryTag: delivery.DeliveryTag, Message: message})
	}

	return items, nil
}

func (s *Service) Ack(ctx context.Context, deliveryTag uint64) error {
	return s.ch.Ack(deliveryTag, false)
}

func (s *Service) publish(ctx context.Context, queue string, message contracts.PushMessage) error {
	body, err := json.Marshal(message)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}
	return s.publishRaw(ctx, queue, body)
}

func (s *Service) publishRaw(ctx context.Context, queue string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := amqp.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		Body:         body,
		DeliveryMode: amqp.Persistent,
	}
	if err := s.ch.PublishWithContext(ctx, "", queue, false, false, msg); err != nil {
		return exceptions.ErrRabbitMQPublishMessage(err, queue)
	}

	select {
	case confirmed := <-s.confirms:
		if !confirmed.Ack {
			return exceptions.ErrRabbitMQPublishMessage(fmt.Errorf("message not confirmed"), queue)
		}
	case <-ctx.Done():
		return exceptions.ErrRabbitMQPublishMessage(ctx.Err(), queue)
	}
	return nil
}
