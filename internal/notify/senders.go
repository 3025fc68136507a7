package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"stopshot/pkg/kafka"
	"stopshot/pkg/logger"
	"stopshot/pkg/model"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	eventSource        = "stopshot-reservations"
	eventSchemaVersion = "1"
)

// Publisher is the part of kafka.Producer the sender needs.
type Publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
	Close() error
}

// KafkaSender publishes events keyed by reservation id so one reservation's
// events stay ordered on a partition.
type KafkaSender struct {
	producer Publisher
}

func NewKafkaSender(producer Publisher) *KafkaSender {
	return &KafkaSender{producer: producer}
}

func (s *KafkaSender) Send(ctx context.Context, event model.ReservationEvent) error {
	msg, err := kafka.NewMessage().
		WithKey(event.Reservation.ID).
		WithValue(event).
		WithEventType(string(event.Type)).
		WithCorrelationID(event.CorrelationID).
		WithSchemaVersion(eventSchemaVersion).
		WithSource(eventSource).
		WithTimestamp(event.OccurredAt).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build event message: %w", err)
	}
	return s.producer.Publish(ctx, msg)
}

func (s *KafkaSender) Close() error {
	return s.producer.Close()
}

// RabbitMQSender publishes persistent JSON messages to a durable queue on the
// default exchange.
type RabbitMQSender struct {
	mu    sync.Mutex
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

func NewRabbitMQSender(url, queue string) (*RabbitMQSender, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: dial failed: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq: channel open failed: %w", err)
	}

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq: queue declare failed: %w", err)
	}

	return &RabbitMQSender{conn: conn, ch: ch, queue: queue}, nil
}

func (s *RabbitMQSender) Send(ctx context.Context, event model.ReservationEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("rabbitmq: marshal event failed: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp.Persistent,
		Timestamp:     time.Now().UTC(),
		Type:          string(event.Type),
		CorrelationId: event.CorrelationID,
		AppId:         eventSource,
		Body:          body,
	}

	// amqp channels are not safe for concurrent publishing.
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ch.PublishWithContext(ctx, "", s.queue, false, false, pub); err != nil {
		return fmt.Errorf("rabbitmq: publish failed: %w", err)
	}
	return nil
}

func (s *RabbitMQSender) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	chErr := s.ch.Close()
	if err := s.conn.Close(); err != nil {
		return err
	}
	return chErr
}

// LogSender renders the guest message and writes it to the log. It is the
// delivery used when no broker is configured.
type LogSender struct {
	log *logger.Logger
}

func NewLogSender(log *logger.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, event model.ReservationEvent) error {
	msg := Render(event)
	s.log.Info("Reservation notification",
		"type", event.Type,
		"reservation_id", event.Reservation.ID,
		"old_status", event.OldStatus,
		"new_status", event.NewStatus,
		"to", msg.To,
		"subject", msg.Subject,
		"body", msg.Body,
	)
	return nil
}

func (s *LogSender) Close() error {
	return nil
}
