package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"stopshot/internal/notify"
	"stopshot/pkg/config"
	"stopshot/pkg/kafka"
	kafka_config "stopshot/pkg/kafka/config"
	kafkamiddleware "stopshot/pkg/kafka/middleware"
)

const ServiceName = "notifier"

// The notifier reads reservation events off Kafka and delivers the rendered
// guest message. With NOTIFY_BACKEND=rabbitmq it forwards to the mail queue;
// otherwise it logs the message.
func main() {
	cfg := config.Load(ServiceName)

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	var sender notify.Sender = notify.NewLogSender(cfg.Log)
	if cfg.NotifyBackend == config.NotifyRabbitMQ {
		rabbit, err := notify.NewRabbitMQSender(cfg.RabbitMQURL, cfg.RabbitMQQueue)
		if err != nil {
			cfg.Log.Fatal("Failed to connect to RabbitMQ", "error", err)
		}
		sender = rabbit
	}
	defer func() {
		if err := sender.Close(); err != nil {
			cfg.Log.Error("Failed to close sender", "error", err)
		}
	}()

	consumer, err := kafka.NewConsumer(kafkaCfg, cfg.EventsTopic, kafkaCfg.ConsumerGroupID, cfg.EventsDLQTopic, notify.Handler(sender), cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	consumer.Use(kafkamiddleware.LoggingConsumerMiddleware(cfg.Log))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg.Log.Info("Starting Notifier", "topic", cfg.EventsTopic, "group_id", kafkaCfg.ConsumerGroupID)
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, kafka.ErrConsumerClosed) {
		cfg.Log.Error("Consumer stopped", "error", err)
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close consumer", "error", err)
	}
	cfg.Log.Info("Notifier stopped")
}
