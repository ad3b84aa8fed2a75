package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"rezzy/internal/notifications"
	"rezzy/pkg/contracts"
	"rezzy/pkg/kafka"
	"rezzy/pkg/logger"
)

const (
	ServiceName     = "notifier"
	ConsumerGroupID = "rezzy-notifier"
)

func main() {
	log := logger.New(logger.Config{
		Level:   os.Getenv("LOG_LEVEL"),
		Format:  logger.JSON,
		Service: ServiceName,
	})

	kafkaCfg := kafka.LoadConfig()

	handler := notifications.NewHandler(notifications.NewLogSender(log), log)

	consumer, err := kafka.NewConsumer(
		kafkaCfg,
		contracts.BookingEventsTopic,
		ConsumerGroupID,
		contracts.BookingEventsDLQTopic,
		handler.Handle,
		log,
	)
	if err != nil {
		log.Fatal("Failed to create Kafka consumer", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		sig := <-quit
		log.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	log.Info("Notifier started", "topic", contracts.BookingEventsTopic, "group_id", ConsumerGroupID)

	if err := consumer.Start(ctx); err != nil && ctx.Err() == nil {
		log.Error("Consumer stopped with error", "error", err)
	}

	if err := consumer.Close(); err != nil {
		log.Error("Failed to close consumer", "error", err)
	}

	log.Info("Notifier stopped")
}
