package events

import (
	"context"
	"rezzy/pkg/contracts"
	"rezzy/pkg/kafka"
	"rezzy/pkg/logger"
	"rezzy/pkg/model"
)

// Publisher emits booking lifecycle events. Publishing happens after the
// database write has committed, so failures are logged and swallowed
// rather than rolling back the booking.
type Publisher interface {
	PublishBookingEvent(ctx context.Context, eventType string, booking *model.Booking)
	Close() error
}

type kafkaPublisher struct {
	producer *kafka.Producer
	log      *logger.Logger
}

func NewKafkaPublisher(producer *kafka.Producer, log *logger.Logger) Publisher {
	return &kafkaPublisher{
		producer: producer,
		log:      log,
	}
}

func (p *kafkaPublisher) PublishBookingEvent(ctx context.Context, eventType string, booking *model.Booking) {
	msg := kafka.NewMessage().
		WithKey(booking.TenantID).
		WithValue(contracts.NewBookingEvent(booking)).
		WithEventType(eventType).
		WithCorrelationID(booking.ID).
		WithSource("bookings-api").
		Build()

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Error("Failed to publish booking event",
			"event_type", eventType,
			"booking_id", booking.ID,
			"error", err,
		)
		return
	}

	p.log.Debug("Booking event published",
		"event_type", eventType,
		"booking_id", booking.ID,
	)
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

type noopPublisher struct{}

// NewNoopPublisher returns a publisher that drops every event. Used when
// Kafka is not configured and in tests.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) PublishBookingEvent(context.Context, string, *model.Booking) {}

func (noopPublisher) Close() error { return nil }
