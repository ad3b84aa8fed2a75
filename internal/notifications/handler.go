package notifications

import (
	"context"
	"fmt"

	"rezzy/pkg/contracts"
	"rezzy/pkg/kafka"
	"rezzy/pkg/logger"
)

// Sender delivers one rendered notification to the customer.
// Implementations wrap a mail or SMS provider.
type Sender interface {
	Send(ctx context.Context, n *Notification) error
}

// Notification is a rendered message ready for delivery.
type Notification struct {
	Recipient string
	Subject   string
	Body      string
}

// Handler turns booking lifecycle events into customer notifications.
type Handler struct {
	sender Sender
	log    *logger.Logger
}

func NewHandler(sender Sender, log *logger.Logger) *Handler {
	return &Handler{
		sender: sender,
		log:    log,
	}
}

// Handle is the kafka.MessageHandler for the booking events topic.
// Unknown event types are committed without action so a newer producer
// never wedges an older consumer.
func (h *Handler) Handle(ctx context.Context, msg kafka.Message) error {
	var event contracts.BookingEvent
	if err := msg.DecodeValue(&event); err != nil {
		return fmt.Errorf("failed to decode booking event: %w", err)
	}

	eventType := msg.GetEventType()
	notification, ok := h.render(eventType, &event)
	if !ok {
		h.log.Warn("Skipping unknown event type",
			"event_type", eventType,
			"event_id", msg.GetEventID(),
		)
		return nil
	}

	if err := h.sender.Send(ctx, notification); err != nil {
		return fmt.Errorf("failed to send notification for %s: %w", eventType, err)
	}

	h.log.Info("Notification sent",
		"event_type", eventType,
		"booking_id", event.BookingID,
		"recipient", notification.Recipient,
	)
	return nil
}

func (h *Handler) render(eventType string, event *contracts.BookingEvent) (*Notification, bool) {
	when := fmt.Sprintf("%s at %s", event.BookingDate, event.StartAt.Format("15:04"))

	switch eventType {
	case contracts.EventBookingCreated:
		return &Notification{
			Recipient: event.CustomerEmail,
			Subject:   "Your booking is pending confirmation",
			Body: fmt.Sprintf(
				"Hi %s, your booking on %s is reserved. Confirm it with code %s.",
				event.CustomerName, when, event.ConfirmationCode,
			),
		}, true
	case contracts.EventBookingConfirmed:
		return &Notification{
			Recipient: event.CustomerEmail,
			Subject:   "Your booking is confirmed",
			Body: fmt.Sprintf(
				"Hi %s, your booking on %s is confirmed. See you then!",
				event.CustomerName, when,
			),
		}, true
	case contracts.EventBookingRescheduled:
		return &Notification{
			Recipient: event.CustomerEmail,
			Subject:   "Your booking has been rescheduled",
			Body: fmt.Sprintf(
				"Hi %s, your booking has been moved to %s.",
				event.CustomerName, when,
			),
		}, true
	case contracts.EventBookingCancelled:
		body := fmt.Sprintf("Hi %s, your booking on %s has been cancelled.", event.CustomerName, when)
		if event.CancelReason != "" {
			body += " Reason: " + event.CancelReason
		}
		return &Notification{
			Recipient: event.CustomerEmail,
			Subject:   "Your booking has been cancelled",
			Body:      body,
		}, true
	}

	return nil, false
}
