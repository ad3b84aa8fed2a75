package notifications

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"rezzy/pkg/contracts"
	"rezzy/pkg/kafka"
	"rezzy/pkg/logger"
)

type captureSender struct {
	sent []*Notification
}

func (c *captureSender) Send(_ context.Context, n *Notification) error {
	c.sent = append(c.sent, n)
	return nil
}

func eventMessage(t *testing.T, eventType string, event *contracts.BookingEvent) kafka.Message {
	t.Helper()
	value, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	return kafka.Message{
		Value: value,
		Headers: map[string]string{
			kafka.HeaderEventType: eventType,
			kafka.HeaderEventID:   "evt-1",
		},
	}
}

func testEvent() *contracts.BookingEvent {
	return &contracts.BookingEvent{
		BookingID:        "64a0000000000000000000aa",
		TenantID:         "64a000000000000000000001",
		CustomerName:     "Jordan",
		CustomerEmail:    "jordan@example.com",
		BookingDate:      "2026-03-11",
		StartAt:          time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC),
		ConfirmationCode: "NG12345678",
		CancelReason:     "double booked",
	}
}

func TestHandleRendersPerEventType(t *testing.T) {
	log := logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"})

	tests := []struct {
		eventType string
		wantIn    string
	}{
		{contracts.EventBookingCreated, "NG12345678"},
		{contracts.EventBookingConfirmed, "confirmed"},
		{contracts.EventBookingRescheduled, "moved to 2026-03-11 at 10:00"},
		{contracts.EventBookingCancelled, "double booked"},
	}

	for _, tt := range tests {
		t.Run(tt.eventType, func(t *testing.T) {
			sender := &captureSender{}
			h := NewHandler(sender, log)

			if err := h.Handle(context.Background(), eventMessage(t, tt.eventType, testEvent())); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(sender.sent) != 1 {
				t.Fatalf("sent %d notifications, want 1", len(sender.sent))
			}
			n := sender.sent[0]
			if n.Recipient != "jordan@example.com" {
				t.Errorf("recipient = %s", n.Recipient)
			}
			if !strings.Contains(n.Body, tt.wantIn) {
				t.Errorf("body %q does not mention %q", n.Body, tt.wantIn)
			}
		})
	}
}

func TestHandleSkipsUnknownEventTypes(t *testing.T) {
	log := logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"})
	sender := &captureSender{}
	h := NewHandler(sender, log)

	err := h.Handle(context.Background(), eventMessage(t, "booking.exploded", testEvent()))
	if err != nil {
		t.Fatalf("unknown event type must commit cleanly, got %v", err)
	}
	if len(sender.sent) != 0 {
		t.Errorf("sent %d notifications, want 0", len(sender.sent))
	}
}

func TestHandleRejectsMalformedPayload(t *testing.T) {
	log := logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"})
	h := NewHandler(&captureSender{}, log)

	msg := kafka.Message{
		Value:   []byte("{not json"),
		Headers: map[string]string{kafka.HeaderEventType: contracts.EventBookingCreated},
	}
	if err := h.Handle(context.Background(), msg); err == nil {
		t.Error("expected decode error")
	}
}
