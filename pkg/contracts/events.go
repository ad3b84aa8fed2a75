package contracts

import (
	"rezzy/pkg/model"
	"time"
)

// Booking lifecycle event types, carried in the event-type header.
const (
	EventBookingCreated     = "booking.created"
	EventBookingConfirmed   = "booking.confirmed"
	EventBookingRescheduled = "booking.rescheduled"
	EventBookingCancelled   = "booking.cancelled"
)

// Topics shared between the booking API and the notifier.
const (
	BookingEventsTopic    = "rezzy.booking.events"
	BookingEventsDLQTopic = "rezzy.booking.events.dlq"
)

// BookingEvent is the wire payload for booking lifecycle events. It is a
// snapshot of the booking at publish time, so consumers never need to
// read the database.
type BookingEvent struct {
	BookingID        string    `json:"booking_id"`
	TenantID         string    `json:"tenant_id"`
	ServiceID        string    `json:"service_id"`
	StaffID          string    `json:"staff_id,omitempty"`
	CustomerName     string    `json:"customer_name"`
	CustomerEmail    string    `json:"customer_email"`
	CustomerPhone    string    `json:"customer_phone"`
	BookingDate      string    `json:"booking_date"`
	StartAt          time.Time `json:"start_at"`
	EndAt            time.Time `json:"end_at"`
	Status           string    `json:"status"`
	ConfirmationCode string    `json:"confirmation_code,omitempty"`
	CancelReason     string    `json:"cancel_reason,omitempty"`
}

// NewBookingEvent snapshots a booking into its event payload.
func NewBookingEvent(b *model.Booking) *BookingEvent {
	return &BookingEvent{
		BookingID:        b.ID,
		TenantID:         b.TenantID,
		ServiceID:        b.ServiceID,
		StaffID:          b.StaffID,
		CustomerName:     b.CustomerName,
		CustomerEmail:    b.CustomerEmail,
		CustomerPhone:    b.CustomerPhone,
		BookingDate:      b.Date,
		StartAt:          b.StartAt,
		EndAt:            b.EndAt,
		Status:           b.Status,
		ConfirmationCode: b.ConfirmationCode,
		CancelReason:     b.CancelReason,
	}
}
