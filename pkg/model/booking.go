package model

import (
	"time"
)

// Booking statuses. Cancelled bookings never count toward slot
// conflicts; everything else occupies its interval.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
	StatusNoShow    = "no_show"
)

// Booking is a reserved [StartAt, EndAt) interval for a tenant and,
// optionally, a specific staff member. StartAt/EndAt in UTC are the
// authoritative times; Date is denormalized for day-range queries.
type Booking struct {
	ID               string     `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	TenantID         string     `json:"tenant_id" bson:"tenant_id" validate:"required,mongodb"`
	ServiceID        string     `json:"service_id" bson:"service_id" validate:"required,mongodb"`
	StaffID          string     `json:"staff_id,omitempty" bson:"staff_id,omitempty" validate:"omitempty,mongodb"`
	CustomerName     string     `json:"customer_name" bson:"customer_name" validate:"required,min=2,max=100"`
	CustomerEmail    string     `json:"customer_email" bson:"customer_email" validate:"required,email"`
	CustomerPhone    string     `json:"customer_phone" bson:"customer_phone" validate:"required,e164"`
	Date             string     `json:"booking_date" bson:"booking_date" validate:"required,datetime=2006-01-02"`
	StartAt          time.Time  `json:"start_at" bson:"start_at" validate:"required"`
	EndAt            time.Time  `json:"end_at" bson:"end_at" validate:"required,gtfield=StartAt"`
	Status           string     `json:"status" bson:"status" validate:"required,oneof=pending confirmed cancelled completed no_show"`
	ConfirmationCode string     `json:"confirmation_code,omitempty" bson:"confirmation_code,omitempty"`
	Notes            string     `json:"notes,omitempty" bson:"notes,omitempty" validate:"omitempty,max=500"`
	CancelReason     string     `json:"cancel_reason,omitempty" bson:"cancel_reason,omitempty" validate:"omitempty,max=500"`
	CancelledAt      *time.Time `json:"cancelled_at,omitempty" bson:"cancelled_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// Occupies reports whether the booking blocks its time interval.
func (b *Booking) Occupies() bool {
	return b.Status != StatusCancelled
}

// BookingRequest is the wire shape of a create call: the UI sends a
// calendar date and a clock time; the service computes the end from the
// service definition.
type BookingRequest struct {
	TenantID      string `json:"tenant_id" validate:"required,mongodb"`
	ServiceID     string `json:"service_id" validate:"required,mongodb"`
	StaffID       string `json:"staff_id,omitempty" validate:"omitempty,mongodb"`
	CustomerName  string `json:"customer_name" validate:"required,min=2,max=100"`
	CustomerEmail string `json:"customer_email" validate:"required,email"`
	CustomerPhone string `json:"customer_phone" validate:"required,e164"`
	BookingDate   string `json:"booking_date" validate:"required,datetime=2006-01-02"`
	BookingTime   string `json:"booking_time" validate:"required,datetime=15:04"`
	Notes         string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// BookingReschedule moves a booking to a new date/time. End time is
// recomputed from the service duration, never supplied by the caller.
type BookingReschedule struct {
	BookingDate string `json:"booking_date" validate:"required,datetime=2006-01-02"`
	BookingTime string `json:"booking_time" validate:"required,datetime=15:04"`
	StaffID     string `json:"staff_id,omitempty" validate:"omitempty,mongodb"`
	Notes       string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// BookingCancel carries the soft-delete reason.
type BookingCancel struct {
	Reason string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// BookingConfirm carries the customer-supplied confirmation code.
type BookingConfirm struct {
	ConfirmationCode string `json:"confirmation_code,omitempty"`
}

// BookingFilter narrows list queries.
type BookingFilter struct {
	TenantID      string
	StaffID       string
	Status        string
	DateFrom      string
	DateTo        string
	CustomerEmail string
}
