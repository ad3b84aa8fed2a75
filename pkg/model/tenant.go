package model

import "time"

// Tenant is a single business account. Services, business hours and
// bookings are all partitioned by tenant.
type Tenant struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name      string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Slug      string    `json:"slug" bson:"slug" validate:"required,min=2,max=63,lowercase"`
	TimeZone  string    `json:"time_zone,omitempty" bson:"time_zone,omitempty" validate:"omitempty,timezone"`
	Active    bool      `json:"active" bson:"active"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}
