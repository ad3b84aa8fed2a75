package model

import "time"

// Service defines how long a booking occupies a resource and how much
// dead time surrounds it for cleanup or preparation.
type Service struct {
	ID              string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	TenantID        string    `json:"tenant_id" bson:"tenant_id" validate:"required,mongodb"`
	Name            string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	DurationMin     int       `json:"duration_min" bson:"duration_min" validate:"required,min=5,max=480"`
	BufferBeforeMin int       `json:"buffer_before_min" bson:"buffer_before_min" validate:"min=0,max=120"`
	BufferAfterMin  int       `json:"buffer_after_min" bson:"buffer_after_min" validate:"min=0,max=120"`
	PriceCents      int       `json:"price_cents,omitempty" bson:"price_cents,omitempty" validate:"omitempty,min=0"`
	Active          bool      `json:"active" bson:"active"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// TotalDurationMin is the full span a booking of this service blocks on
// the calendar, buffers included.
func (s *Service) TotalDurationMin() int {
	return s.DurationMin + s.BufferBeforeMin + s.BufferAfterMin
}
