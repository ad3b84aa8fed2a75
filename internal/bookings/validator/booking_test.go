package validator

import (
	"testing"
	"time"

	"rezzy/pkg/logger"
	"rezzy/pkg/model"
)

func testValidator() *BookingValidator {
	return NewBookingValidator(logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	}))
}

func baseRequest() model.BookingRequest {
	return model.BookingRequest{
		TenantID:      "64a000000000000000000001",
		ServiceID:     "64a000000000000000000002",
		CustomerName:  "Jordan Smith",
		CustomerEmail: "jordan@example.com",
		CustomerPhone: "+14155550123",
		BookingDate:   "2026-03-11",
		BookingTime:   "10:00",
	}
}

func TestValidateRequest(t *testing.T) {
	v := testValidator()

	tests := []struct {
		name      string
		mutate    func(*model.BookingRequest)
		wantError bool
	}{
		{
			name:      "valid request",
			mutate:    func(*model.BookingRequest) {},
			wantError: false,
		},
		{
			name:      "optional staff accepted",
			mutate:    func(r *model.BookingRequest) { r.StaffID = "64a000000000000000000003" },
			wantError: false,
		},
		{
			name:      "missing tenant",
			mutate:    func(r *model.BookingRequest) { r.TenantID = "" },
			wantError: true,
		},
		{
			name:      "tenant not an object id",
			mutate:    func(r *model.BookingRequest) { r.TenantID = "not-hex" },
			wantError: true,
		},
		{
			name:      "single character name",
			mutate:    func(r *model.BookingRequest) { r.CustomerName = "J" },
			wantError: true,
		},
		{
			name:      "malformed email",
			mutate:    func(r *model.BookingRequest) { r.CustomerEmail = "jordan@@example" },
			wantError: true,
		},
		{
			name:      "phone without country code",
			mutate:    func(r *model.BookingRequest) { r.CustomerPhone = "4155550123" },
			wantError: true,
		},
		{
			name:      "date in wrong format",
			mutate:    func(r *model.BookingRequest) { r.BookingDate = "11/03/2026" },
			wantError: true,
		},
		{
			name:      "time with seconds",
			mutate:    func(r *model.BookingRequest) { r.BookingTime = "10:00:00" },
			wantError: true,
		},
		{
			name: "notes over the cap",
			mutate: func(r *model.BookingRequest) {
				for len(r.Notes) <= 500 {
					r.Notes += "aaaaaaaaaa"
				}
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := baseRequest()
			tt.mutate(&req)
			err := v.ValidateRequest(&req)
			if (err != nil) != tt.wantError {
				t.Errorf("ValidateRequest() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestValidateBookingInterval(t *testing.T) {
	v := testValidator()
	start := time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC)

	booking := &model.Booking{
		TenantID:      "64a000000000000000000001",
		ServiceID:     "64a000000000000000000002",
		CustomerName:  "Jordan Smith",
		CustomerEmail: "jordan@example.com",
		CustomerPhone: "+14155550123",
		Date:          "2026-03-11",
		StartAt:       start,
		EndAt:         start.Add(65 * time.Minute),
		Status:        model.StatusPending,
	}
	if err := v.Validate(booking); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	booking.EndAt = start
	if err := v.Validate(booking); err == nil {
		t.Error("expected error for zero-length interval")
	}

	booking.EndAt = start.Add(65 * time.Minute)
	booking.Status = "tentative"
	if err := v.Validate(booking); err == nil {
		t.Error("expected error for unknown status")
	}
}
