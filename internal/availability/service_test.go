package availability

import (
	"context"
	"net/http"
	"testing"
	"time"

	"rezzy/pkg/config"
	apperrors "rezzy/pkg/errors"
	"rezzy/pkg/logger"
	"rezzy/pkg/model"
)

type stubCatalog struct {
	svc   *model.Service
	hours DayHours
}

func (s *stubCatalog) ResolveService(context.Context, string, string) (*model.Service, error) {
	return s.svc, nil
}

func (s *stubCatalog) DayHours(context.Context, string, time.Weekday) (DayHours, error) {
	return s.hours, nil
}

type stubBookings struct {
	rows []*model.Booking
	err  error
}

func (s *stubBookings) FindByTenantAndDate(context.Context, string, string, string) ([]*model.Booking, error) {
	return s.rows, s.err
}

const (
	testTenantID  = "64a000000000000000000001"
	testServiceID = "64a000000000000000000002"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		SlotIntervalMin:    15,
		BookingHorizonDays: 60,
		MinLeadTime:        30 * time.Minute,
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
	}
}

func newTestService(catalog CatalogReader, bookings BookingReader, cfg *config.Config, now time.Time) *availabilityService {
	return &availabilityService{
		catalog:  catalog,
		bookings: bookings,
		cfg:      cfg,
		now:      func() time.Time { return now },
	}
}

func TestGetAvailabilityValidation(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	catalog := &stubCatalog{
		svc:   &model.Service{DurationMin: 60, BufferAfterMin: 5},
		hours: DayHours{Open: true, OpenMin: 540, CloseMin: 1080},
	}
	svc := newTestService(catalog, &stubBookings{}, testConfig(t), now)

	tests := []struct {
		name       string
		tenantID   string
		serviceID  string
		date       string
		wantStatus int
	}{
		{"missing tenant", "", testServiceID, "2026-03-11", http.StatusBadRequest},
		{"missing service", testTenantID, "", "2026-03-11", http.StatusBadRequest},
		{"malformed date", testTenantID, testServiceID, "11/03/2026", http.StatusBadRequest},
		{"past date", testTenantID, testServiceID, "2026-03-09", http.StatusBadRequest},
		{"beyond horizon", testTenantID, testServiceID, "2026-06-10", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GetAvailability(context.Background(), tt.tenantID, tt.serviceID, tt.date, "")
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !apperrors.IsAppError(err) {
				t.Fatalf("expected AppError, got %T", err)
			}
			appErr := apperrors.AsAppError(err)
			if appErr.HTTPStatus != tt.wantStatus {
				t.Errorf("status = %d, want %d", appErr.HTTPStatus, tt.wantStatus)
			}
		})
	}
}

func TestGetAvailabilityClosedDay(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	catalog := &stubCatalog{
		svc:   &model.Service{DurationMin: 60},
		hours: DayHours{Open: false},
	}
	svc := newTestService(catalog, &stubBookings{}, testConfig(t), now)

	// 2026-03-14 is a Saturday.
	result, err := svc.GetAvailability(context.Background(), testTenantID, testServiceID, "2026-03-14", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TotalCount != 0 || len(result.Slots) != 0 {
		t.Errorf("expected no slots on closed day, got %d", len(result.Slots))
	}
	if result.Slots == nil {
		t.Error("slots must be an empty array, not null")
	}
}

func TestGetAvailabilityCountsConflicts(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	day := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)

	catalog := &stubCatalog{
		svc:   &model.Service{DurationMin: 60, BufferAfterMin: 5},
		hours: DayHours{Open: true, OpenMin: 540, CloseMin: 720}, // 09:00-12:00
	}
	bookings := &stubBookings{rows: []*model.Booking{
		{
			StartAt: At(day, 540), // 09:00-10:05 booked
			EndAt:   At(day, 605),
			Status:  model.StatusConfirmed,
		},
	}}
	svc := newTestService(catalog, bookings, testConfig(t), now)

	result, err := svc.GetAvailability(context.Background(), testTenantID, testServiceID, "2026-03-11", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Grid 09:00..10:45 fits a 65 minute block before noon: 8 slots.
	// Starts 09:00 through 10:00 collide with the existing booking.
	if result.TotalCount != 8 {
		t.Errorf("TotalCount = %d, want 8", result.TotalCount)
	}
	if result.AvailableCount != 3 {
		t.Errorf("AvailableCount = %d, want 3", result.AvailableCount)
	}
}

func TestGetAvailabilityTodayCutoff(t *testing.T) {
	// Asking for today at 10:00: with 30 minutes lead the first
	// candidate is 10:30.
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	catalog := &stubCatalog{
		svc:   &model.Service{DurationMin: 60, BufferAfterMin: 5},
		hours: DayHours{Open: true, OpenMin: 540, CloseMin: 720},
	}
	svc := newTestService(catalog, &stubBookings{}, testConfig(t), now)

	result, err := svc.GetAvailability(context.Background(), testTenantID, testServiceID, "2026-03-10", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TotalCount != 2 {
		t.Fatalf("TotalCount = %d, want 2", result.TotalCount)
	}
	if result.Slots[0].Time != "10:30" {
		t.Errorf("first slot = %s, want 10:30", result.Slots[0].Time)
	}
}
