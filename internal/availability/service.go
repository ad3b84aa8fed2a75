package availability

import (
	"context"
	"fmt"
	"time"

	"rezzy/pkg/config"
	apperrors "rezzy/pkg/errors"
	"rezzy/pkg/model"
)

// CatalogReader is the slice of the catalog the engine needs.
type CatalogReader interface {
	ResolveService(ctx context.Context, tenantID, serviceID string) (*model.Service, error)
	DayHours(ctx context.Context, tenantID string, weekday time.Weekday) (DayHours, error)
}

// BookingReader fetches the day's reservations for conflict flagging.
type BookingReader interface {
	FindByTenantAndDate(ctx context.Context, tenantID, date, staffID string) ([]*model.Booking, error)
}

type Service interface {
	GetAvailability(ctx context.Context, tenantID, serviceID, date, staffID string) (*model.Availability, error)
}

type availabilityService struct {
	catalog  CatalogReader
	bookings BookingReader
	cfg      *config.Config
	now      func() time.Time
}

func NewService(catalog CatalogReader, bookings BookingReader, cfg *config.Config) Service {
	return &availabilityService{
		catalog:  catalog,
		bookings: bookings,
		cfg:      cfg,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// GetAvailability computes the bookable slots for one tenant/service/
// date. Pure read: nothing is reserved by asking.
func (s *availabilityService) GetAvailability(ctx context.Context, tenantID, serviceID, date, staffID string) (*model.Availability, error) {
	if tenantID == "" || serviceID == "" {
		return nil, apperrors.InvalidInput("tenant_id and service_id are required")
	}

	day, err := ParseDate(date)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid date, must be YYYY-MM-DD")
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if day.Before(today) {
		return nil, apperrors.InvalidInput("date cannot be in the past")
	}
	horizon := today.AddDate(0, 0, s.cfg.BookingHorizonDays)
	if day.After(horizon) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("date cannot be more than %d days in the future", s.cfg.BookingHorizonDays))
	}

	hours, err := s.catalog.DayHours(ctx, tenantID, day.Weekday())
	if err != nil {
		return nil, err
	}

	result := &model.Availability{
		TenantID:  tenantID,
		ServiceID: serviceID,
		Date:      date,
		Slots:     []model.TimeSlot{},
	}

	if !hours.Open {
		return result, nil
	}

	svc, err := s.catalog.ResolveService(ctx, tenantID, serviceID)
	if err != nil {
		return nil, err
	}

	existing, err := s.bookings.FindByTenantAndDate(ctx, tenantID, date, staffID)
	if err != nil {
		s.cfg.Log.Error("Failed to load bookings for availability",
			"tenant_id", tenantID,
			"date", date,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to load existing bookings", err)
	}

	cutoff := 0
	if day.Equal(today) {
		cutoff = SameDayCutoff(now, s.cfg.MinLeadTime, s.cfg.SlotIntervalMin)
	}

	slots := GenerateSlots(hours, svc.TotalDurationMin(), s.cfg.SlotIntervalMin, cutoff, BusyIntervals(existing, staffID))
	if slots != nil {
		result.Slots = slots
	}
	for _, slot := range result.Slots {
		if slot.Available {
			result.AvailableCount++
		}
	}
	result.TotalCount = len(result.Slots)

	s.cfg.Log.Debug("Availability computed",
		"tenant_id", tenantID,
		"service_id", serviceID,
		"date", date,
		"total", result.TotalCount,
		"available", result.AvailableCount,
	)
	return result, nil
}
