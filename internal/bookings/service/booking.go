package service

import (
	"context"
	"errors"
	"fmt"
	"rezzy/internal/availability"
	bookingserrors "rezzy/internal/bookings/errors"
	"rezzy/internal/bookings/events"
	"rezzy/internal/bookings/repository"
	"rezzy/internal/bookings/validator"
	"rezzy/pkg/config"
	"rezzy/pkg/contracts"
	apperrors "rezzy/pkg/errors"
	"rezzy/pkg/model"
	"rezzy/pkg/sanitizer"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// ServiceResolver supplies the authoritative duration and buffers for a
// booking. Satisfied by the catalog service.
type ServiceResolver interface {
	ResolveService(ctx context.Context, tenantID, serviceID string) (*model.Service, error)
}

type BookingService interface {
	Create(ctx context.Context, req *model.BookingRequest) (*model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	List(ctx context.Context, filter *model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error)
	Confirm(ctx context.Context, id string, code string) (*model.Booking, error)
	Reschedule(ctx context.Context, id string, update *model.BookingReschedule) (*model.Booking, error)
	Cancel(ctx context.Context, id string, reason string) error
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.BookingLockRepository
	catalog   ServiceResolver
	validator *validator.BookingValidator
	publisher events.Publisher
	cfg       *config.Config
	now       func() time.Time
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.BookingLockRepository,
	catalog ServiceResolver,
	validator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		catalog:   catalog,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *bookingService) Create(ctx context.Context, req *model.BookingRequest) (*model.Booking, error) {
	s.sanitizeRequest(req)
	if err := s.validator.ValidateRequest(req); err != nil {
		s.cfg.Log.Warn("Booking request validation failed", "error", err)
		return nil, apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	startAt, err := s.resolveStart(req.BookingDate, req.BookingTime)
	if err != nil {
		return nil, err
	}

	svc, err := s.catalog.ResolveService(ctx, req.TenantID, req.ServiceID)
	if err != nil {
		return nil, apperrors.Internal("Failed to resolve service", err)
	}

	booking := &model.Booking{
		TenantID:         req.TenantID,
		ServiceID:        req.ServiceID,
		StaffID:          req.StaffID,
		CustomerName:     req.CustomerName,
		CustomerEmail:    req.CustomerEmail,
		CustomerPhone:    req.CustomerPhone,
		Date:             req.BookingDate,
		StartAt:          startAt,
		EndAt:            startAt.Add(time.Duration(svc.TotalDurationMin()) * time.Minute),
		Status:           model.StatusPending,
		ConfirmationCode: generateConfirmationCode(s.now()),
		Notes:            req.Notes,
	}

	if err := s.validate(booking); err != nil {
		return nil, err
	}

	// Advisory lock narrows the race window; the overlap check inside the
	// transaction plus the partial unique index close it.
	lockID, err := s.acquireSlotLock(ctx, booking.TenantID, booking.StaffID, booking.StartAt)
	if err != nil {
		return nil, err
	}
	defer func() {
		if releaseErr := s.releaseSlotLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release booking lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyNoOverlap(sessCtx, booking, ""); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			if errors.Is(err, bookingserrors.ErrTimeConflict) {
				return apperrors.Conflict("This time slot is no longer available")
			}
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking", "error", err)
		return nil, err
	}

	s.publisher.PublishBookingEvent(ctx, contracts.EventBookingCreated, booking)

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"tenant_id", booking.TenantID,
		"service_id", booking.ServiceID,
		"start_at", booking.StartAt,
	)
	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateLookupErr(err, id)
	}

	return booking, nil
}

func (s *bookingService) List(ctx context.Context, filter *model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error) {
	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByFilter(ctx, filter)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindByFilter(ctx, filter, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

func (s *bookingService) Confirm(ctx context.Context, id string, code string) (*model.Booking, error) {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch booking.Status {
	case model.StatusConfirmed:
		// Confirming twice is a no-op, not an error.
		return booking, nil
	case model.StatusCancelled:
		return nil, apperrors.InvalidInput("Cannot confirm a cancelled booking")
	case model.StatusCompleted, model.StatusNoShow:
		return nil, apperrors.InvalidInput("Cannot confirm a past booking")
	}

	if booking.StartAt.Before(s.now()) {
		return nil, apperrors.InvalidInput("Cannot confirm a booking that has already started")
	}

	if code == "" || code != booking.ConfirmationCode {
		return nil, apperrors.InvalidInput("Invalid confirmation code")
	}

	booking.Status = model.StatusConfirmed
	if _, err := s.repo.Update(ctx, id, booking); err != nil {
		s.cfg.Log.Error("Failed to confirm booking", "id", id, "error", err)
		return nil, s.translateLookupErr(err, id)
	}

	s.publisher.PublishBookingEvent(ctx, contracts.EventBookingConfirmed, booking)

	s.cfg.Log.Info("Booking confirmed successfully", "id", id)
	return booking, nil
}

func (s *bookingService) Reschedule(ctx context.Context, id string, update *model.BookingReschedule) (*model.Booking, error) {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch booking.Status {
	case model.StatusCancelled:
		return nil, apperrors.InvalidInput("Cannot reschedule a cancelled booking")
	case model.StatusCompleted, model.StatusNoShow:
		return nil, apperrors.InvalidInput("Cannot reschedule a past booking")
	}

	update.Notes = sanitizer.SanitizeFreeText(update.Notes)
	if err := s.validator.ValidateReschedule(update); err != nil {
		s.cfg.Log.Warn("Booking reschedule validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid reschedule input", map[string]any{"error": err.Error()})
	}

	startAt, err := s.resolveStart(update.BookingDate, update.BookingTime)
	if err != nil {
		return nil, err
	}

	svc, err := s.catalog.ResolveService(ctx, booking.TenantID, booking.ServiceID)
	if err != nil {
		return nil, apperrors.Internal("Failed to resolve service", err)
	}

	booking.Date = update.BookingDate
	booking.StartAt = startAt
	booking.EndAt = startAt.Add(time.Duration(svc.TotalDurationMin()) * time.Minute)
	if update.StaffID != "" {
		booking.StaffID = update.StaffID
	}
	if update.Notes != "" {
		booking.Notes = update.Notes
	}

	lockID, err := s.acquireSlotLock(ctx, booking.TenantID, booking.StaffID, booking.StartAt)
	if err != nil {
		return nil, err
	}
	defer func() {
		if releaseErr := s.releaseSlotLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release booking lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyNoOverlap(sessCtx, booking, id); err != nil {
			return err
		}
		if _, err := s.repo.Update(sessCtx, id, booking); err != nil {
			if errors.Is(err, bookingserrors.ErrTimeConflict) {
				return apperrors.Conflict("This time slot is no longer available")
			}
			return apperrors.Internal("Failed to reschedule booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to reschedule booking", "id", id, "error", err)
		return nil, err
	}

	s.publisher.PublishBookingEvent(ctx, contracts.EventBookingRescheduled, booking)

	s.cfg.Log.Info("Booking rescheduled successfully",
		"id", id,
		"start_at", booking.StartAt,
	)
	return booking, nil
}

func (s *bookingService) Cancel(ctx context.Context, id string, reason string) error {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if booking.Status == model.StatusCancelled {
		return apperrors.InvalidInput("Booking is already cancelled")
	}
	if booking.StartAt.Before(s.now()) {
		return apperrors.InvalidInput("Cannot cancel a booking that has already started")
	}

	now := s.now()
	booking.Status = model.StatusCancelled
	booking.CancelReason = sanitizer.SanitizeFreeText(reason)
	booking.CancelledAt = &now

	if _, err := s.repo.Update(ctx, id, booking); err != nil {
		s.cfg.Log.Error("Failed to cancel booking", "id", id, "error", err)
		return s.translateLookupErr(err, id)
	}

	s.publisher.PublishBookingEvent(ctx, contracts.EventBookingCancelled, booking)

	s.cfg.Log.Info("Booking cancelled successfully", "id", id, "reason", booking.CancelReason)
	return nil
}

// --- Helpers ---

func (s *bookingService) sanitizeRequest(req *model.BookingRequest) {
	req.CustomerName = sanitizer.SanitizeName(req.CustomerName)
	req.CustomerEmail = sanitizer.SanitizeEmail(req.CustomerEmail)
	req.CustomerPhone = sanitizer.SanitizePhone(req.CustomerPhone)
	req.Notes = sanitizer.SanitizeFreeText(req.Notes)
}

// resolveStart combines the wire date and clock time into the stored UTC
// instant, rejecting malformed input and past or too-distant starts.
func (s *bookingService) resolveStart(date string, clock string) (time.Time, error) {
	day, err := availability.ParseDate(date)
	if err != nil {
		return time.Time{}, apperrors.InvalidInput("Invalid booking_date format. Use YYYY-MM-DD")
	}
	minutes, err := availability.ParseClock(clock)
	if err != nil {
		return time.Time{}, apperrors.InvalidInput("Invalid booking_time format. Use HH:MM")
	}

	startAt := availability.At(day, minutes)
	now := s.now()

	if startAt.Before(now) {
		return time.Time{}, apperrors.InvalidInput("Cannot book a time in the past")
	}
	horizon := now.AddDate(0, 0, s.cfg.BookingHorizonDays)
	if startAt.After(horizon) {
		return time.Time{}, apperrors.InvalidInput(fmt.Sprintf(
			"Bookings can be made at most %d days in advance", s.cfg.BookingHorizonDays))
	}

	return startAt, nil
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

func (s *bookingService) translateLookupErr(err error, id string) error {
	if errors.Is(err, bookingserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Booking", id)
	}
	if errors.Is(err, bookingserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid booking ID format")
	}
	if apperrors.IsAppError(err) {
		return err
	}
	return apperrors.Internal("Failed to retrieve booking", err)
}

func (s *bookingService) verifyNoOverlap(ctx context.Context, booking *model.Booking, excludeID string) error {
	existing, err := s.repo.FindOverlapping(ctx, booking.TenantID, booking.StaffID, booking.StartAt, booking.EndAt, excludeID)
	if err != nil {
		return apperrors.Internal("Failed to check existing bookings", err)
	}

	for _, b := range existing {
		if !b.Occupies() {
			continue
		}
		return apperrors.Conflict(fmt.Sprintf(
			"Booking time overlaps with existing booking (%s - %s)",
			b.StartAt.Format(time.RFC3339),
			b.EndAt.Format(time.RFC3339),
		))
	}
	return nil
}

// generateConfirmationCode derives a short human-readable code from the
// creation instant: "NG" plus the last eight digits of the epoch millis.
func generateConfirmationCode(now time.Time) string {
	return fmt.Sprintf("NG%08d", now.UnixMilli()%100_000_000)
}

// acquireSlotLock creates an advisory lock keyed on the slot coordinates.
// Returns the lock ID, or a conflict error if another request holds it.
func (s *bookingService) acquireSlotLock(ctx context.Context, tenantID, staffID string, startAt time.Time) (string, error) {
	lockID := fmt.Sprintf("booking_lock_%s_%s_%d", tenantID, staffID, startAt.Unix())

	lock := &model.BookingLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(s.cfg.BookingLockTTL),
	}

	_, err := s.lockRepo.Create(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("This time slot is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire booking lock", err)
	}

	return lockID, nil
}

func (s *bookingService) releaseSlotLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}
