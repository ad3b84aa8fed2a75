package service

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	bookingserrors "rezzy/internal/bookings/errors"
	"rezzy/internal/bookings/events"
	"rezzy/internal/bookings/validator"
	"rezzy/pkg/config"
	apperrors "rezzy/pkg/errors"
	"rezzy/pkg/logger"
	"rezzy/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"

	mongotx "rezzy/pkg/db/mongo"
)

const (
	testTenantID  = "64a000000000000000000001"
	testServiceID = "64a000000000000000000002"
	testBookingID = "64a0000000000000000000aa"
)

type mockBookingRepo struct {
	bookings    map[string]*model.Booking
	overlapping []*model.Booking
	created     *model.Booking
	updated     *model.Booking
}

func newMockBookingRepo() *mockBookingRepo {
	return &mockBookingRepo{bookings: map[string]*model.Booking{}}
}

func (m *mockBookingRepo) Create(_ context.Context, b *model.Booking) error {
	b.ID = testBookingID
	b.CreatedAt = time.Now().UTC()
	m.created = b
	m.bookings[b.ID] = b
	return nil
}

func (m *mockBookingRepo) FindByID(_ context.Context, id string) (*model.Booking, error) {
	if b, ok := m.bookings[id]; ok {
		clone := *b
		return &clone, nil
	}
	return nil, bookingsNotFound()
}

func (m *mockBookingRepo) Update(_ context.Context, id string, b *model.Booking) (*mongo.UpdateResult, error) {
	if _, ok := m.bookings[id]; !ok {
		return nil, bookingsNotFound()
	}
	clone := *b
	m.updated = &clone
	m.bookings[id] = &clone
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (m *mockBookingRepo) FindByFilter(context.Context, *model.BookingFilter, int, int64) ([]*model.Booking, error) {
	var out []*model.Booking
	for _, b := range m.bookings {
		out = append(out, b)
	}
	return out, nil
}

func (m *mockBookingRepo) CountByFilter(context.Context, *model.BookingFilter) (int64, error) {
	return int64(len(m.bookings)), nil
}

func (m *mockBookingRepo) FindByTenantAndDate(context.Context, string, string, string) ([]*model.Booking, error) {
	return nil, nil
}

func (m *mockBookingRepo) FindOverlapping(_ context.Context, _ string, _ string, _, _ time.Time, excludeID string) ([]*model.Booking, error) {
	var out []*model.Booking
	for _, b := range m.overlapping {
		if excludeID != "" && b.ID == excludeID {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (m *mockBookingRepo) ExecuteTransaction(_ context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockLockRepo struct {
	held     bool
	acquired []string
	released []string
}

func (m *mockLockRepo) Create(_ context.Context, lock *model.BookingLock) (*model.BookingLock, error) {
	if m.held {
		return nil, mongo.CommandError{Code: 11000, Message: "duplicate key"}
	}
	m.acquired = append(m.acquired, lock.ID)
	return lock, nil
}

func (m *mockLockRepo) Delete(_ context.Context, lockID string) error {
	m.released = append(m.released, lockID)
	return nil
}

type mockResolver struct {
	svc *model.Service
}

func (m *mockResolver) ResolveService(context.Context, string, string) (*model.Service, error) {
	return m.svc, nil
}

func bookingsNotFound() error {
	return bookingserrors.ErrNotFound
}

func testConfig() *config.Config {
	return &config.Config{
		BookingHorizonDays: 60,
		BookingLockTTL:     30 * time.Second,
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
	}
}

func newTestService(repo *mockBookingRepo, locks *mockLockRepo, now time.Time) *bookingService {
	cfg := testConfig()
	return &bookingService{
		repo:     repo,
		lockRepo: locks,
		catalog:  &mockResolver{svc: &model.Service{DurationMin: 60, BufferAfterMin: 5}},
		validator: validator.NewBookingValidator(logger.New(logger.Config{
			Level: "error", Format: logger.JSON, Service: "test",
		})),
		publisher: events.NewNoopPublisher(),
		cfg:       cfg,
		now:       func() time.Time { return now },
	}
}

func validRequest() *model.BookingRequest {
	return &model.BookingRequest{
		TenantID:      testTenantID,
		ServiceID:     testServiceID,
		CustomerName:  "Jordan Smith",
		CustomerEmail: "jordan@example.com",
		CustomerPhone: "+14155550123",
		BookingDate:   "2026-03-11",
		BookingTime:   "10:00",
	}
}

func wantStatus(t *testing.T, err error, status int) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !apperrors.IsAppError(err) {
		t.Fatalf("expected AppError, got %T: %v", err, err)
	}
	if got := apperrors.AsAppError(err).HTTPStatus; got != status {
		t.Errorf("status = %d, want %d (%v)", got, status, err)
	}
}

func TestCreateBooking(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	t.Run("success fills in derived fields", func(t *testing.T) {
		repo := newMockBookingRepo()
		locks := &mockLockRepo{}
		svc := newTestService(repo, locks, now)

		booking, err := svc.Create(context.Background(), validRequest())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if booking.Status != model.StatusPending {
			t.Errorf("status = %s, want pending", booking.Status)
		}
		if !strings.HasPrefix(booking.ConfirmationCode, "NG") || len(booking.ConfirmationCode) != 10 {
			t.Errorf("confirmation code = %q, want NG plus 8 digits", booking.ConfirmationCode)
		}
		wantEnd := booking.StartAt.Add(65 * time.Minute)
		if !booking.EndAt.Equal(wantEnd) {
			t.Errorf("end = %v, want %v", booking.EndAt, wantEnd)
		}
		if len(locks.acquired) != 1 || len(locks.released) != 1 {
			t.Errorf("lock acquired %d times, released %d times", len(locks.acquired), len(locks.released))
		}
		if repo.created == nil {
			t.Error("booking was never persisted")
		}
	})

	t.Run("overlapping booking yields conflict", func(t *testing.T) {
		repo := newMockBookingRepo()
		day := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
		repo.overlapping = []*model.Booking{{
			ID:      "64a0000000000000000000bb",
			StartAt: day.Add(10 * time.Hour),
			EndAt:   day.Add(11 * time.Hour),
			Status:  model.StatusConfirmed,
		}}
		svc := newTestService(repo, &mockLockRepo{}, now)

		_, err := svc.Create(context.Background(), validRequest())
		wantStatus(t, err, http.StatusConflict)
		if repo.created != nil {
			t.Error("conflicting booking must not be persisted")
		}
	})

	t.Run("contended slot lock yields conflict", func(t *testing.T) {
		svc := newTestService(newMockBookingRepo(), &mockLockRepo{held: true}, now)
		_, err := svc.Create(context.Background(), validRequest())
		wantStatus(t, err, http.StatusConflict)
	})

	t.Run("past start is rejected", func(t *testing.T) {
		svc := newTestService(newMockBookingRepo(), &mockLockRepo{}, now)
		req := validRequest()
		req.BookingDate = "2026-03-09"
		_, err := svc.Create(context.Background(), req)
		wantStatus(t, err, http.StatusBadRequest)
	})

	t.Run("start beyond the horizon is rejected", func(t *testing.T) {
		svc := newTestService(newMockBookingRepo(), &mockLockRepo{}, now)
		req := validRequest()
		req.BookingDate = "2026-06-15"
		_, err := svc.Create(context.Background(), req)
		wantStatus(t, err, http.StatusBadRequest)
	})

	t.Run("invalid payload is rejected", func(t *testing.T) {
		svc := newTestService(newMockBookingRepo(), &mockLockRepo{}, now)
		req := validRequest()
		req.CustomerEmail = "not-an-email"
		_, err := svc.Create(context.Background(), req)
		wantStatus(t, err, http.StatusUnprocessableEntity)
	})
}

func seedBooking(repo *mockBookingRepo, status string, startAt time.Time) *model.Booking {
	b := &model.Booking{
		ID:               testBookingID,
		TenantID:         testTenantID,
		ServiceID:        testServiceID,
		CustomerName:     "Jordan Smith",
		CustomerEmail:    "jordan@example.com",
		CustomerPhone:    "+14155550123",
		Date:             startAt.Format("2006-01-02"),
		StartAt:          startAt,
		EndAt:            startAt.Add(65 * time.Minute),
		Status:           status,
		ConfirmationCode: "NG12345678",
		CreatedAt:        startAt.Add(-24 * time.Hour),
	}
	repo.bookings[b.ID] = b
	return b
}

func TestConfirmBooking(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	future := time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC)

	t.Run("pending becomes confirmed with the right code", func(t *testing.T) {
		repo := newMockBookingRepo()
		seedBooking(repo, model.StatusPending, future)
		svc := newTestService(repo, &mockLockRepo{}, now)

		booking, err := svc.Confirm(context.Background(), testBookingID, "NG12345678")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if booking.Status != model.StatusConfirmed {
			t.Errorf("status = %s, want confirmed", booking.Status)
		}
	})

	t.Run("wrong code is rejected", func(t *testing.T) {
		repo := newMockBookingRepo()
		seedBooking(repo, model.StatusPending, future)
		svc := newTestService(repo, &mockLockRepo{}, now)

		_, err := svc.Confirm(context.Background(), testBookingID, "NG00000000")
		wantStatus(t, err, http.StatusBadRequest)
	})

	t.Run("empty code is rejected", func(t *testing.T) {
		repo := newMockBookingRepo()
		seedBooking(repo, model.StatusPending, future)
		svc := newTestService(repo, &mockLockRepo{}, now)

		_, err := svc.Confirm(context.Background(), testBookingID, "")
		wantStatus(t, err, http.StatusBadRequest)
	})

	t.Run("confirming twice is a no-op", func(t *testing.T) {
		repo := newMockBookingRepo()
		seedBooking(repo, model.StatusConfirmed, future)
		svc := newTestService(repo, &mockLockRepo{}, now)

		booking, err := svc.Confirm(context.Background(), testBookingID, "NG12345678")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if booking.Status != model.StatusConfirmed {
			t.Errorf("status = %s, want confirmed", booking.Status)
		}
		if repo.updated != nil {
			t.Error("no write expected for an already confirmed booking")
		}
	})

	t.Run("cancelled booking cannot be confirmed", func(t *testing.T) {
		repo := newMockBookingRepo()
		seedBooking(repo, model.StatusCancelled, future)
		svc := newTestService(repo, &mockLockRepo{}, now)

		_, err := svc.Confirm(context.Background(), testBookingID, "NG12345678")
		wantStatus(t, err, http.StatusBadRequest)
	})

	t.Run("started booking cannot be confirmed", func(t *testing.T) {
		repo := newMockBookingRepo()
		seedBooking(repo, model.StatusPending, now.Add(-time.Hour))
		svc := newTestService(repo, &mockLockRepo{}, now)

		_, err := svc.Confirm(context.Background(), testBookingID, "NG12345678")
		wantStatus(t, err, http.StatusBadRequest)
	})

	t.Run("unknown booking yields not found", func(t *testing.T) {
		svc := newTestService(newMockBookingRepo(), &mockLockRepo{}, now)
		_, err := svc.Confirm(context.Background(), "64a0000000000000000000ff", "NG12345678")
		if err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

func TestRescheduleBooking(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	future := time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC)

	update := &model.BookingReschedule{
		BookingDate: "2026-03-12",
		BookingTime: "14:00",
	}

	t.Run("moves the booking and recomputes the end", func(t *testing.T) {
		repo := newMockBookingRepo()
		seedBooking(repo, model.StatusConfirmed, future)
		svc := newTestService(repo, &mockLockRepo{}, now)

		booking, err := svc.Reschedule(context.Background(), testBookingID, update)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		wantStart := time.Date(2026, 3, 12, 14, 0, 0, 0, time.UTC)
		if !booking.StartAt.Equal(wantStart) {
			t.Errorf("start = %v, want %v", booking.StartAt, wantStart)
		}
		if !booking.EndAt.Equal(wantStart.Add(65 * time.Minute)) {
			t.Errorf("end = %v, want %v", booking.EndAt, wantStart.Add(65*time.Minute))
		}
		if booking.Date != "2026-03-12" {
			t.Errorf("date = %s, want 2026-03-12", booking.Date)
		}
	})

	t.Run("own row does not count as a conflict", func(t *testing.T) {
		repo := newMockBookingRepo()
		seeded := seedBooking(repo, model.StatusConfirmed, future)
		repo.overlapping = []*model.Booking{seeded}
		svc := newTestService(repo, &mockLockRepo{}, now)

		if _, err := svc.Reschedule(context.Background(), testBookingID, update); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("another booking in the target slot is a conflict", func(t *testing.T) {
		repo := newMockBookingRepo()
		seedBooking(repo, model.StatusConfirmed, future)
		repo.overlapping = []*model.Booking{{
			ID:      "64a0000000000000000000bb",
			StartAt: time.Date(2026, 3, 12, 14, 0, 0, 0, time.UTC),
			EndAt:   time.Date(2026, 3, 12, 15, 5, 0, 0, time.UTC),
			Status:  model.StatusPending,
		}}
		svc := newTestService(repo, &mockLockRepo{}, now)

		_, err := svc.Reschedule(context.Background(), testBookingID, update)
		wantStatus(t, err, http.StatusConflict)
	})

	t.Run("cancelled booking cannot be rescheduled", func(t *testing.T) {
		repo := newMockBookingRepo()
		seedBooking(repo, model.StatusCancelled, future)
		svc := newTestService(repo, &mockLockRepo{}, now)

		_, err := svc.Reschedule(context.Background(), testBookingID, update)
		wantStatus(t, err, http.StatusBadRequest)
	})
}

func TestCancelBooking(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	future := time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC)

	t.Run("soft-deletes with reason and timestamp", func(t *testing.T) {
		repo := newMockBookingRepo()
		seedBooking(repo, model.StatusConfirmed, future)
		svc := newTestService(repo, &mockLockRepo{}, now)

		if err := svc.Cancel(context.Background(), testBookingID, "customer asked"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got := repo.bookings[testBookingID]
		if got.Status != model.StatusCancelled {
			t.Errorf("status = %s, want cancelled", got.Status)
		}
		if got.CancelReason != "customer asked" {
			t.Errorf("reason = %q, want %q", got.CancelReason, "customer asked")
		}
		if got.CancelledAt == nil {
			t.Error("cancelled_at not set")
		}
	})

	t.Run("cancelling twice is rejected", func(t *testing.T) {
		repo := newMockBookingRepo()
		seedBooking(repo, model.StatusCancelled, future)
		svc := newTestService(repo, &mockLockRepo{}, now)

		err := svc.Cancel(context.Background(), testBookingID, "")
		wantStatus(t, err, http.StatusBadRequest)
	})

	t.Run("started booking cannot be cancelled", func(t *testing.T) {
		repo := newMockBookingRepo()
		seedBooking(repo, model.StatusConfirmed, now.Add(-time.Hour))
		svc := newTestService(repo, &mockLockRepo{}, now)

		err := svc.Cancel(context.Background(), testBookingID, "")
		wantStatus(t, err, http.StatusBadRequest)
	})
}
