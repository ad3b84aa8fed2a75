package repository

import (
	"context"
	"errors"
	"fmt"
	bookingserrors "rezzy/internal/bookings/errors"
	"rezzy/pkg/config"
	mongotx "rezzy/pkg/db/mongo"
	"rezzy/pkg/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Bookings"
)

type mongoBookingRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	Update(ctx context.Context, id string, booking *model.Booking) (*mongo.UpdateResult, error)
	FindByFilter(ctx context.Context, filter *model.BookingFilter, limit int, offset int64) ([]*model.Booking, error)
	CountByFilter(ctx context.Context, filter *model.BookingFilter) (int64, error)
	FindByTenantAndDate(ctx context.Context, tenantID string, date string, staffID string) ([]*model.Booking, error)
	FindOverlapping(ctx context.Context, tenantID string, staffID string, start, end time.Time, excludeID string) ([]*model.Booking, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout unless already inside a
// transaction. SessionContext cannot be wrapped without breaking
// transaction semantics, so it is returned unchanged with a no-op cancel.
func (r *mongoBookingRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	booking.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %v", bookingserrors.ErrTimeConflict, err)
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID}

	var booking model.Booking
	err = r.collection.FindOne(ctx, filter).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return &booking, nil
}

func (r *mongoBookingRepository) Update(ctx context.Context, id string, booking *model.Booking) (*mongo.UpdateResult, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID}

	result, err := r.collection.UpdateOne(ctx, filter, buildUpdate(booking))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: %v", bookingserrors.ErrTimeConflict, err)
		}
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}

	if result.MatchedCount == 0 {
		return nil, bookingserrors.ErrNotFound
	}

	return result, nil
}

func (r *mongoBookingRepository) FindByFilter(ctx context.Context, filter *model.BookingFilter, limit int, offset int64) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "start_at", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, buildListFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

func (r *mongoBookingRepository) CountByFilter(ctx context.Context, filter *model.BookingFilter) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, buildListFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

// FindByTenantAndDate returns every occupying booking on a calendar day,
// feeding the slot engine. Cancelled rows are excluded at the query level.
func (r *mongoBookingRepository) FindByTenantAndDate(ctx context.Context, tenantID string, date string, staffID string) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := buildDayFilter(tenantID, date, staffID)

	opts := options.Find().SetSort(bson.D{{Key: "start_at", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings for date: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

// FindOverlapping returns non-cancelled bookings whose [start_at, end_at)
// interval intersects [start, end). Called inside the booking transaction,
// so the session context passes through withTimeout untouched.
func (r *mongoBookingRepository) FindOverlapping(ctx context.Context, tenantID string, staffID string, start, end time.Time, excludeID string) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"tenant_id": tenantID,
		"status":    bson.M{"$ne": model.StatusCancelled},
		"start_at":  bson.M{"$lt": end},
		"end_at":    bson.M{"$gt": start},
	}
	applyStaffFilter(filter, staffID)
	if excludeID != "" {
		objectID, err := primitive.ObjectIDFromHex(excludeID)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, excludeID)
		}
		filter["_id"] = bson.M{"$ne": objectID}
	}

	opts := options.Find().SetLimit(int64(r.cfg.MaxOverlapCheckedRows))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find overlapping bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode overlapping bookings: %w", err)
	}

	return bookings, nil
}

func (r *mongoBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}

// applyStaffFilter narrows a query to one staff member. A booking with no
// assigned staff occupies the slot for everyone, so unassigned rows (field
// missing, or empty in rows written before staff_id was unset on update)
// are always included.
func applyStaffFilter(filter bson.M, staffID string) {
	if staffID == "" {
		return
	}
	filter["$or"] = []bson.M{
		{"staff_id": staffID},
		{"staff_id": bson.M{"$exists": false}},
		{"staff_id": ""},
	}
}

func buildDayFilter(tenantID, date, staffID string) bson.M {
	filter := bson.M{
		"tenant_id":    tenantID,
		"booking_date": date,
		"status":       bson.M{"$ne": model.StatusCancelled},
	}
	applyStaffFilter(filter, staffID)
	return filter
}

// buildUpdate writes the mutable booking fields. staff_id is unset rather
// than set to "" when unassigned, so the stored shape matches what Create
// produces through the omitempty tag and the unique index sees one value.
func buildUpdate(booking *model.Booking) bson.M {
	set := bson.M{
		"booking_date":  booking.Date,
		"start_at":      booking.StartAt,
		"end_at":        booking.EndAt,
		"status":        booking.Status,
		"notes":         booking.Notes,
		"cancel_reason": booking.CancelReason,
		"cancelled_at":  booking.CancelledAt,
	}
	update := bson.M{"$set": set}
	if booking.StaffID != "" {
		set["staff_id"] = booking.StaffID
	} else {
		update["$unset"] = bson.M{"staff_id": ""}
	}
	return update
}

func buildListFilter(f *model.BookingFilter) bson.M {
	filter := bson.M{}
	if f == nil {
		return filter
	}

	if f.TenantID != "" {
		filter["tenant_id"] = f.TenantID
	}
	if f.StaffID != "" {
		filter["staff_id"] = f.StaffID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.CustomerEmail != "" {
		filter["customer_email"] = f.CustomerEmail
	}

	dateRange := bson.M{}
	if f.DateFrom != "" {
		dateRange["$gte"] = f.DateFrom
	}
	if f.DateTo != "" {
		dateRange["$lte"] = f.DateTo
	}
	if len(dateRange) > 0 {
		filter["booking_date"] = dateRange
	}

	return filter
}
