package repository

import (
	"context"
	"fmt"

	"rezzy/pkg/config"
	"rezzy/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const BusinessHoursCollectionName = "Business_hours"

type BusinessHoursRepository interface {
	// WeekByTenant returns a tenant's configured weekday rows, sorted
	// by weekday. Missing weekdays fall back to defaults upstream.
	WeekByTenant(ctx context.Context, tenantID string) ([]*model.BusinessHours, error)
}

type mongoBusinessHoursRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoBusinessHoursRepository(cfg *config.Config) BusinessHoursRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBusinessHoursRepository{
		cfg:        cfg,
		collection: db.Collection(BusinessHoursCollectionName),
	}
}

func (r *mongoBusinessHoursRepository) WeekByTenant(ctx context.Context, tenantID string) ([]*model.BusinessHours, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "day_of_week", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"tenant_id": tenantID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find business hours: %w", err)
	}
	defer cursor.Close(ctx)

	var week []*model.BusinessHours
	if err := cursor.All(ctx, &week); err != nil {
		return nil, fmt.Errorf("failed to decode business hours: %w", err)
	}

	return week, nil
}
