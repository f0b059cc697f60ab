package repositories

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"homeinsight-propcache/internal/models"
	"homeinsight-propcache/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type propertyStore struct {
	collection *mongo.Collection
}

func NewPropertyStore(db *mongo.Database) PropertyStore {
	return &propertyStore{
		collection: db.Collection("properties"),
	}
}

func (r *propertyStore) FindAllByNewest(ctx context.Context) ([]models.Property, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.find(ctx, "find_all_by_newest", bson.M{}, findOptions)
}

func (r *propertyStore) FindByLocation(ctx context.Context, location string) ([]models.Property, error) {
	filter := bson.M{
		"location": bson.M{"$regex": regexp.QuoteMeta(location), "$options": "i"},
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.find(ctx, "find_by_location", filter, findOptions)
}

func (r *propertyStore) FindByPriceRange(ctx context.Context, min, max float64) ([]models.Property, error) {
	filter := bson.M{
		"price": bson.M{"$gte": min, "$lte": max},
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "price", Value: 1}})
	return r.find(ctx, "find_by_price_range", filter, findOptions)
}

func (r *propertyStore) FindAll(ctx context.Context) ([]models.Property, error) {
	return r.find(ctx, "find_all", bson.M{}, options.Find())
}

func (r *propertyStore) Create(ctx context.Context, property *models.Property) error {
	if property.CreatedAt.IsZero() {
		property.CreatedAt = time.Now().UTC()
	}
	start := time.Now()
	_, err := r.collection.InsertOne(ctx, property)
	metrics.MongoOperationDuration.WithLabelValues("insert_one", "properties").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.MongoErrorsTotal.WithLabelValues("insert_one", "properties").Inc()
		return fmt.Errorf("failed to insert property: %v", err)
	}
	return nil
}

func (r *propertyStore) find(ctx context.Context, operation string, filter bson.M, findOptions *options.FindOptions) ([]models.Property, error) {
	start := time.Now()
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	metrics.MongoOperationDuration.WithLabelValues(operation, "properties").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.MongoErrorsTotal.WithLabelValues(operation, "properties").Inc()
		return nil, err
	}
	defer cursor.Close(ctx)

	var properties []models.Property
	if err := cursor.All(ctx, &properties); err != nil {
		metrics.MongoErrorsTotal.WithLabelValues(operation, "properties").Inc()
		return nil, err
	}
	return properties, nil
}
