// Package database manages the MongoDB connection backing the property store.
package database

import (
	"context"
	"fmt"
	"time"

	"homeinsight-propcache/pkg/config"
	"homeinsight-propcache/pkg/logger"
	"homeinsight-propcache/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Connect establishes the MongoDB connection and returns the client together
// with the configured database handle.
func Connect(cfg *config.Config) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(cfg.Database.URI).
		SetConnectTimeout(10 * time.Second).
		SetMaxPoolSize(100)

	start := time.Now()
	client, err := mongo.Connect(ctx, clientOptions)
	metrics.MongoOperationDuration.WithLabelValues("connect", "").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.MongoErrorsTotal.WithLabelValues("connect", "").Inc()
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %v", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		metrics.MongoErrorsTotal.WithLabelValues("ping", "").Inc()
		client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %v", err)
	}

	db := client.Database(cfg.Database.DBName)
	if err := ensureIndexes(ctx, db); err != nil {
		logger.GlobalLogger.Warnf("Failed to create indexes: %v", err)
	}

	logger.GlobalLogger.Println("MongoDB connected successfully")
	return client, db, nil
}

// ensureIndexes creates the indexes the property queries rely on.
func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	collection := db.Collection("properties")
	_, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "propertyId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "location", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "price", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "createdAt", Value: -1}},
		},
	})
	return err
}

// Close disconnects the MongoDB client.
func Close(client *mongo.Client) {
	if client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		logger.GlobalLogger.Errorf("Error closing MongoDB: %v", err)
	} else {
		logger.GlobalLogger.Println("MongoDB connection closed")
	}
}
