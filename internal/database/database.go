package database

import (
	"context"
	"fmt"
	"time"

	"github.com/scrapbook-space/core/internal/config"
	"github.com/scrapbook-space/core/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const connectTimeout = 10 * time.Second

// DB wraps the MongoDB client and the application database.
type DB struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect opens a MongoDB connection, verifies it, and ensures indexes.
func Connect(cfg *config.AppConfig) (*DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI()))
	if err != nil {
		return nil, fmt.Errorf("mongo connection failed: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("mongo ping failed: %w", err)
	}

	d := &DB{client: client, db: client.Database(cfg.Mongo.Name)}
	if err := d.ensureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}
	return d, nil
}

// Pages returns the page catalog collection.
func (d *DB) Pages() *mongo.Collection {
	return d.db.Collection(models.PageModel{}.CollectionName())
}

// Items returns the placed-items collection.
func (d *DB) Items() *mongo.Collection {
	return d.db.Collection(models.ItemModel{}.CollectionName())
}

// EditMode returns the collection holding the singleton edit-mode document.
func (d *DB) EditMode() *mongo.Collection {
	return d.db.Collection(models.EditModeModel{}.CollectionName())
}

// Ping verifies connectivity, used by the health endpoint.
func (d *DB) Ping(ctx context.Context) error {
	return d.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (d *DB) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}

// ensureIndexes maintains the derived page → items index so grouping never
// depends on parsing composite keys per read.
func (d *DB) ensureIndexes(ctx context.Context) error {
	_, err := d.Items().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "pageNumber", Value: 1}, {Key: "created", Value: 1}},
		Options: options.Index().SetName("page_number_created"),
	})
	return err
}
