// Package editmode owns the shared edit-mode switch: one well-known
// document whose boolean gates every manipulation write-back and is
// pushed to live viewers whenever it flips.
package editmode

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/scrapbook-space/core/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is the persistence seam for the singleton edit-mode document.
type Store interface {
	Get(ctx context.Context) (*models.EditModeModel, error)
	Set(ctx context.Context, enabled bool) (*models.EditModeModel, error)
}

type mongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore returns the MongoDB-backed edit-mode store.
func NewMongoStore(coll *mongo.Collection) Store {
	return &mongoStore{coll: coll}
}

// Get reads the switch. A missing document reads as disabled rather than
// an error, so a fresh database starts read-only.
func (s *mongoStore) Get(ctx context.Context) (*models.EditModeModel, error) {
	var doc models.EditModeModel
	err := s.coll.FindOne(ctx, bson.M{"_id": models.EditModeDocID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return &models.EditModeModel{ID: models.EditModeDocID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get edit mode: %w", err)
	}
	return &doc, nil
}

// Set upserts the switch to the given state.
func (s *mongoStore) Set(ctx context.Context, enabled bool) (*models.EditModeModel, error) {
	var doc models.EditModeModel
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": models.EditModeDocID},
		bson.M{"$set": bson.M{"enabled": enabled, "modified": time.Now().UTC()}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("set edit mode: %w", err)
	}
	return &doc, nil
}
