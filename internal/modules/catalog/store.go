// Package catalog manages the page catalog: the ordered set of scrapbook
// pages the flip-book viewer renders. Pages are keyed by their display
// label and never renumbered once created.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/scrapbook-space/core/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound reports a missing page document.
	ErrNotFound = errors.New("page not found")
	// ErrExists reports a label collision on create.
	ErrExists = errors.New("page already exists")
)

// Store is the persistence seam for the page catalog.
type Store interface {
	List(ctx context.Context) ([]models.PageModel, error)
	Get(ctx context.Context, label string) (*models.PageModel, error)
	Count(ctx context.Context) (int64, error)
	Insert(ctx context.Context, page *models.PageModel) error
	SetTitle(ctx context.Context, label, title string) (*models.PageModel, error)
	Delete(ctx context.Context, label string) error
}

type mongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore returns the MongoDB-backed page store.
func NewMongoStore(coll *mongo.Collection) Store {
	return &mongoStore{coll: coll}
}

func (s *mongoStore) List(ctx context.Context) ([]models.PageModel, error) {
	cursor, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{
		{Key: "created", Value: 1},
	}))
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	var pages []models.PageModel
	if err := cursor.All(ctx, &pages); err != nil {
		return nil, fmt.Errorf("decode pages: %w", err)
	}
	return pages, nil
}

func (s *mongoStore) Get(ctx context.Context, label string) (*models.PageModel, error) {
	var page models.PageModel
	err := s.coll.FindOne(ctx, bson.M{"_id": label}).Decode(&page)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get page %q: %w", label, err)
	}
	return &page, nil
}

func (s *mongoStore) Count(ctx context.Context) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count pages: %w", err)
	}
	return n, nil
}

func (s *mongoStore) Insert(ctx context.Context, page *models.PageModel) error {
	_, err := s.coll.InsertOne(ctx, page)
	if mongo.IsDuplicateKeyError(err) {
		return ErrExists
	}
	if err != nil {
		return fmt.Errorf("insert page %q: %w", page.ID, err)
	}
	return nil
}

func (s *mongoStore) SetTitle(ctx context.Context, label, title string) (*models.PageModel, error) {
	var updated models.PageModel
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": label},
		bson.M{"$set": bson.M{"title": title, "modified": nowUTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("rename page %q: %w", label, err)
	}
	return &updated, nil
}

func (s *mongoStore) Delete(ctx context.Context, label string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": label})
	if err != nil {
		return fmt.Errorf("delete page %q: %w", label, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
