package item

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

var (
	// ErrNotFound reports a missing item document.
	ErrNotFound = errors.New("item not found")
	// ErrVersionConflict reports a stale write-back: the caller must re-read
	// and retry with the fresh version.
	ErrVersionConflict = errors.New("item version conflict")
)

// Store is the persistence seam for placed items. Merge is a partial
// update: only the given fields change, guarded by the optimistic version.
type Store interface {
	List(ctx context.Context) ([]models.ItemModel, error)
	ListByPage(ctx context.Context, page int) ([]models.ItemModel, error)
	Get(ctx context.Context, id string) (*models.ItemModel, error)
	Insert(ctx context.Context, item *models.ItemModel) error
	Merge(ctx context.Context, id string, version int64, fields map[string]interface{}) (*models.ItemModel, error)
	Delete(ctx context.Context, id string) error
}

type mongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore returns the MongoDB-backed item store.
func NewMongoStore(coll *mongo.Collection) Store {
	return &mongoStore{coll: coll}
}

func (s *mongoStore) List(ctx context.Context) ([]models.ItemModel, error) {
	cursor, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{
		{Key: "pageNumber", Value: 1},
		{Key: "created", Value: 1},
	}))
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	var items []models.ItemModel
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	return items, nil
}

func (s *mongoStore) ListByPage(ctx context.Context, page int) ([]models.ItemModel, error) {
	cursor, err := s.coll.Find(ctx, bson.M{"pageNumber": page}, options.Find().SetSort(bson.D{
		{Key: "created", Value: 1},
	}))
	if err != nil {
		return nil, fmt.Errorf("list items for page %d: %w", page, err)
	}
	var items []models.ItemModel
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	return items, nil
}

func (s *mongoStore) Get(ctx context.Context, id string) (*models.ItemModel, error) {
	var item models.ItemModel
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get item %q: %w", id, err)
	}
	return &item, nil
}

func (s *mongoStore) Insert(ctx context.Context, item *models.ItemModel) error {
	if _, err := s.coll.InsertOne(ctx, item); err != nil {
		return fmt.Errorf("insert item %q: %w", item.ID, err)
	}
	return nil
}

func (s *mongoStore) Merge(ctx context.Context, id string, version int64, fields map[string]interface{}) (*models.ItemModel, error) {
	set := bson.M{"modified": time.Now().UTC()}
	for k, v := range fields {
		set[k] = v
	}

	var updated models.ItemModel
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "version": version},
		bson.M{"$set": set, "$inc": bson.M{"version": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// distinguish a stale version from a missing document
		if _, getErr := s.Get(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrVersionConflict
	}
	if err != nil {
		return nil, fmt.Errorf("merge item %q: %w", id, err)
	}
	return &updated, nil
}

func (s *mongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete item %q: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
