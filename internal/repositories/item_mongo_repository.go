package repositories

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"tokobuku/internal/models"
)

// MongoItemRepository stores items as documents with embedded reviews.
type MongoItemRepository struct {
	coll *mongo.Collection
}

// NewMongoItemRepository creates a new instance of MongoItemRepository.
func NewMongoItemRepository(db *mongo.Database) *MongoItemRepository {
	return &MongoItemRepository{
		coll: db.Collection(ItemsCollection),
	}
}

// GetAll retrieves all items.
func (r *MongoItemRepository) GetAll(ctx context.Context) ([]models.Item, error) {
	cur, err := r.coll.Find(ctx, bson.D{}, sortByCreation)
	if err != nil {
		return nil, errors.Wrap(err, "find items")
	}
	items := []models.Item{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, errors.Wrap(err, "decode items")
	}
	return items, nil
}

// GetByID retrieves a single item by its ID.
func (r *MongoItemRepository) GetByID(ctx context.Context, id string) (*models.Item, error) {
	var item models.Item
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.Wrapf(ErrNotFound, "item %s", id)
		}
		return nil, errors.Wrapf(err, "find item %s", id)
	}
	return &item, nil
}

// Create inserts a new item document.
func (r *MongoItemRepository) Create(ctx context.Context, item *models.Item) error {
	if item.ID == "" {
		item.ID = newObjectID()
	}
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, item); err != nil {
		return errors.Wrap(err, "insert item")
	}
	return nil
}

// Update replaces the item document.
func (r *MongoItemRepository) Update(ctx context.Context, item *models.Item) error {
	item.UpdatedAt = time.Now().UTC()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": item.ID}, item)
	if err != nil {
		return errors.Wrapf(err, "replace item %s", item.ID)
	}
	if res.MatchedCount == 0 {
		return errors.Wrapf(ErrNotFound, "item %s", item.ID)
	}
	return nil
}

// Delete removes the item document.
func (r *MongoItemRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrapf(err, "delete item %s", id)
	}
	if res.DeletedCount == 0 {
		return errors.Wrapf(ErrNotFound, "item %s", id)
	}
	return nil
}
