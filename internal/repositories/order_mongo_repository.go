package repositories

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"tokobuku/internal/models"
)

// MongoOrderRepository stores orders as documents.
type MongoOrderRepository struct {
	coll *mongo.Collection
}

// NewMongoOrderRepository creates a new instance of MongoOrderRepository.
func NewMongoOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{
		coll: db.Collection(OrdersCollection),
	}
}

// GetAll retrieves all orders.
func (r *MongoOrderRepository) GetAll(ctx context.Context) ([]models.Order, error) {
	return r.find(ctx, bson.D{})
}

// GetByUser retrieves the orders owned by userID.
func (r *MongoOrderRepository) GetByUser(ctx context.Context, userID string) ([]models.Order, error) {
	return r.find(ctx, bson.D{{Key: "user", Value: userID}})
}

func (r *MongoOrderRepository) find(ctx context.Context, filter bson.D) ([]models.Order, error) {
	cur, err := r.coll.Find(ctx, filter, sortByCreation)
	if err != nil {
		return nil, errors.Wrap(err, "find orders")
	}
	orders := []models.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, errors.Wrap(err, "decode orders")
	}
	return orders, nil
}

// GetByID retrieves a single order by its ID.
func (r *MongoOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&order); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.Wrapf(ErrNotFound, "order %s", id)
		}
		return nil, errors.Wrapf(err, "find order %s", id)
	}
	return &order, nil
}

// Create inserts a new order document.
func (r *MongoOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = newObjectID()
	}
	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, order); err != nil {
		return errors.Wrap(err, "insert order")
	}
	return nil
}

// Update replaces the order document.
func (r *MongoOrderRepository) Update(ctx context.Context, order *models.Order) error {
	order.UpdatedAt = time.Now().UTC()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": order.ID}, order)
	if err != nil {
		return errors.Wrapf(err, "replace order %s", order.ID)
	}
	if res.MatchedCount == 0 {
		return errors.Wrapf(ErrNotFound, "order %s", order.ID)
	}
	return nil
}
