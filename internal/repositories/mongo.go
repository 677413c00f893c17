package repositories

import (
	"context"

	"github.com/go-faster/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names in the document store.
const (
	ItemsCollection  = "items"
	OrdersCollection = "orders"
	UsersCollection  = "users"
)

// newObjectID returns a fresh ObjectID in hex form. Documents keep string
// ids so the same models serve every backend.
func newObjectID() string {
	return primitive.NewObjectID().Hex()
}

var sortByCreation = options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})

// EnsureMongoIndexes creates the indexes the repositories rely on.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(UsersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return errors.Wrap(err, "create user indexes")
	}
	_, err = db.Collection(OrdersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user", Value: 1}},
	})
	if err != nil {
		return errors.Wrap(err, "create order indexes")
	}
	return nil
}
