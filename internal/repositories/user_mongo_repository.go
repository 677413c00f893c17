package repositories

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"tokobuku/internal/models"
)

// MongoUserRepository stores users as documents. Uniqueness of username and
// email is backed by the indexes from EnsureMongoIndexes.
type MongoUserRepository struct {
	coll *mongo.Collection
}

// NewMongoUserRepository creates a new instance of MongoUserRepository.
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{
		coll: db.Collection(UsersCollection),
	}
}

// Create inserts a new user document.
func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = newObjectID()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.Wrapf(ErrDuplicate, "user %s or %s", user.Username, user.Email)
		}
		return errors.Wrap(err, "insert user")
	}
	return nil
}

// GetByUsername retrieves a user by username.
func (r *MongoUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, "username", username)
}

// GetByEmail retrieves a user by email.
func (r *MongoUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "email", email)
}

// GetByID retrieves a user by id.
func (r *MongoUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, "_id", id)
}

func (r *MongoUserRepository) findOne(ctx context.Context, key, value string) (*models.User, error) {
	var user models.User
	if err := r.coll.FindOne(ctx, bson.M{key: value}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.Wrapf(ErrNotFound, "user %s", value)
		}
		return nil, errors.Wrapf(err, "find user %s", value)
	}
	return &user, nil
}
