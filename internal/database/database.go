// Package database opens the configured store and exposes its repositories.
package database

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"tokobuku/internal/config"
	"tokobuku/internal/models"
	"tokobuku/internal/repositories"
)

const (
	connectTimeout = 10 * time.Second
	slowQuery      = 200 * time.Millisecond
)

// Store bundles the repositories of one backend with its lifecycle hooks.
type Store struct {
	Driver string
	Items  repositories.ItemRepository
	Orders repositories.OrderRepository
	Users  repositories.UserRepository

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

// Ping checks that the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

// Close releases the backend connection.
func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// Open connects to the backend selected by cfg.Driver. lg receives the
// relational backends' query warnings.
func Open(ctx context.Context, cfg config.StoreConfig, lg *zap.Logger) (*Store, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		return OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	case config.DriverPostgres:
		return OpenGORM(config.DriverPostgres, postgres.Open(cfg.DSN), lg)
	case config.DriverSQLite:
		return OpenGORM(config.DriverSQLite, sqlite.Open(cfg.DSN), lg)
	case config.DriverMemory:
		return NewMemory(), nil
	default:
		return nil, errors.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// OpenMongo connects to MongoDB and prepares indexes.
func OpenMongo(ctx context.Context, uri, database string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "connect to mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "ping mongo")
	}

	db := client.Database(database)
	if err := repositories.EnsureMongoIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return &Store{
		Driver: config.DriverMongo,
		Items:  repositories.NewMongoItemRepository(db),
		Orders: repositories.NewMongoOrderRepository(db),
		Users:  repositories.NewMongoUserRepository(db),
		ping: func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		},
		close: client.Disconnect,
	}, nil
}

// OpenGORM opens a relational backend and migrates the schema.
func OpenGORM(driver string, dialector gorm.Dialector, lg *zap.Logger) (*Store, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLogger(lg),
		TranslateError: true,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", driver)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "get sql handle")
	}

	return &Store{
		Driver: driver,
		Items:  repositories.NewGORMItemRepository(db),
		Orders: repositories.NewGORMOrderRepository(db),
		Users:  repositories.NewGORMUserRepository(db),
		ping:   sqlDB.PingContext,
		close: func(context.Context) error {
			return sqlDB.Close()
		},
	}, nil
}

// gormLogger forwards GORM's slow-query warnings and errors to lg. Lookups
// that find nothing are routine and not logged.
func gormLogger(lg *zap.Logger) gormlogger.Interface {
	if lg == nil {
		lg = zap.NewNop()
	}
	return gormlogger.New(zap.NewStdLog(lg.Named("gorm")), gormlogger.Config{
		SlowThreshold:             slowQuery,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

// Migrate creates or updates the tables for all models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Item{}, &models.Order{}, &models.User{}); err != nil {
		return errors.Wrap(err, "auto-migrate")
	}
	return nil
}

// NewMemory returns a store kept entirely in process memory.
func NewMemory() *Store {
	return &Store{
		Driver: config.DriverMemory,
		Items:  repositories.NewMockItemRepository(),
		Orders: repositories.NewMockOrderRepository(),
		Users:  repositories.NewMockUserRepository(),
	}
}
