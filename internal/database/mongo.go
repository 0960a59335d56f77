package database

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/trekweb/trek_web_backend/internal/config"
)

// Collection names shared by the repositories and the index bootstrap.
const (
	WishlistCollection = "wishlists"
	CustomerCollection = "customers"
	PackageCollection  = "packages"
)

// Store owns the Mongo client and the database handle derived from it.
// It is created once at startup and passed to every repository.
type Store struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// ConnectDB dials MongoDB and verifies the connection with a ping.
func ConnectDB(ctx context.Context, cfg *config.Config) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	logrus.WithField("database", cfg.DBName).Info("Connected to MongoDB")
	return &Store{Client: client, DB: client.Database(cfg.DBName)}, nil
}

// Ping checks that the primary is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.Client.Ping(ctx, readpref.Primary())
}

// Disconnect closes the underlying client.
func (s *Store) Disconnect(ctx context.Context) error {
	if err := s.Client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from MongoDB: %w", err)
	}
	logrus.Info("Disconnected from MongoDB")
	return nil
}

// WishlistIndexes describes the indexes the wishlist collection relies on.
// The compound unique index is what makes concurrent adds idempotent.
func WishlistIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "packageId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("userId_1_packageId_1"),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "addedAt", Value: -1}},
			Options: options.Index().SetName("userId_1_addedAt_-1"),
		},
	}
}

// CustomerIndexes keeps customer emails unique.
func CustomerIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("email_1"),
		},
	}
}

// EnsureIndexes creates the indexes required by the repositories. Creating an
// index that already exists with the same definition is a no-op in MongoDB.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	plan := map[string][]mongo.IndexModel{
		WishlistCollection: WishlistIndexes(),
		CustomerCollection: CustomerIndexes(),
	}

	for coll, models := range plan {
		names, err := db.Collection(coll).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", coll, err)
		}
		logrus.WithFields(logrus.Fields{
			"collection": coll,
			"indexes":    names,
		}).Info("Indexes ensured")
	}
	return nil
}
