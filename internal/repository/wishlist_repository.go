package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trekweb/trek_web_backend/internal/database"
	"github.com/trekweb/trek_web_backend/internal/models"
)

var (
	ErrWishlistEntryNotFound  = errors.New("wishlist entry not found")
	ErrDuplicateWishlistEntry = errors.New("wishlist entry already exists")
)

// WishlistRepository handles queries against the wishlists collection.
type WishlistRepository struct {
	collection *mongo.Collection
}

// NewWishlistRepository creates a new instance of WishlistRepository.
func NewWishlistRepository(db *mongo.Database) *WishlistRepository {
	return &WishlistRepository{collection: db.Collection(database.WishlistCollection)}
}

// Create inserts a new entry. A unique index violation on (userId, packageId)
// is reported as ErrDuplicateWishlistEntry.
func (r *WishlistRepository) Create(ctx context.Context, entry *models.WishlistEntry) (*models.WishlistEntry, error) {
	now := time.Now().UTC()
	if entry.AddedAt.IsZero() {
		entry.AddedAt = now
	}
	entry.CreatedAt = now
	entry.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateWishlistEntry
		}
		logrus.WithError(err).Error("Failed to insert wishlist entry")
		return nil, fmt.Errorf("failed to create wishlist entry: %w", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	entry.ID = insertedID

	logrus.WithFields(logrus.Fields{
		"entryID":   entry.ID.Hex(),
		"ownerID":   entry.OwnerID.Hex(),
		"packageID": entry.PackageID.Hex(),
	}).Info("Wishlist entry created")
	return entry, nil
}

// FindByOwnerAndPackage returns the entry for the given pair.
func (r *WishlistRepository) FindByOwnerAndPackage(ctx context.Context, ownerID, packageID primitive.ObjectID) (*models.WishlistEntry, error) {
	var entry models.WishlistEntry
	err := r.collection.FindOne(ctx, bson.M{"userId": ownerID, "packageId": packageID}).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrWishlistEntryNotFound
		}
		return nil, fmt.Errorf("failed to find wishlist entry: %w", err)
	}
	return &entry, nil
}

// DeleteByOwnerAndKey removes at most one entry of the owner whose package id
// or package title equals key. Keys that are not ObjectID hex strings can only
// match by title.
func (r *WishlistRepository) DeleteByOwnerAndKey(ctx context.Context, ownerID primitive.ObjectID, key string) (*models.WishlistEntry, error) {
	match := bson.A{bson.M{"packageTitle": key}}
	if packageID, err := primitive.ObjectIDFromHex(key); err == nil {
		match = bson.A{bson.M{"packageId": packageID}, bson.M{"packageTitle": key}}
	}

	var deleted models.WishlistEntry
	err := r.collection.FindOneAndDelete(ctx, bson.M{"userId": ownerID, "$or": match}).Decode(&deleted)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrWishlistEntryNotFound
		}
		logrus.WithError(err).WithField("ownerID", ownerID.Hex()).Error("Failed to delete wishlist entry")
		return nil, fmt.Errorf("failed to delete wishlist entry: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"entryID": deleted.ID.Hex(),
		"ownerID": ownerID.Hex(),
	}).Info("Wishlist entry deleted")
	return &deleted, nil
}

// ListByOwner returns every entry of the owner, most recently added first.
func (r *WishlistRepository) ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.WishlistEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "addedAt", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"userId": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch wishlist: %w", err)
	}
	defer cursor.Close(ctx)

	entries := make([]models.WishlistEntry, 0)
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode wishlist: %w", err)
	}
	return entries, nil
}

// DeleteAllByOwner removes every entry of the owner and reports how many went.
func (r *WishlistRepository) DeleteAllByOwner(ctx context.Context, ownerID primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"userId": ownerID})
	if err != nil {
		logrus.WithError(err).WithField("ownerID", ownerID.Hex()).Error("Failed to clear wishlist")
		return 0, fmt.Errorf("failed to clear wishlist: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"ownerID": ownerID.Hex(),
		"count":   result.DeletedCount,
	}).Info("Wishlist cleared")
	return result.DeletedCount, nil
}
