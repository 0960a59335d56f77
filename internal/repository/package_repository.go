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

var ErrPackageNotFound = errors.New("package not found")

// PackageRepository handles queries against the trek package catalogue.
type PackageRepository struct {
	collection *mongo.Collection
}

// NewPackageRepository creates a new instance of PackageRepository.
func NewPackageRepository(db *mongo.Database) *PackageRepository {
	return &PackageRepository{collection: db.Collection(database.PackageCollection)}
}

// FindByID retrieves a package by ID.
func (r *PackageRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Package, error) {
	var pkg models.Package
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&pkg); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPackageNotFound
		}
		return nil, fmt.Errorf("failed to get package: %w", err)
	}
	return &pkg, nil
}

// UpsertByTitle writes a package keyed by its title, so reseeding replaces
// the catalogue entry instead of duplicating it.
func (r *PackageRepository) UpsertByTitle(ctx context.Context, pkg *models.Package) (*models.Package, error) {
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"description":    pkg.Description,
			"location":       pkg.Location,
			"price":          pkg.Price,
			"duration":       pkg.Duration,
			"category":       pkg.Category,
			"availableDates": pkg.AvailableDates,
			"itinerary":      pkg.Itinerary,
			"image":          pkg.Image,
			"updatedAt":      now,
		},
		"$setOnInsert": bson.M{"createdAt": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var stored models.Package
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"title": pkg.Title}, update, opts).Decode(&stored)
	if err != nil {
		logrus.WithError(err).WithField("title", pkg.Title).Error("Failed to upsert package")
		return nil, fmt.Errorf("failed to upsert package: %w", err)
	}
	return &stored, nil
}
