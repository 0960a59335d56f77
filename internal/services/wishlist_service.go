package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trekweb/trek_web_backend/internal/models"
	"github.com/trekweb/trek_web_backend/internal/repository"
	"github.com/trekweb/trek_web_backend/pkg/logger"
)

// WishlistStore is the persistence contract the wishlist needs. The store is
// expected to enforce uniqueness of (owner, package) itself.
type WishlistStore interface {
	FindByOwnerAndPackage(ctx context.Context, ownerID, packageID primitive.ObjectID) (*models.WishlistEntry, error)
	Create(ctx context.Context, entry *models.WishlistEntry) (*models.WishlistEntry, error)
	DeleteByOwnerAndKey(ctx context.Context, ownerID primitive.ObjectID, key string) (*models.WishlistEntry, error)
	ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.WishlistEntry, error)
	DeleteAllByOwner(ctx context.Context, ownerID primitive.ObjectID) (int64, error)
}

// CustomerDirectory confirms that a customer exists.
type CustomerDirectory interface {
	Exists(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// AddWishlistItemRequest carries the package snapshot saved by AddItem.
type AddWishlistItemRequest struct {
	OwnerID   string  `json:"ownerId" validate:"required"`
	PackageID string  `json:"packageId" validate:"required"`
	Title     string  `json:"title" validate:"required"`
	Location  string  `json:"location" validate:"required"`
	Price     float64 `json:"price" validate:"required"`
	Image     *string `json:"image,omitempty"`
}

// WishlistService encapsulates the business logic for wishlist operations.
type WishlistService struct {
	store     WishlistStore
	customers CustomerDirectory
}

// NewWishlistService creates a new instance of WishlistService.
func NewWishlistService(store WishlistStore, customers CustomerDirectory) *WishlistService {
	return &WishlistService{
		store:     store,
		customers: customers,
	}
}

// AddItem saves a package for an owner. The boolean result is false when the
// pair was already saved, in which case the stored entry is returned as is.
func (s *WishlistService) AddItem(ctx context.Context, req AddWishlistItemRequest) (*models.WishlistEntry, bool, error) {
	if err := validate.Struct(req); err != nil {
		logger.Log.WithError(err).Warn("Missing required fields in add to wishlist")
		return nil, false, validationFailure("Missing required fields", err)
	}

	ownerID, err := parseObjectID(req.OwnerID, "ownerId", "Invalid owner ID")
	if err != nil {
		return nil, false, err
	}
	packageID, err := parseObjectID(req.PackageID, "packageId", "Invalid package ID")
	if err != nil {
		return nil, false, err
	}

	if err := s.requireOwner(ctx, ownerID); err != nil {
		return nil, false, err
	}

	existing, err := s.store.FindByOwnerAndPackage(ctx, ownerID, packageID)
	if err == nil {
		logger.Log.WithField("entry_id", existing.ID.Hex()).Info("Package already in wishlist")
		wishlistChanges.WithLabelValues("duplicate").Inc()
		return existing, false, nil
	}
	if !errors.Is(err, repository.ErrWishlistEntryNotFound) {
		return nil, false, storeError("add", err)
	}

	entry := &models.WishlistEntry{
		OwnerID:         ownerID,
		PackageID:       packageID,
		PackageTitle:    req.Title,
		PackageLocation: req.Location,
		PackagePrice:    req.Price,
	}
	if req.Image != nil && *req.Image != "" {
		image := *req.Image
		entry.PackageImage = &image
	}

	// A concurrent add that wins the unique index is reported as the stored
	// entry. If that entry is removed before it can be read, insert once more.
	for attempt := 0; ; attempt++ {
		created, err := s.store.Create(ctx, entry)
		if err == nil {
			wishlistChanges.WithLabelValues("added").Inc()
			return created, true, nil
		}
		if !errors.Is(err, repository.ErrDuplicateWishlistEntry) {
			logger.Log.WithError(err).Error("Service failed to add wishlist entry")
			return nil, false, storeError("add", err)
		}

		winner, ferr := s.store.FindByOwnerAndPackage(ctx, ownerID, packageID)
		if ferr == nil {
			wishlistChanges.WithLabelValues("duplicate").Inc()
			return winner, false, nil
		}
		if !errors.Is(ferr, repository.ErrWishlistEntryNotFound) {
			return nil, false, storeError("add", ferr)
		}
		if attempt > 0 {
			return nil, false, storeError("add", fmt.Errorf("wishlist entry changed concurrently: %w", ferr))
		}
		logger.Log.WithField("owner_id", ownerID.Hex()).Warn("Conflicting wishlist entry vanished, retrying insert")
	}
}

// RemoveItem deletes the owner's entry whose package id or package title
// equals key. Owner existence is not checked here.
func (s *WishlistService) RemoveItem(ctx context.Context, ownerIDHex, key string) (*models.WishlistEntry, error) {
	if strings.TrimSpace(ownerIDHex) == "" {
		return nil, &ValidationError{Message: "Owner ID is required", Fields: map[string]string{"ownerId": "is required"}}
	}
	if key == "" {
		return nil, &ValidationError{Message: "Item ID is required", Fields: map[string]string{"itemId": "is required"}}
	}
	ownerID, err := parseObjectID(ownerIDHex, "ownerId", "Invalid owner ID")
	if err != nil {
		return nil, err
	}

	deleted, err := s.store.DeleteByOwnerAndKey(ctx, ownerID, key)
	if err != nil {
		if errors.Is(err, repository.ErrWishlistEntryNotFound) {
			return nil, &NotFoundError{Message: "Wishlist item not found"}
		}
		return nil, storeError("remove", err)
	}
	wishlistChanges.WithLabelValues("removed").Inc()
	return deleted, nil
}

// ListItems returns the owner's entries, most recently added first.
func (s *WishlistService) ListItems(ctx context.Context, ownerIDHex string) ([]models.WishlistEntry, error) {
	ownerID, err := requireOwnerID(ownerIDHex)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwner(ctx, ownerID); err != nil {
		return nil, err
	}

	entries, err := s.store.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, storeError("list", err)
	}
	if entries == nil {
		entries = []models.WishlistEntry{}
	}
	return entries, nil
}

// CheckItem reports whether the package is saved for the owner. Absence is a
// normal result, not an error, and owner existence is not checked.
func (s *WishlistService) CheckItem(ctx context.Context, ownerIDHex, packageIDHex string) (*models.WishlistCheck, error) {
	if strings.TrimSpace(ownerIDHex) == "" || strings.TrimSpace(packageIDHex) == "" {
		return nil, &ValidationError{Message: "Owner ID and Package ID are required"}
	}
	ownerID, err := parseObjectID(ownerIDHex, "ownerId", "Invalid owner ID")
	if err != nil {
		return nil, err
	}
	packageID, err := parseObjectID(packageIDHex, "packageId", "Invalid package ID")
	if err != nil {
		return nil, err
	}

	entry, err := s.store.FindByOwnerAndPackage(ctx, ownerID, packageID)
	if err != nil {
		if errors.Is(err, repository.ErrWishlistEntryNotFound) {
			return &models.WishlistCheck{IsInWishlist: false, Item: nil}, nil
		}
		return nil, storeError("check", err)
	}
	return &models.WishlistCheck{IsInWishlist: true, Item: entry}, nil
}

// ClearItems removes every entry of the owner. Clearing an empty wishlist
// succeeds with a zero count.
func (s *WishlistService) ClearItems(ctx context.Context, ownerIDHex string) (*models.WishlistClearResult, error) {
	ownerID, err := requireOwnerID(ownerIDHex)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwner(ctx, ownerID); err != nil {
		return nil, err
	}

	count, err := s.store.DeleteAllByOwner(ctx, ownerID)
	if err != nil {
		return nil, storeError("clear", err)
	}

	wishlistChanges.WithLabelValues("cleared").Add(float64(count))
	logger.Log.WithFields(map[string]interface{}{
		"owner_id": ownerID.Hex(),
		"count":    count,
	}).Info("Wishlist cleared in service layer")
	return &models.WishlistClearResult{DeletedCount: count}, nil
}

func (s *WishlistService) requireOwner(ctx context.Context, ownerID primitive.ObjectID) error {
	ok, err := s.customers.Exists(ctx, ownerID)
	if err != nil {
		return storeError("owner lookup", err)
	}
	if !ok {
		logger.Log.WithField("owner_id", ownerID.Hex()).Warn("Wishlist owner not found")
		return &NotFoundError{Message: "Owner not found"}
	}
	return nil
}

func requireOwnerID(hex string) (primitive.ObjectID, error) {
	if strings.TrimSpace(hex) == "" {
		return primitive.NilObjectID, &ValidationError{Message: "Owner ID is required", Fields: map[string]string{"ownerId": "is required"}}
	}
	return parseObjectID(hex, "ownerId", "Invalid owner ID")
}

func parseObjectID(hex, field, message string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, &ValidationError{Message: message, Fields: map[string]string{field: "must be a 24 character hex id"}}
	}
	return id, nil
}
