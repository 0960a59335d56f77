package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WishlistEntry is one customer's saved interest in one trek package.
// Package fields are copied when the entry is added and never refreshed.
type WishlistEntry struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID         primitive.ObjectID `bson:"userId" json:"ownerId"`
	PackageID       primitive.ObjectID `bson:"packageId" json:"packageId"`
	PackageTitle    string             `bson:"packageTitle" json:"packageTitle"`
	PackageLocation string             `bson:"packageLocation" json:"packageLocation"`
	PackagePrice    float64            `bson:"packagePrice" json:"packagePrice"`
	PackageImage    *string            `bson:"packageImage" json:"packageImage"` // nil means no image
	AddedAt         time.Time          `bson:"addedAt" json:"addedAt"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// WishlistCheck reports whether a package is saved for an owner.
type WishlistCheck struct {
	IsInWishlist bool           `json:"isInWishlist"`
	Item         *WishlistEntry `json:"item"`
}

// WishlistClearResult is returned after removing every entry of an owner.
type WishlistClearResult struct {
	DeletedCount int64 `json:"deletedCount"`
}
