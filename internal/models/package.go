package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Package struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title          string             `bson:"title" json:"title"`
	Description    string             `bson:"description" json:"description"`
	Location       string             `bson:"location" json:"location"`
	Price          float64            `bson:"price" json:"price"`
	Duration       string             `bson:"duration" json:"duration"`
	Category       string             `bson:"category" json:"category"`
	AvailableDates []time.Time        `bson:"availableDates" json:"availableDates"`
	Itinerary      []string           `bson:"itinerary" json:"itinerary"`
	Image          string             `bson:"image,omitempty" json:"image,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}
