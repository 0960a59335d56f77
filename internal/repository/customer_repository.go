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

var ErrCustomerNotFound = errors.New("customer not found")

// CustomerRepository handles database operations related to customers.
type CustomerRepository struct {
	collection *mongo.Collection
}

// NewCustomerRepository creates a new instance of CustomerRepository.
func NewCustomerRepository(db *mongo.Database) *CustomerRepository {
	return &CustomerRepository{
		collection: db.Collection(database.CustomerCollection),
	}
}

// Exists reports whether a customer with the given ID is stored.
func (r *CustomerRepository) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	opts := options.FindOne().SetProjection(bson.M{"_id": 1})
	err := r.collection.FindOne(ctx, bson.M{"_id": id}, opts).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		logrus.WithFields(logrus.Fields{
			"customerID": id.Hex(),
			"error":      err,
		}).Warn("Failed to look up customer")
		return false, fmt.Errorf("failed to look up customer: %w", err)
	}
	return true, nil
}

// FindByID retrieves a customer by ID.
func (r *CustomerRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Customer, error) {
	var customer models.Customer
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&customer)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to find customer by id: %w", err)
	}
	return &customer, nil
}

// FindByEmail retrieves a customer by email.
func (r *CustomerRepository) FindByEmail(ctx context.Context, email string) (*models.Customer, error) {
	var customer models.Customer
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&customer)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to find customer by email: %w", err)
	}
	return &customer, nil
}

// UpsertByEmail inserts the customer or refreshes the stored one with the same
// email. The returned customer reflects the stored document.
func (r *CustomerRepository) UpsertByEmail(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"fname":     customer.FirstName,
			"lname":     customer.LastName,
			"password":  customer.Password,
			"phone":     customer.Phone,
			"role":      customer.Role,
			"updatedAt": now,
		},
		"$setOnInsert": bson.M{"createdAt": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var stored models.Customer
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"email": customer.Email}, update, opts).Decode(&stored)
	if err != nil {
		logrus.WithError(err).WithField("email", customer.Email).Error("Failed to upsert customer")
		return nil, fmt.Errorf("failed to upsert customer: %w", err)
	}

	logrus.WithField("customerID", stored.ID.Hex()).Info("Customer upserted")
	return &stored, nil
}
