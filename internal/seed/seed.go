package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/trekweb/trek_web_backend/internal/models"
	"github.com/trekweb/trek_web_backend/internal/repository"
)

// PackageStore writes catalogue packages and reads them back.
type PackageStore interface {
	UpsertByTitle(ctx context.Context, pkg *models.Package) (*models.Package, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Package, error)
}

// CustomerStore writes customer accounts and reads them back.
type CustomerStore interface {
	FindByEmail(ctx context.Context, email string) (*models.Customer, error)
	UpsertByEmail(ctx context.Context, customer *models.Customer) (*models.Customer, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Customer, error)
}

// Options selects what Run writes.
type Options struct {
	Packages bool
	Customer bool
	Password string
}

// Result lists what was written, as read back from the store.
type Result struct {
	Packages []*models.Package
	Customer *models.Customer
	// CustomerExisted is true when the account was updated rather than created.
	CustomerExisted bool
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

// SamplePackages returns the demo trek catalogue.
func SamplePackages() []models.Package {
	return []models.Package{
		{
			Title:          "Everest Base Camp Trek",
			Description:    "Experience the ultimate adventure with our Everest Base Camp trek. This iconic journey takes you through the heart of the Himalayas, offering breathtaking views of the world's highest peak.",
			Location:       "Everest Region, Nepal",
			Price:          1200,
			Duration:       "14 days",
			Category:       "Mountain",
			AvailableDates: []time.Time{day(2024, time.March, 15), day(2024, time.April, 10), day(2024, time.May, 5)},
			Itinerary:      []string{"Day 1: Arrival in Kathmandu", "Day 2: Fly to Lukla", "Day 3: Trek to Namche Bazaar", "Day 4: Acclimatization day", "Day 5: Trek to Tengboche"},
			Image:          "everest.jpg",
		},
		{
			Title:          "Annapurna Circuit Trek",
			Description:    "Discover the diverse landscapes of the Annapurna region with this comprehensive trek that takes you through lush forests, high mountain passes, and traditional villages.",
			Location:       "Annapurna Region, Nepal",
			Price:          950,
			Duration:       "12 days",
			Category:       "Mountain",
			AvailableDates: []time.Time{day(2024, time.March, 20), day(2024, time.April, 15), day(2024, time.May, 10)},
			Itinerary:      []string{"Day 1: Arrival in Kathmandu", "Day 2: Drive to Besisahar", "Day 3: Trek to Chame", "Day 4: Trek to Manang", "Day 5: Acclimatization day"},
			Image:          "annapurna.jpg",
		},
		{
			Title:          "Rara Lake Trek",
			Description:    "Explore the pristine beauty of Rara Lake, the largest lake in Nepal. This remote trek offers stunning mountain views and a peaceful escape into nature.",
			Location:       "Rara Lake, Nepal",
			Price:          800,
			Duration:       "10 days",
			Category:       "Lakes",
			AvailableDates: []time.Time{day(2024, time.March, 25), day(2024, time.April, 20), day(2024, time.May, 15)},
			Itinerary:      []string{"Day 1: Arrival in Kathmandu", "Day 2: Fly to Nepalgunj", "Day 3: Drive to Talcha", "Day 4: Trek to Rara Lake", "Day 5: Explore Rara Lake"},
			Image:          "rara.jpg",
		},
		{
			Title:          "Tilicho Lake Trek",
			Description:    "Journey to the highest lake in the world at 4,919 meters. This challenging trek rewards you with spectacular views of the Annapurna range.",
			Location:       "Annapurna Region, Nepal",
			Price:          1100,
			Duration:       "15 days",
			Category:       "Lakes",
			AvailableDates: []time.Time{day(2024, time.March, 30), day(2024, time.April, 25), day(2024, time.May, 20)},
			Itinerary:      []string{"Day 1: Arrival in Kathmandu", "Day 2: Drive to Besisahar", "Day 3: Trek to Chame", "Day 4: Trek to Manang", "Day 5: Acclimatization day"},
			Image:          "tilicho.jpg",
		},
	}
}

// TestCustomer returns the demo account without a password hash.
func TestCustomer() models.Customer {
	return models.Customer{
		FirstName: "Test",
		LastName:  "User",
		Email:     "test@example.com",
		Phone:     "1234567890",
		Role:      "customer",
	}
}

// Run writes the selected fixtures and reads each one back by ID. Rerunning
// it updates the same documents.
func Run(ctx context.Context, packages PackageStore, customers CustomerStore, opts Options) (*Result, error) {
	result := &Result{}

	if opts.Packages {
		for _, p := range SamplePackages() {
			pkg := p
			upserted, err := packages.UpsertByTitle(ctx, &pkg)
			if err != nil {
				return result, fmt.Errorf("seed package %q: %w", pkg.Title, err)
			}
			stored, err := packages.FindByID(ctx, upserted.ID)
			if err != nil {
				return result, fmt.Errorf("read back package %q: %w", pkg.Title, err)
			}
			result.Packages = append(result.Packages, stored)
			logrus.WithFields(logrus.Fields{
				"packageID": stored.ID.Hex(),
				"title":     stored.Title,
				"price":     stored.Price,
			}).Info("Seeded package")
		}
	}

	if opts.Customer {
		customer, existed, err := seedCustomer(ctx, customers, opts.Password)
		if err != nil {
			return result, err
		}
		result.Customer = customer
		result.CustomerExisted = existed
	}

	return result, nil
}

func seedCustomer(ctx context.Context, customers CustomerStore, password string) (*models.Customer, bool, error) {
	if password == "" {
		return nil, false, fmt.Errorf("seed customer: password must not be empty")
	}

	customer := TestCustomer()
	existed := true
	if _, err := customers.FindByEmail(ctx, customer.Email); err != nil {
		if !errors.Is(err, repository.ErrCustomerNotFound) {
			return nil, false, fmt.Errorf("seed customer: %w", err)
		}
		existed = false
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, false, fmt.Errorf("failed to hash password: %w", err)
	}
	customer.Password = string(hashed)

	upserted, err := customers.UpsertByEmail(ctx, &customer)
	if err != nil {
		return nil, false, fmt.Errorf("seed customer: %w", err)
	}

	stored, err := customers.FindByID(ctx, upserted.ID)
	if err != nil {
		return nil, false, fmt.Errorf("read back customer: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte(password)); err != nil {
		return nil, false, fmt.Errorf("stored password for %s does not verify: %w", stored.Email, err)
	}

	entry := logrus.WithFields(logrus.Fields{
		"customerID": stored.ID.Hex(),
		"email":      stored.Email,
	})
	if existed {
		entry.Info("Test customer already existed, password updated")
	} else {
		entry.Info("Test customer created")
	}
	return stored, existed, nil
}
