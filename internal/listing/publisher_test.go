package listing

import (
	"context"
	"errors"
	"testing"

	"github.com/example/carshare/internal/models"
	"github.com/example/carshare/internal/storage"
)

func validDraft() *models.ListingDraft {
	return &models.ListingDraft{
		VehicleName:     "Toyota Camry SE",
		PhotoURL:        "https://img.example/camry.jpg",
		SeatingCapacity: "5",
		Horsepower:      "203",
		Acceleration:    "7.6",
		LicensePlate:    "ABC1234",
		RentalPrice:     "150.00",
		PickupLocation:  "160 Kendal Ave, Toronto",
	}
}

func owner() models.OwnerIdentity {
	return models.OwnerIdentity{ID: "owner1", Email: "o@example.com", Name: "Owner", PhotoURL: "p"}
}

func TestPublishValidDraftWithNilCoordinates(t *testing.T) {
	p := NewPublisher(storage.NewMemoryStore(), nil)
	d := validDraft() // Latitude/Longitude deliberately nil
	id, err := p.Publish(context.Background(), d, owner())
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if id == "" {
		t.Fatal("expected a non-empty id")
	}
}

func TestPublishMissingFields(t *testing.T) {
	p := NewPublisher(storage.NewMemoryStore(), nil)

	mutations := map[string]func(*models.ListingDraft){
		"vehicle_name":     func(d *models.ListingDraft) { d.VehicleName = "" },
		"photo_url":        func(d *models.ListingDraft) { d.PhotoURL = "" },
		"seating_capacity": func(d *models.ListingDraft) { d.SeatingCapacity = "" },
		"horsepower":       func(d *models.ListingDraft) { d.Horsepower = " " },
		"acceleration":     func(d *models.ListingDraft) { d.Acceleration = "" },
		"license_plate":    func(d *models.ListingDraft) { d.LicensePlate = "" },
		"rental_price":     func(d *models.ListingDraft) { d.RentalPrice = "" },
		"pickup_location":  func(d *models.ListingDraft) { d.PickupLocation = "" },
	}
	for field, mutate := range mutations {
		d := validDraft()
		mutate(d)
		_, err := p.Publish(context.Background(), d, owner())
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("%s: expected ValidationError, got %v", field, err)
		}
		if verr.Field != field {
			t.Fatalf("expected field %s, got %s", field, verr.Field)
		}
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*models.ListingDraft)
	}{
		{"long plate", func(d *models.ListingDraft) { d.LicensePlate = "ABCD12345" }},
		{"lowercase plate", func(d *models.ListingDraft) { d.LicensePlate = "abc1234" }},
		{"non-numeric price", func(d *models.ListingDraft) { d.RentalPrice = "cheap" }},
		{"negative price", func(d *models.ListingDraft) { d.RentalPrice = "-5" }},
	}
	for _, tc := range cases {
		d := validDraft()
		tc.mutate(d)
		if err := Validate(d); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
}

type failingStore struct {
	storage.Store
}

func (f *failingStore) InsertListing(ctx context.Context, l *models.Listing) (string, error) {
	return "", errors.New("connection refused")
}

func TestPublishStoreFailure(t *testing.T) {
	p := NewPublisher(&failingStore{Store: storage.NewMemoryStore()}, nil)
	_, err := p.Publish(context.Background(), validDraft(), owner())
	var perr *PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
}

func TestPublishNotIdempotent(t *testing.T) {
	p := NewPublisher(storage.NewMemoryStore(), nil)
	d := validDraft()
	id1, err := p.Publish(context.Background(), d, owner())
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	id2, err := p.Publish(context.Background(), d, owner())
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if id1 == id2 {
		t.Fatal("expected two distinct listings for a double submission")
	}
}
