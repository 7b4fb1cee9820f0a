package listing

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/example/carshare/internal/models"
	"github.com/example/carshare/internal/observability"
	"github.com/example/carshare/internal/storage"
)

const maxLicensePlateLen = 8

// ValidationError reports the first listing field that fails the
// submission invariant. Non-fatal: the owner fixes the draft and
// retries.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid listing field %s: %s", e.Field, e.Reason)
}

// PersistenceError wraps a failed store write. Recoverable by a
// user-initiated retry; no automatic retry is attempted.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string { return "listing write failed: " + e.Err.Error() }
func (e *PersistenceError) Unwrap() error { return e.Err }

// Publisher validates composed listing drafts and persists them.
// Publishing is not idempotent: the same draft submitted twice creates
// two listings.
type Publisher struct {
	Store  storage.Store
	Logger *slog.Logger
}

func NewPublisher(store storage.Store, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{Store: store, Logger: logger}
}

// Validate is the pure submission predicate over the draft. Coordinates
// may be nil (geocoding fallback is non-fatal); everything else must be
// present, the price a non-negative decimal, the plate short and
// uppercase.
func Validate(d *models.ListingDraft) error {
	required := []struct{ field, value string }{
		{"vehicle_name", d.VehicleName},
		{"photo_url", d.PhotoURL},
		{"seating_capacity", d.SeatingCapacity},
		{"horsepower", d.Horsepower},
		{"acceleration", d.Acceleration},
		{"license_plate", d.LicensePlate},
		{"rental_price", d.RentalPrice},
		{"pickup_location", d.PickupLocation},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &ValidationError{Field: r.field, Reason: "required"}
		}
	}
	if len(d.LicensePlate) > maxLicensePlateLen {
		return &ValidationError{Field: "license_plate", Reason: "longer than 8 characters"}
	}
	if d.LicensePlate != strings.ToUpper(d.LicensePlate) {
		return &ValidationError{Field: "license_plate", Reason: "must be uppercase"}
	}
	price, err := strconv.ParseFloat(d.RentalPrice, 64)
	if err != nil {
		return &ValidationError{Field: "rental_price", Reason: "not a decimal number"}
	}
	if price < 0 {
		return &ValidationError{Field: "rental_price", Reason: "negative"}
	}
	return nil
}

// Publish validates the draft and writes it as a new listing owned by
// the given identity, returning the durable id.
func (p *Publisher) Publish(ctx context.Context, draft *models.ListingDraft, owner models.OwnerIdentity) (string, error) {
	if err := Validate(draft); err != nil {
		return "", err
	}
	l := &models.Listing{
		ListingDraft:  *draft,
		OwnerIdentity: owner,
		CreatedAt:     time.Now(),
	}
	id, err := p.Store.InsertListing(ctx, l)
	if err != nil {
		return "", &PersistenceError{Err: err}
	}
	observability.ListingsPublished.Inc()
	p.Logger.Info("listing published", "listing_id", id, "owner_id", owner.ID, "city", draft.City)
	return id, nil
}
