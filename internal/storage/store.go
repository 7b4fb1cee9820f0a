package storage

import (
	"context"
	"errors"

	"github.com/example/carshare/internal/models"
)

var (
	// ErrNotFound means the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict means a conditional booking update matched no row
	// because the booking was not in the expected status.
	ErrConflict = errors.New("booking not in expected status")
)

// Store is the backing document store: listing inserts, owner-scoped
// booking reads, and atomic per-booking status updates. Bookings are
// created by the renter-facing flow; InsertBooking exists so that flow
// (and tests) can write through the same interface.
type Store interface {
	InsertListing(ctx context.Context, l *models.Listing) (string, error)

	InsertBooking(ctx context.Context, b *models.Booking) (string, error)
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	BookingsByOwner(ctx context.Context, ownerID string) ([]models.Booking, error)

	// TransitionBooking performs a single conditional update: the row
	// must currently be in from-status. code is persisted only when
	// non-empty. ErrConflict when the precondition fails.
	TransitionBooking(ctx context.Context, id string, from, to models.BookingStatus, code string) error

	// WatchBookings registers fn to run after every change to the
	// owner's bookings. The returned func unregisters; it is safe to
	// call more than once.
	WatchBookings(ownerID string, fn func()) (cancel func())
}
