package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/example/carshare/internal/models"
)

func TestTransitionBookingConditional(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	id, err := m.InsertBooking(ctx, &models.Booking{OwnerID: "o1", Status: models.StatusNeedsApproval})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	if err := m.TransitionBooking(ctx, id, models.StatusNeedsApproval, models.StatusApproved, "ABC123"); err != nil {
		t.Fatalf("transition: %v", err)
	}
	b, err := m.GetBooking(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if b.Status != models.StatusApproved || b.ConfirmationCode != "ABC123" {
		t.Fatalf("unexpected booking: %+v", b)
	}

	// terminal state: the precondition no longer holds
	err = m.TransitionBooking(ctx, id, models.StatusNeedsApproval, models.StatusDeclined, "")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	err = m.TransitionBooking(ctx, "missing", models.StatusNeedsApproval, models.StatusApproved, "X")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestWatchBookingsScopedToOwner(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	var o1Fires, o2Fires int
	cancel1 := m.WatchBookings("o1", func() { o1Fires++ })
	defer cancel1()
	cancel2 := m.WatchBookings("o2", func() { o2Fires++ })
	defer cancel2()

	if _, err := m.InsertBooking(ctx, &models.Booking{OwnerID: "o1", Status: models.StatusNeedsApproval}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if o1Fires != 1 || o2Fires != 0 {
		t.Fatalf("expected o1=1 o2=0, got o1=%d o2=%d", o1Fires, o2Fires)
	}

	if _, err := m.InsertBooking(ctx, &models.Booking{OwnerID: "o2", Status: models.StatusNeedsApproval}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if o1Fires != 1 || o2Fires != 1 {
		t.Fatalf("expected o1=1 o2=1, got o1=%d o2=%d", o1Fires, o2Fires)
	}

	cancel1()
	cancel1() // cancel is safe to call twice
	if _, err := m.InsertBooking(ctx, &models.Booking{OwnerID: "o1", Status: models.StatusNeedsApproval}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if o1Fires != 1 {
		t.Fatalf("expected no fire after cancel, got %d", o1Fires)
	}
}

func TestBookingsByOwnerFiltering(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	if _, err := m.InsertBooking(ctx, &models.Booking{OwnerID: "owner1", RenterName: "Alice", Status: models.StatusNeedsApproval}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := m.InsertBooking(ctx, &models.Booking{OwnerID: "owner2", RenterName: "Bob", Status: models.StatusNeedsApproval}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := m.BookingsByOwner(ctx, "owner1")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 1 || got[0].RenterName != "Alice" {
		t.Fatalf("unexpected snapshot: %+v", got)
	}
}
