package booking

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/example/carshare/internal/models"
	"github.com/example/carshare/internal/storage"
)

func newBooking(t *testing.T, store storage.Store) string {
	t.Helper()
	id, err := store.InsertBooking(context.Background(), &models.Booking{
		OwnerID:     "owner1",
		VehicleName: "Toyota Camry SE",
		RenterName:  "Alice",
		Status:      models.StatusNeedsApproval,
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	return id
}

var codePattern = regexp.MustCompile(`^[0-9A-Z]{6}$`)

func TestApproveSetsStatusAndCode(t *testing.T) {
	store := storage.NewMemoryStore()
	id := newBooking(t, store)
	eng := NewEngine(store, nil, nil)

	if err := eng.Approve(context.Background(), id); err != nil {
		t.Fatalf("approve: %v", err)
	}
	b, err := store.GetBooking(context.Background(), id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if b.Status != models.StatusApproved {
		t.Fatalf("expected Approved, got %s", b.Status)
	}
	if !codePattern.MatchString(b.ConfirmationCode) {
		t.Fatalf("expected 6-char uppercase alphanumeric code, got %q", b.ConfirmationCode)
	}
}

func TestDeclineSetsStatusWithoutCode(t *testing.T) {
	store := storage.NewMemoryStore()
	id := newBooking(t, store)
	eng := NewEngine(store, nil, nil)

	if err := eng.Decline(context.Background(), id); err != nil {
		t.Fatalf("decline: %v", err)
	}
	b, _ := store.GetBooking(context.Background(), id)
	if b.Status != models.StatusDeclined {
		t.Fatalf("expected Declined, got %s", b.Status)
	}
	if b.ConfirmationCode != "" {
		t.Fatalf("decline must not set a confirmation code, got %q", b.ConfirmationCode)
	}
}

func TestTransitionFromTerminalStateFails(t *testing.T) {
	store := storage.NewMemoryStore()
	id := newBooking(t, store)
	eng := NewEngine(store, nil, nil)

	if err := eng.Approve(context.Background(), id); err != nil {
		t.Fatalf("approve: %v", err)
	}
	err := eng.Decline(context.Background(), id)
	var terr *TransitionError
	if !errors.As(err, &terr) {
		t.Fatalf("expected TransitionError, got %v", err)
	}
	if !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("expected conflict cause, got %v", err)
	}
}

func TestTransitionUnknownBooking(t *testing.T) {
	eng := NewEngine(storage.NewMemoryStore(), nil, nil)
	err := eng.Approve(context.Background(), "missing")
	var terr *TransitionError
	if !errors.As(err, &terr) {
		t.Fatalf("expected TransitionError, got %v", err)
	}
}

func TestConfirmationCodesAreFresh(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code := NewConfirmationCode()
		if !codePattern.MatchString(code) {
			t.Fatalf("bad code %q", code)
		}
		if seen[code] {
			t.Fatalf("code %q repeated within 200 draws", code)
		}
		seen[code] = true
	}
}

func TestCanTransitionTable(t *testing.T) {
	cases := []struct {
		from, to models.BookingStatus
		want     bool
	}{
		{models.StatusNeedsApproval, models.StatusApproved, true},
		{models.StatusNeedsApproval, models.StatusDeclined, true},
		{models.StatusApproved, models.StatusDeclined, false},
		{models.StatusApproved, models.StatusNeedsApproval, false},
		{models.StatusDeclined, models.StatusApproved, false},
		{models.StatusNeedsApproval, models.StatusNeedsApproval, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Fatalf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}
