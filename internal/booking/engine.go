package booking

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/carshare/internal/ingest"
	"github.com/example/carshare/internal/models"
	"github.com/example/carshare/internal/observability"
	"github.com/example/carshare/internal/storage"
)

// TransitionError reports a failed lifecycle transition, either because
// the booking was not in a state allowing it or because the store write
// failed. The owner retries; no automatic retry is built in.
type TransitionError struct {
	BookingID string
	To        models.BookingStatus
	Err       error
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("transition of booking %s to %s failed: %v", e.BookingID, e.To, e.Err)
}

func (e *TransitionError) Unwrap() error { return e.Err }

// Engine enforces the booking state machine. Each transition is a
// single conditional store update, so concurrent owners of the same
// session cannot double-approve: whichever write lands second sees the
// precondition fail. The live feed carries the result back out; the
// engine issues no explicit re-read after a write.
type Engine struct {
	Store  storage.Store
	Events *ingest.EventProducer // optional, best-effort
	Logger *slog.Logger
}

func NewEngine(store storage.Store, events *ingest.EventProducer, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{Store: store, Events: events, Logger: logger}
}

// Approve moves a booking from Needs Approval to Approved, attaching a
// freshly generated confirmation code.
func (e *Engine) Approve(ctx context.Context, bookingID string) error {
	code := NewConfirmationCode()
	return e.transition(ctx, bookingID, models.StatusApproved, code)
}

// Decline moves a booking from Needs Approval to Declined. No
// confirmation code is set.
func (e *Engine) Decline(ctx context.Context, bookingID string) error {
	return e.transition(ctx, bookingID, models.StatusDeclined, "")
}

func (e *Engine) transition(ctx context.Context, bookingID string, to models.BookingStatus, code string) error {
	if !CanTransition(models.StatusNeedsApproval, to) {
		return &TransitionError{BookingID: bookingID, To: to, Err: fmt.Errorf("no transition to %s", to)}
	}
	if err := e.Store.TransitionBooking(ctx, bookingID, models.StatusNeedsApproval, to, code); err != nil {
		return &TransitionError{BookingID: bookingID, To: to, Err: err}
	}
	observability.BookingTransitions.WithLabelValues(string(to)).Inc()
	e.Logger.Info("booking transitioned", "booking_id", bookingID, "status", to)

	if e.Events != nil {
		b, err := e.Store.GetBooking(ctx, bookingID)
		ownerID := ""
		if err == nil {
			ownerID = b.OwnerID
		}
		if err := e.Events.PublishBookingEvent(models.BookingEvent{
			BookingID: bookingID,
			OwnerID:   ownerID,
			Status:    to,
			At:        time.Now(),
		}); err != nil {
			e.Logger.Warn("booking event publish failed", "booking_id", bookingID, "error", err)
		}
	}
	return nil
}

const codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
const codeLength = 6

// NewConfirmationCode produces a fresh 6-character uppercase base-36
// token. Regenerated on every approval; collisions are not guarded
// against, matching the upstream store's existing codes.
func NewConfirmationCode() string {
	b := make([]byte, codeLength)
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = codeAlphabet[int(b[i])%len(codeAlphabet)]
	}
	return string(b)
}
