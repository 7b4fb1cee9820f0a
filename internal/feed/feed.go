package feed

import (
	"context"
	"log/slog"
	"sync"

	"github.com/example/carshare/internal/models"
	"github.com/example/carshare/internal/observability"
	"github.com/example/carshare/internal/storage"
)

// Feed delivers live, owner-scoped snapshots of booking records. Each
// store change wakes the subscription, which re-queries the full
// snapshot and hands it to the callback. Deliveries run on a dedicated
// goroutine per subscription so callbacks never block the store's
// notification path; change signals are coalesced while a delivery is
// in flight, so a callback may observe several changes at once.
type Feed struct {
	Store  storage.Store
	Logger *slog.Logger
}

func New(store storage.Store, logger *slog.Logger) *Feed {
	if logger == nil {
		logger = slog.Default()
	}
	return &Feed{Store: store, Logger: logger}
}

// Subscription is the live channel handle. Cancel releases it; calling
// Cancel more than once is safe and releases exactly once.
type Subscription struct {
	once   sync.Once
	cancel func()
	done   chan struct{}
}

func (s *Subscription) Cancel() {
	s.once.Do(s.cancel)
}

// Done is closed once the delivery goroutine has exited.
func (s *Subscription) Done() <-chan struct{} { return s.done }

// Subscribe starts a live view over the owner's bookings. onUpdate is
// invoked with the initial snapshot and again after every upstream
// change, always with the full current snapshot.
func (f *Feed) Subscribe(ownerID string, onUpdate func([]models.Booking)) *Subscription {
	wake := make(chan struct{}, 1)
	stop := make(chan struct{})

	kick := func() {
		select {
		case wake <- struct{}{}:
		default:
		}
	}
	unwatch := f.Store.WatchBookings(ownerID, kick)
	kick() // initial snapshot

	sub := &Subscription{
		cancel: func() {
			unwatch()
			close(stop)
		},
		done: make(chan struct{}),
	}

	go func() {
		defer close(sub.done)
		for {
			select {
			case <-stop:
				return
			case <-wake:
			}
			snap, err := f.Store.BookingsByOwner(context.Background(), ownerID)
			if err != nil {
				f.Logger.Error("booking snapshot query failed", "owner_id", ownerID, "error", err)
				continue
			}
			observability.FeedDeliveries.Inc()
			onUpdate(snap)
		}
	}()
	return sub
}
