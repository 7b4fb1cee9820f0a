package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/example/carshare/internal/models"
)

// MemoryStore is the in-process fallback store, used when no Postgres
// DSN is configured and throughout the tests.
type MemoryStore struct {
	mu       sync.RWMutex
	listings map[string]models.Listing
	bookings map[string]models.Booking

	watchMu  sync.Mutex
	watchers map[string]map[int]func() // ownerID -> watcher id -> fn
	nextID   int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		listings: make(map[string]models.Listing),
		bookings: make(map[string]models.Booking),
		watchers: make(map[string]map[int]func()),
	}
}

func (m *MemoryStore) InsertListing(ctx context.Context, l *models.Listing) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	m.listings[l.ID] = *l
	return l.ID, nil
}

func (m *MemoryStore) InsertBooking(ctx context.Context, b *models.Booking) (string, error) {
	m.mu.Lock()
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	m.bookings[b.ID] = *b
	m.mu.Unlock()
	m.notify(b.OwnerID)
	return b.ID, nil
}

func (m *MemoryStore) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &b, nil
}

func (m *MemoryStore) BookingsByOwner(ctx context.Context, ownerID string) ([]models.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Booking, 0)
	for _, b := range m.bookings {
		if b.OwnerID == ownerID {
			out = append(out, b)
		}
	}
	// map iteration order is random; keep deliveries deterministic
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) TransitionBooking(ctx context.Context, id string, from, to models.BookingStatus, code string) error {
	m.mu.Lock()
	b, ok := m.bookings[id]
	if !ok {
		m.mu.Unlock()
		return ErrNotFound
	}
	if b.Status != from {
		m.mu.Unlock()
		return ErrConflict
	}
	b.Status = to
	if code != "" {
		b.ConfirmationCode = code
	}
	m.bookings[id] = b
	owner := b.OwnerID
	m.mu.Unlock()
	m.notify(owner)
	return nil
}

func (m *MemoryStore) WatchBookings(ownerID string, fn func()) func() {
	m.watchMu.Lock()
	defer m.watchMu.Unlock()
	if m.watchers[ownerID] == nil {
		m.watchers[ownerID] = make(map[int]func())
	}
	id := m.nextID
	m.nextID++
	m.watchers[ownerID][id] = fn
	return func() {
		m.watchMu.Lock()
		defer m.watchMu.Unlock()
		delete(m.watchers[ownerID], id)
	}
}

func (m *MemoryStore) notify(ownerID string) {
	m.watchMu.Lock()
	fns := make([]func(), 0, len(m.watchers[ownerID]))
	for _, fn := range m.watchers[ownerID] {
		fns = append(fns, fn)
	}
	m.watchMu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
