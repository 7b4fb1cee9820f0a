package storage

import (
	"sync"
	"time"

	"github.com/lib/pq"
)

// bookingsChannel is the NOTIFY channel the bookings trigger fires on;
// the payload is the owner id of the changed row.
const bookingsChannel = "bookings_changed"

// pgFeed fans LISTEN notifications out to registered per-owner
// watchers. One listener connection serves every subscription.
type pgFeed struct {
	listener *pq.Listener

	mu       sync.Mutex
	watchers map[string]map[int]func()
	nextID   int
	done     chan struct{}
	once     sync.Once
}

func newPGFeed(dsn string) *pgFeed {
	f := &pgFeed{
		watchers: make(map[string]map[int]func()),
		done:     make(chan struct{}),
	}
	f.listener = pq.NewListener(dsn, 500*time.Millisecond, 30*time.Second, nil)
	if err := f.listener.Listen(bookingsChannel); err == nil {
		go f.run()
	}
	return f
}

func (f *pgFeed) run() {
	for {
		select {
		case <-f.done:
			return
		case n := <-f.listener.Notify:
			if n == nil {
				// connection re-established; watchers may have missed
				// events, so wake all of them for a re-query
				f.notifyAll()
				continue
			}
			f.notifyOwner(n.Extra)
		case <-time.After(90 * time.Second):
			go f.listener.Ping()
		}
	}
}

func (f *pgFeed) notifyOwner(ownerID string) {
	f.mu.Lock()
	fns := make([]func(), 0, len(f.watchers[ownerID]))
	for _, fn := range f.watchers[ownerID] {
		fns = append(fns, fn)
	}
	f.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func (f *pgFeed) notifyAll() {
	f.mu.Lock()
	var fns []func()
	for _, m := range f.watchers {
		for _, fn := range m {
			fns = append(fns, fn)
		}
	}
	f.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func (f *pgFeed) watch(ownerID string, fn func()) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.watchers[ownerID] == nil {
		f.watchers[ownerID] = make(map[int]func())
	}
	id := f.nextID
	f.nextID++
	f.watchers[ownerID][id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.watchers[ownerID], id)
	}
}

func (f *pgFeed) close() {
	f.once.Do(func() {
		close(f.done)
		_ = f.listener.Close()
	})
}
