package httpapi

import (
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/example/carshare/internal/models"
)

var upgrader = websocket.Upgrader{}

// wsSession serializes writes to one owner connection; feed deliveries
// and control frames would otherwise race on the conn.
type wsSession struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *wsSession) sendSnapshot(bookings []models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(bookings)
}

// handleBookingFeed upgrades the connection and streams booking
// snapshots for one owner until the client goes away. The feed
// subscription is scoped to the connection: whatever path ends the
// read loop, the deferred Cancel releases the live channel exactly
// once.
func (s *Server) handleBookingFeed(w http.ResponseWriter, r *http.Request) {
	ownerID := mux.Vars(r)["owner_id"]
	if ownerID == "" {
		http.Error(w, "owner_id required", http.StatusBadRequest)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "upgrade failed", http.StatusBadRequest)
		return
	}
	defer conn.Close()

	session := &wsSession{conn: conn}
	sub := s.Feed.Subscribe(ownerID, func(snapshot []models.Booking) {
		if err := session.sendSnapshot(snapshot); err != nil {
			s.logger.Warn("feed write failed", "owner_id", ownerID, "error", err)
		}
	})
	defer sub.Cancel()

	s.logger.Info("booking feed opened", "owner_id", ownerID)
	for {
		// the shell never sends data; the read loop just watches for
		// close/error so teardown can run
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	s.logger.Info("booking feed closed", "owner_id", ownerID)
}
