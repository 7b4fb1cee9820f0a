package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/example/carshare/internal/booking"
	"github.com/example/carshare/internal/feed"
	"github.com/example/carshare/internal/geocode"
	"github.com/example/carshare/internal/listing"
	"github.com/example/carshare/internal/models"
	"github.com/example/carshare/internal/observability"
	"github.com/example/carshare/internal/storage"
)

// Catalog is the lookup surface the handlers need from the catalog
// client.
type Catalog interface {
	Lookup(makeName, model string) (models.VehicleSpec, bool)
}

// Server wires the core components behind the HTTP/WebSocket surface
// consumed by the mobile shell.
type Server struct {
	Catalog   Catalog
	Resolver  *geocode.Resolver
	Publisher *listing.Publisher
	Engine    *booking.Engine
	Feed      *feed.Feed
	Store     storage.Store

	logger *slog.Logger
	mux    *mux.Router
}

func NewServer(cat Catalog, resolver *geocode.Resolver, pub *listing.Publisher, eng *booking.Engine, f *feed.Feed, store storage.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		Catalog:   cat,
		Resolver:  resolver,
		Publisher: pub,
		Engine:    eng,
		Feed:      f,
		Store:     store,
		logger:    logger,
		mux:       mux.NewRouter(),
	}
	s.registerMiddleware()
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/api/v1/vehicles/lookup", s.handleVehicleLookup).Methods("GET")
	s.mux.HandleFunc("/api/v1/listings", s.handleCreateListing).Methods("POST")
	s.mux.HandleFunc("/api/v1/bookings", s.handleListBookings).Methods("GET")
	s.mux.HandleFunc("/api/v1/bookings/{id}/approve", s.handleApprove).Methods("POST")
	s.mux.HandleFunc("/api/v1/bookings/{id}/decline", s.handleDecline).Methods("POST")
	s.mux.HandleFunc("/ws/bookings/{owner_id}", s.handleBookingFeed)
	s.mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) }).Methods("GET")
	s.mux.Handle("/metrics", promhttp.Handler())
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.mux.ServeHTTP(w, r) }

func (s *Server) handleVehicleLookup(w http.ResponseWriter, r *http.Request) {
	makeName := r.URL.Query().Get("make")
	model := r.URL.Query().Get("model")
	if makeName == "" || model == "" {
		http.Error(w, "make and model are required", http.StatusBadRequest)
		return
	}
	spec, ok := s.Catalog.Lookup(makeName, model)
	if !ok {
		observability.CatalogLookups.WithLabelValues("miss").Inc()
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no record found"})
		return
	}
	observability.CatalogLookups.WithLabelValues("hit").Inc()
	writeJSON(w, http.StatusOK, spec)
}

func (s *Server) handleCreateListing(w http.ResponseWriter, r *http.Request) {
	owner := ownerFromHeaders(r)
	if owner.ID == "" {
		http.Error(w, "missing owner identity", http.StatusBadRequest)
		return
	}
	var draft models.ListingDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// address resolution is a synchronous prerequisite of the publish;
	// a failed resolution degrades to null coordinates, never an error
	loc := s.Resolver.Resolve(r.Context(), draft.PickupLocation)
	if loc.Lat == nil {
		observability.GeocodeFallbacks.Inc()
	}
	draft.Latitude = loc.Lat
	draft.Longitude = loc.Lon
	draft.City = loc.City

	id, err := s.Publisher.Publish(r.Context(), &draft, owner)
	if err != nil {
		var verr *listing.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": verr.Error(), "field": verr.Field})
			return
		}
		s.logger.Error("publish failed", "owner_id", owner.ID, "error", err)
		http.Error(w, "listing could not be saved", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"listing_id": id})
}

func (s *Server) handleListBookings(w http.ResponseWriter, r *http.Request) {
	owner := ownerFromHeaders(r)
	if owner.ID == "" {
		http.Error(w, "missing owner identity", http.StatusBadRequest)
		return
	}
	bookings, err := s.Store.BookingsByOwner(r.Context(), owner.ID)
	if err != nil {
		s.logger.Error("bookings query failed", "owner_id", owner.ID, "error", err)
		http.Error(w, "bookings unavailable", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	s.handleTransition(w, r, s.Engine.Approve)
}

func (s *Server) handleDecline(w http.ResponseWriter, r *http.Request) {
	s.handleTransition(w, r, s.Engine.Decline)
}

func (s *Server) handleTransition(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id string) error) {
	id := mux.Vars(r)["id"]
	if err := op(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			http.Error(w, "booking not found", http.StatusNotFound)
		case errors.Is(err, storage.ErrConflict):
			http.Error(w, "booking already resolved", http.StatusConflict)
		default:
			s.logger.Error("booking transition failed", "booking_id", id, "error", err)
			http.Error(w, "transition failed", http.StatusInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func ownerFromHeaders(r *http.Request) models.OwnerIdentity {
	return models.OwnerIdentity{
		ID:       r.Header.Get("X-Owner-Id"),
		Email:    r.Header.Get("X-Owner-Email"),
		Name:     r.Header.Get("X-Owner-Name"),
		PhotoURL: r.Header.Get("X-Owner-Photo"),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
