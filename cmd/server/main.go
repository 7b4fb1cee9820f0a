package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/example/carshare/internal/booking"
	"github.com/example/carshare/internal/catalog"
	"github.com/example/carshare/internal/config"
	"github.com/example/carshare/internal/feed"
	"github.com/example/carshare/internal/geocode"
	httpapi "github.com/example/carshare/internal/http"
	"github.com/example/carshare/internal/ingest"
	"github.com/example/carshare/internal/listing"
	"github.com/example/carshare/internal/logging"
	"github.com/example/carshare/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadServerConfig()
	logger := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// vehicle catalog: fetched once per session, with an optional redis
	// snapshot for warm starts; a failed load degrades to an empty
	// catalog rather than blocking startup
	cat := catalog.NewClient(cfg.CatalogURL, cfg.CatalogTimeout)
	if cfg.RedisAddr != "" {
		cat.Cache = catalog.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, "vehicle_catalog", 24*time.Hour)
	}
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), cfg.CatalogTimeout+time.Second)
	if err := cat.Load(loadCtx); err != nil {
		logger.Warn("vehicle catalog load failed, serving empty catalog", "error", err)
	} else {
		logger.Info("vehicle catalog loaded", "specs", cat.Len())
	}
	cancelLoad()

	resolver := geocode.NewResolver(
		geocode.NewHTTPGeocoder(cfg.GeocoderURL, cfg.GeocodeTimeout),
		geocode.NewCache(cfg.GeocodeCacheTTL),
	)

	var store storage.Store
	if cfg.PGDSN != "" {
		if cfg.RunMigrations {
			runMigrations(cfg.PGDSN, logger)
		}
		ps, err := storage.NewPostgresStore(cfg.PGDSN)
		if err != nil {
			logger.Error("postgres unavailable", "error", err)
			os.Exit(1)
		}
		defer ps.Close()
		store = ps
	} else {
		logger.Warn("PG_DSN not set, using in-memory store")
		store = storage.NewMemoryStore()
	}

	var events *ingest.EventProducer
	if len(cfg.KafkaBrokers) > 0 {
		events = ingest.NewEventProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer events.Close()
	}

	srv := httpapi.NewServer(
		cat,
		resolver,
		listing.NewPublisher(store, logger),
		booking.NewEngine(store, events, logger),
		feed.New(store, logger),
		store,
		logger,
	)

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      srv,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		logger.Info("carshare listening", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", "error", err)
	}
}

// runMigrations applies migrations/001_create_listings.sql when
// MIGRATE=true, mirroring local-development setup.
func runMigrations(dsn string, logger *slog.Logger) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		logger.Error("migration db open error", "error", err)
		return
	}
	defer db.Close()
	b, err := os.ReadFile(filepath.Join("migrations", "001_create_listings.sql"))
	if err != nil {
		logger.Error("migration read error", "error", err)
		return
	}
	if _, err := db.Exec(string(b)); err != nil {
		logger.Error("migration exec error", "error", err)
		return
	}
	logger.Info("migration applied", "file", "001_create_listings.sql")
}
