package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/example/carshare/internal/models"
)

// ErrCatalogUnavailable is returned when the upstream feed cannot be
// fetched or decoded. Callers degrade to an empty catalog: every lookup
// misses until a later Load succeeds.
var ErrCatalogUnavailable = errors.New("vehicle catalog unavailable")

// feedEntry matches the upstream JSON feed. Only the fields we map into
// a VehicleSpec are decoded.
type feedEntry struct {
	Make         string  `json:"make"`
	Model        string  `json:"model"`
	Trim         string  `json:"trim"`
	SeatsMax     int     `json:"seats_max"`
	Horsepower   int     `json:"horsepower"`
	Acceleration float64 `json:"acceleration"`
	Images       []struct {
		URLFull string `json:"url_full"`
	} `json:"images"`
}

// Client fetches the static vehicle catalog over HTTP and answers
// case-insensitive (make, model) lookups against it. The feed is
// fetched once per session; feed order is preserved so duplicate
// entries resolve to the first match.
type Client struct {
	Endpoint string
	HTTP     *http.Client
	Cache    SnapshotCache // optional warm-start cache

	mu    sync.RWMutex
	specs []models.VehicleSpec
}

// SnapshotCache persists a decoded catalog snapshot between sessions.
// Failures are ignored; the cache is best-effort only.
type SnapshotCache interface {
	Get(ctx context.Context) ([]models.VehicleSpec, error)
	Set(ctx context.Context, specs []models.VehicleSpec) error
}

func NewClient(endpoint string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{Endpoint: endpoint, HTTP: &http.Client{Timeout: timeout}}
}

// Load fetches and decodes the full catalog. On failure the previously
// loaded specs (if any) are kept and ErrCatalogUnavailable is returned.
func (c *Client) Load(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return c.loadFromCache(ctx, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return c.loadFromCache(ctx, fmt.Errorf("status %d", resp.StatusCode))
	}

	var entries []feedEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return c.loadFromCache(ctx, err)
	}

	specs := make([]models.VehicleSpec, 0, len(entries))
	for _, e := range entries {
		s := models.VehicleSpec{
			Make:         e.Make,
			Model:        e.Model,
			Trim:         e.Trim,
			SeatCapacity: e.SeatsMax,
			Horsepower:   e.Horsepower,
			Acceleration: e.Acceleration,
		}
		if len(e.Images) > 0 {
			s.ImageURL = e.Images[0].URLFull
		}
		specs = append(specs, s)
	}

	c.mu.Lock()
	c.specs = specs
	c.mu.Unlock()

	if c.Cache != nil {
		_ = c.Cache.Set(ctx, specs)
	}
	return nil
}

// loadFromCache falls back to the snapshot cache after a failed fetch.
// The fetch error is reported either way so callers know the session is
// running on possibly stale data.
func (c *Client) loadFromCache(ctx context.Context, cause error) error {
	if c.Cache != nil {
		if specs, err := c.Cache.Get(ctx); err == nil && len(specs) > 0 {
			c.mu.Lock()
			c.specs = specs
			c.mu.Unlock()
		}
	}
	return fmt.Errorf("%w: %v", ErrCatalogUnavailable, cause)
}

// Lookup returns the first catalog entry matching make and model,
// compared case-insensitively. ok is false on a miss or when no catalog
// has been loaded.
func (c *Client) Lookup(makeName, model string) (models.VehicleSpec, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, s := range c.specs {
		if strings.EqualFold(s.Make, makeName) && strings.EqualFold(s.Model, model) {
			return s, true
		}
	}
	return models.VehicleSpec{}, false
}

// Len reports how many specs are currently loaded.
func (c *Client) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.specs)
}
