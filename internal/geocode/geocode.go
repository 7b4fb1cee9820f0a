package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Coordinate is a forward-geocoding candidate.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Address is a reverse-geocoding result. Only the city field matters to
// the resolver; the rest of the postal address is ignored.
type Address struct {
	City string `json:"city"`
}

// Geocoder is the two-operation contract offered by the external
// geocoding service. Both operations may return empty slices.
type Geocoder interface {
	Forward(ctx context.Context, address string) ([]Coordinate, error)
	Reverse(ctx context.Context, lat, lon float64) ([]Address, error)
}

// HTTPGeocoder talks to a geocoding HTTP service exposing /search and
// /reverse endpoints returning JSON arrays.
type HTTPGeocoder struct {
	Endpoint string
	Client   *http.Client
}

func NewHTTPGeocoder(endpoint string, timeout time.Duration) *HTTPGeocoder {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &HTTPGeocoder{Endpoint: endpoint, Client: &http.Client{Timeout: timeout}}
}

func (g *HTTPGeocoder) Forward(ctx context.Context, address string) ([]Coordinate, error) {
	u := fmt.Sprintf("%s/search?format=json&q=%s", g.Endpoint, url.QueryEscape(address))
	var out []Coordinate
	if err := g.getJSON(ctx, u, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *HTTPGeocoder) Reverse(ctx context.Context, lat, lon float64) ([]Address, error) {
	u := fmt.Sprintf("%s/reverse?format=json&lat=%.6f&lon=%.6f", g.Endpoint, lat, lon)
	var out []Address
	if err := g.getJSON(ctx, u, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *HTTPGeocoder) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := g.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("geocoder status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Location is the resolver's result. Lat/Lon are nil when resolution
// fell back; the caller proceeds with listing creation regardless.
type Location struct {
	Lat  *float64
	Lon  *float64
	City string
}

// Fallback is the defined non-error substitute when an address cannot
// be resolved.
func Fallback() Location { return Location{} }

// Resolver turns free-text addresses into coordinates and a city name.
// It never reports an error: any failure in either geocoding step
// degrades to the fallback Location.
type Resolver struct {
	Geo   Geocoder
	Cache *Cache // optional
}

func NewResolver(geo Geocoder, cache *Cache) *Resolver {
	return &Resolver{Geo: geo, Cache: cache}
}

// Resolve forward-geocodes the address, takes the first candidate in
// service order, then reverse-geocodes it for the city. Empty input,
// empty candidate lists and hard errors all yield the fallback.
func (r *Resolver) Resolve(ctx context.Context, address string) Location {
	address = strings.TrimSpace(address)
	if address == "" {
		return Fallback()
	}
	if r.Cache != nil {
		if loc, ok := r.Cache.Get(address); ok {
			return loc
		}
	}

	cands, err := r.Geo.Forward(ctx, address)
	if err != nil || len(cands) == 0 {
		return Fallback()
	}
	first := cands[0]

	city := ""
	if addrs, err := r.Geo.Reverse(ctx, first.Lat, first.Lon); err == nil && len(addrs) > 0 {
		city = addrs[0].City
	}

	loc := Location{Lat: &first.Lat, Lon: &first.Lon, City: city}
	if r.Cache != nil {
		r.Cache.Set(address, loc)
	}
	return loc
}
