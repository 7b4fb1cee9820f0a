package geocode

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeGeocoder struct {
	coords     []Coordinate
	addrs      []Address
	forwardErr error
	reverseErr error

	forwardCalls int
}

func (f *fakeGeocoder) Forward(ctx context.Context, address string) ([]Coordinate, error) {
	f.forwardCalls++
	return f.coords, f.forwardErr
}

func (f *fakeGeocoder) Reverse(ctx context.Context, lat, lon float64) ([]Address, error) {
	return f.addrs, f.reverseErr
}

func TestResolveHappyPath(t *testing.T) {
	g := &fakeGeocoder{
		coords: []Coordinate{{Lat: 43.65, Lon: -79.38}, {Lat: 1, Lon: 2}},
		addrs:  []Address{{City: "Toronto"}, {City: "Elsewhere"}},
	}
	r := NewResolver(g, nil)
	loc := r.Resolve(context.Background(), "160 Kendal Ave, Toronto")
	if loc.Lat == nil || loc.Lon == nil {
		t.Fatal("expected coordinates")
	}
	if *loc.Lat != 43.65 || *loc.Lon != -79.38 {
		t.Fatalf("expected first candidate, got %f,%f", *loc.Lat, *loc.Lon)
	}
	if loc.City != "Toronto" {
		t.Fatalf("expected first reverse result's city, got %q", loc.City)
	}
}

func TestResolveNoCandidates(t *testing.T) {
	r := NewResolver(&fakeGeocoder{}, nil)
	loc := r.Resolve(context.Background(), "nowhere at all")
	if loc.Lat != nil || loc.Lon != nil || loc.City != "" {
		t.Fatalf("expected fallback, got %+v", loc)
	}
}

func TestResolveEmptyInput(t *testing.T) {
	g := &fakeGeocoder{coords: []Coordinate{{Lat: 1, Lon: 2}}}
	r := NewResolver(g, nil)
	loc := r.Resolve(context.Background(), "   ")
	if loc.Lat != nil || loc.City != "" {
		t.Fatalf("expected fallback, got %+v", loc)
	}
	if g.forwardCalls != 0 {
		t.Fatal("empty input must not hit the geocoder")
	}
}

func TestResolveForwardError(t *testing.T) {
	r := NewResolver(&fakeGeocoder{forwardErr: errors.New("boom")}, nil)
	loc := r.Resolve(context.Background(), "somewhere")
	if loc.Lat != nil || loc.Lon != nil || loc.City != "" {
		t.Fatalf("expected fallback, got %+v", loc)
	}
}

func TestResolveReverseErrorKeepsCoords(t *testing.T) {
	g := &fakeGeocoder{
		coords:     []Coordinate{{Lat: 5, Lon: 6}},
		reverseErr: errors.New("boom"),
	}
	loc := NewResolver(g, nil).Resolve(context.Background(), "somewhere")
	if loc.Lat == nil || *loc.Lat != 5 {
		t.Fatal("expected coordinates despite reverse failure")
	}
	if loc.City != "" {
		t.Fatalf("expected empty city, got %q", loc.City)
	}
}

func TestResolveReverseEmpty(t *testing.T) {
	g := &fakeGeocoder{coords: []Coordinate{{Lat: 5, Lon: 6}}}
	loc := NewResolver(g, nil).Resolve(context.Background(), "somewhere")
	if loc.City != "" {
		t.Fatalf("expected empty city, got %q", loc.City)
	}
}

func TestResolveUsesCache(t *testing.T) {
	g := &fakeGeocoder{
		coords: []Coordinate{{Lat: 1, Lon: 2}},
		addrs:  []Address{{City: "X"}},
	}
	r := NewResolver(g, NewCache(time.Minute))
	_ = r.Resolve(context.Background(), "Main St")
	loc := r.Resolve(context.Background(), "  main st ")
	if g.forwardCalls != 1 {
		t.Fatalf("expected one forward call, got %d", g.forwardCalls)
	}
	if loc.City != "X" {
		t.Fatalf("expected cached city, got %q", loc.City)
	}
}
