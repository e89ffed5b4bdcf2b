package places

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
)

func TestClient_Search(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/search" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "central park" {
			t.Errorf("q = %q, want %q", got, "central park")
		}
		w.Write([]byte(`[
			{"id":"p1","address":"Central Park, New York, NY"},
			{"id":"p2","address":"Central Park Zoo, New York, NY"}
		]`))
	}))
	defer srv.Close()

	c := New(srv.URL, 10, zerolog.Nop())

	candidates, err := c.Search(context.Background(), "central park")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("got %d candidates, want 2", len(candidates))
	}
	if candidates[0].ID != "p1" {
		t.Errorf("first candidate = %+v", candidates[0])
	}

	// Second identical query comes from the cache.
	if _, err := c.Search(context.Background(), "central park"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hits.Load() != 1 {
		t.Errorf("expected 1 provider hit, got %d", hits.Load())
	}
}

func TestClient_SearchTruncatesCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"1"},{"id":"2"},{"id":"3"}]`))
	}))
	defer srv.Close()

	c := New(srv.URL, 2, zerolog.Nop())
	candidates, err := c.Search(context.Background(), "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 2 {
		t.Errorf("got %d candidates, want 2", len(candidates))
	}
}

func TestClient_Resolve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/place/p1" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{"address":"Central Park, New York, NY","latitude":40.7829,"longitude":-73.9654}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 10, zerolog.Nop())
	d, err := c.Resolve(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.DisplayName != "Central Park" {
		t.Errorf("DisplayName = %q, want Central Park", d.DisplayName)
	}
	if d.Coordinate.Latitude != 40.7829 {
		t.Errorf("latitude = %f", d.Coordinate.Latitude)
	}
}

func TestClient_ResolveFailureYieldsNoDestination(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL, 10, zerolog.Nop())
	if _, err := c.Resolve(context.Background(), "missing"); err == nil {
		t.Error("expected error for unresolvable candidate")
	}
}
