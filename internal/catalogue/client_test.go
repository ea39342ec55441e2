package catalogue

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/qurandl/qurandl/internal/domain"
	"github.com/qurandl/qurandl/internal/infra/logger"
)

const cataloguePayload = `[
	{"id": "zulfiqar", "name": "Zulfiqar Ali", "language": "ar"},
	{"id": "test1", "name": "Test Reciter 1", "language": "en"},
	{"id": "abdul", "name": "abdul Basit", "language": "ar"}
]`

func newTestClient(t *testing.T, handler http.HandlerFunc, ttl time.Duration) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, ttl, srv.Client(), logger.Discard()), srv
}

func TestRecitersSortedCaseInsensitive(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(cataloguePayload))
	}, time.Hour)

	reciters, err := c.Reciters(context.Background(), false)
	if err != nil {
		t.Fatalf("Reciters returned error: %v", err)
	}

	want := []string{"abdul Basit", "Test Reciter 1", "Zulfiqar Ali"}
	if len(reciters) != len(want) {
		t.Fatalf("got %d reciters, want %d", len(reciters), len(want))
	}
	for i, name := range want {
		if reciters[i].Name != name {
			t.Errorf("reciters[%d].Name = %q, want %q", i, reciters[i].Name, name)
		}
	}
}

func TestRecitersCachedWithinTTL(t *testing.T) {
	var hits atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(cataloguePayload))
	}, time.Hour)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := c.Reciters(ctx, false); err != nil {
			t.Fatalf("Reciters call %d: %v", i, err)
		}
	}

	if got := hits.Load(); got != 1 {
		t.Errorf("upstream hit %d times, want 1", got)
	}

	// Force refresh bypasses the cache.
	if _, err := c.Reciters(ctx, true); err != nil {
		t.Fatalf("forced refresh: %v", err)
	}
	if got := hits.Load(); got != 2 {
		t.Errorf("upstream hit %d times after force refresh, want 2", got)
	}
}

func TestRecitersExpiredTTLRefetches(t *testing.T) {
	var hits atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(cataloguePayload))
	}, time.Hour)

	current := time.Now()
	c.now = func() time.Time { return current }

	ctx := context.Background()
	if _, err := c.Reciters(ctx, false); err != nil {
		t.Fatal(err)
	}

	current = current.Add(2 * time.Hour)
	if _, err := c.Reciters(ctx, false); err != nil {
		t.Fatal(err)
	}

	if got := hits.Load(); got != 2 {
		t.Errorf("upstream hit %d times across TTL expiry, want 2", got)
	}
}

func TestRecitersUpstreamErrors(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}, time.Hour)

	_, err := c.Reciters(context.Background(), false)
	if !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Errorf("got %v, want ErrUpstreamUnavailable", err)
	}
}

func TestRecitersMalformedBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not": "a list"}`))
	}, time.Hour)

	_, err := c.Reciters(context.Background(), false)
	if !errors.Is(err, domain.ErrMalformedResponse) {
		t.Errorf("got %v, want ErrMalformedResponse", err)
	}
}

func TestResolveByName(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(cataloguePayload))
	}, time.Hour)

	ctx := context.Background()

	rec, err := c.ResolveByName(ctx, "test reciter 1")
	if err != nil {
		t.Fatalf("ResolveByName returned error: %v", err)
	}
	if rec.ID != "test1" {
		t.Errorf("resolved ID = %q, want %q", rec.ID, "test1")
	}

	if _, err := c.ResolveByName(ctx, "nobody"); !errors.Is(err, domain.ErrReciterNotFound) {
		t.Errorf("got %v, want ErrReciterNotFound", err)
	}
}
