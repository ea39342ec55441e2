// Package catalogue fetches and caches the list of reciters exposed by the
// quranicaudio API.
package catalogue

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/qurandl/qurandl/internal/domain"
	"github.com/qurandl/qurandl/internal/infra/logger"
)

// Client fetches the reciter catalogue and keeps it cached in memory for a
// TTL. The client is the sole owner of the cache; refreshes swap the whole
// slice under the lock so readers never observe a partial update.
type Client struct {
	baseURL string
	ttl     time.Duration
	httpc   *http.Client
	log     *logger.Logger

	// injectable clock for TTL tests
	now func() time.Time

	mu        sync.RWMutex
	cached    []domain.Reciter
	fetchedAt time.Time
}

func NewClient(baseURL string, ttl time.Duration, httpc *http.Client, log *logger.Logger) *Client {
	if httpc == nil {
		httpc = http.DefaultClient
	}
	return &Client{
		baseURL: baseURL,
		ttl:     ttl,
		httpc:   httpc,
		log:     log,
		now:     time.Now,
	}
}

// Reciters returns the catalogue, fetching it from upstream when the cache
// is empty, expired, or forceRefresh is set.
func (c *Client) Reciters(ctx context.Context, forceRefresh bool) ([]domain.Reciter, error) {
	if !forceRefresh {
		c.mu.RLock()
		if c.cached != nil && c.now().Sub(c.fetchedAt) < c.ttl {
			cached := c.cached
			c.mu.RUnlock()
			return cached, nil
		}
		c.mu.RUnlock()
	}

	reciters, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cached = reciters
	c.fetchedAt = c.now()
	c.mu.Unlock()

	return reciters, nil
}

// ResolveByName finds a reciter by case-insensitive exact name match,
// fetching the catalogue first if it is not cached yet.
func (c *Client) ResolveByName(ctx context.Context, name string) (domain.Reciter, error) {
	reciters, err := c.Reciters(ctx, false)
	if err != nil {
		return domain.Reciter{}, err
	}

	for _, r := range reciters {
		if strings.EqualFold(r.Name, name) {
			return r, nil
		}
	}

	return domain.Reciter{}, fmt.Errorf("%w: %q", domain.ErrReciterNotFound, name)
}

func (c *Client) fetch(ctx context.Context) ([]domain.Reciter, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", domain.ErrUpstreamUnavailable, resp.StatusCode)
	}

	var reciters []domain.Reciter
	if err := json.NewDecoder(resp.Body).Decode(&reciters); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}

	sort.Slice(reciters, func(i, j int) bool {
		return strings.ToLower(reciters[i].Name) < strings.ToLower(reciters[j].Name)
	})

	c.log.Debug("fetched catalogue: %d reciters", len(reciters))

	return reciters, nil
}
