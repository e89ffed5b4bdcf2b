// Package places talks to the place-search collaborator: free-text queries
// return candidate destinations, and a candidate can be resolved into a full
// Destination. Errors yield "no destination resolved", never a crash.
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/truenorth-nav/truenorth/internal/cache"
	"github.com/truenorth-nav/truenorth/internal/model"
)

// Searcher is the place-search provider contract consumed by the session.
type Searcher interface {
	Search(ctx context.Context, query string) ([]cache.Candidate, error)
	Resolve(ctx context.Context, id string) (model.Destination, error)
}

// Client is an HTTP Searcher with a candidate cache in front of the
// provider.
type Client struct {
	baseURL       string
	maxCandidates int
	httpClient    *http.Client
	cache         *cache.PlaceCache
	log           zerolog.Logger
}

// New creates a new place-search client.
func New(baseURL string, maxCandidates int, log zerolog.Logger) *Client {
	return &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		maxCandidates: maxCandidates,
		httpClient:    &http.Client{Timeout: 10 * time.Second},
		cache:         cache.NewPlaceCache(),
		log:           log,
	}
}

type resolveResponse struct {
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Search returns candidate destinations for a free-text query.
func (c *Client) Search(ctx context.Context, query string) ([]cache.Candidate, error) {
	if cs, ok := c.cache.GetCandidates(query); ok {
		return cs, nil
	}

	u := fmt.Sprintf("%s/search?q=%s", c.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("place search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("place search returned status %d", resp.StatusCode)
	}

	var candidates []cache.Candidate
	if err := json.NewDecoder(resp.Body).Decode(&candidates); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	if c.maxCandidates > 0 && len(candidates) > c.maxCandidates {
		candidates = candidates[:c.maxCandidates]
	}

	c.cache.AddCandidates(query, candidates)
	return candidates, nil
}

// Resolve turns a candidate ID into a full Destination.
func (c *Client) Resolve(ctx context.Context, id string) (model.Destination, error) {
	if d, ok := c.cache.GetResolved(id); ok {
		return d, nil
	}

	u := fmt.Sprintf("%s/place/%s", c.baseURL, url.PathEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return model.Destination{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.Destination{}, fmt.Errorf("place resolve request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.Destination{}, fmt.Errorf("place resolve returned status %d", resp.StatusCode)
	}

	var body resolveResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return model.Destination{}, fmt.Errorf("failed to decode resolve response: %w", err)
	}

	d := model.NewDestination(body.Address, model.Coordinate{
		Latitude:  body.Latitude,
		Longitude: body.Longitude,
	})
	c.cache.AddResolved(id, d)
	return d, nil
}
