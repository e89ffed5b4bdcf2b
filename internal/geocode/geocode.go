// Package geocode talks to the reverse-geocoding collaborator: given a
// coordinate it asynchronously returns a locality label and elevation.
// Failures are non-fatal; the caller keeps the stale address.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Place is a resolved reverse-geocode result. Elevation is in meters, as
// delivered by the provider; callers convert to feet for display.
type Place struct {
	Locality        string  `json:"locality"`
	ElevationMeters float64 `json:"elevation"`
}

// Resolver resolves a coordinate to a place label and elevation.
type Resolver interface {
	Reverse(ctx context.Context, lat, lon float64) (Place, error)
}

// Client is an HTTP Resolver against the configured geocode server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// New creates a new geocode client.
func New(baseURL string, log zerolog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}
}

// Reverse resolves the coordinate. Network or decode errors are returned to
// the caller, which logs and retains the previous address.
func (c *Client) Reverse(ctx context.Context, lat, lon float64) (Place, error) {
	url := fmt.Sprintf("%s/reverse?lat=%f&lon=%f", c.baseURL, lat, lon)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Place{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Place{}, fmt.Errorf("reverse geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Place{}, fmt.Errorf("reverse geocode returned status %d", resp.StatusCode)
	}

	var place Place
	if err := json.NewDecoder(resp.Body).Decode(&place); err != nil {
		return Place{}, fmt.Errorf("failed to decode reverse geocode response: %w", err)
	}

	return place, nil
}
