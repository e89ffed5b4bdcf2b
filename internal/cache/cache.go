// Package cache caches place-search results so repeated queries and
// candidate resolution avoid round trips to the search provider. Latency in
// these calls matters for type-ahead search.
package cache

import (
	"sync"

	"github.com/truenorth-nav/truenorth/internal/model"
)

// Candidate is a place-search result that can be resolved to a Destination.
type Candidate struct {
	ID      string `json:"id"`
	Address string `json:"address"`
}

// PlaceCache caches search candidates by query and resolved destinations by
// candidate ID.
type PlaceCache struct {
	m          sync.Mutex
	candidates map[string][]Candidate
	resolved   map[string]model.Destination
}

// NewPlaceCache creates an empty PlaceCache.
func NewPlaceCache() *PlaceCache {
	return &PlaceCache{
		candidates: make(map[string][]Candidate),
		resolved:   make(map[string]model.Destination),
	}
}

// Reset drops all cached entries.
func (c *PlaceCache) Reset() {
	c.m.Lock()
	defer c.m.Unlock()
	c.candidates = make(map[string][]Candidate)
	c.resolved = make(map[string]model.Destination)
}

// GetCandidates returns the cached candidates for a query.
func (c *PlaceCache) GetCandidates(query string) ([]Candidate, bool) {
	c.m.Lock()
	defer c.m.Unlock()
	if cs, ok := c.candidates[query]; ok {
		return cs, true
	}
	return nil, false
}

// AddCandidates caches the candidates for a query.
func (c *PlaceCache) AddCandidates(query string, cs []Candidate) {
	c.m.Lock()
	defer c.m.Unlock()
	c.candidates[query] = cs
}

// GetResolved returns the cached destination for a candidate ID.
func (c *PlaceCache) GetResolved(id string) (model.Destination, bool) {
	c.m.Lock()
	defer c.m.Unlock()
	if d, ok := c.resolved[id]; ok {
		return d, true
	}
	return model.Destination{}, false
}

// AddResolved caches a resolved destination.
func (c *PlaceCache) AddResolved(id string, d model.Destination) {
	c.m.Lock()
	defer c.m.Unlock()
	c.resolved[id] = d
}
