// Package history persists the bounded recent-destination list. The list is
// loaded once at session start and written back on every mutation.
package history

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/truenorth-nav/truenorth/internal/model"
)

// Store is the recent-destination persistence contract.
type Store interface {
	// Load returns the stored destinations, most recent first.
	Load() ([]model.Destination, error)
	// Save replaces the stored list with the given destinations.
	Save(destinations []model.Destination) error
	Close() error
}

// NewStore creates a history store backend based on configuration.
func NewStore(storeType, path string, log zerolog.Logger) (Store, error) {
	switch storeType {
	case "memory":
		return NewMemory(), nil
	case "sqlite":
		return NewSqlite(path, log)
	default:
		return nil, fmt.Errorf("unknown history store type: %s", storeType)
	}
}
