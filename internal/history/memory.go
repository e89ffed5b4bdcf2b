package history

import (
	"sync"

	"github.com/truenorth-nav/truenorth/internal/model"
)

// Memory keeps the destination list in process memory only.
type Memory struct {
	mu           sync.Mutex
	destinations []model.Destination
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Load() ([]model.Destination, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Destination, len(m.destinations))
	copy(out, m.destinations)
	return out, nil
}

func (m *Memory) Save(destinations []model.Destination) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.destinations = make([]model.Destination, len(destinations))
	copy(m.destinations, destinations)
	return nil
}

func (m *Memory) Close() error {
	return nil
}
