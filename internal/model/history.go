package model

// DefaultHistoryLimit is the maximum number of recent destinations kept.
const DefaultHistoryLimit = 5

// History is a bounded most-recent-first list of destinations, de-duplicated
// by address: re-selecting an existing entry moves it to the front instead of
// duplicating it.
type History struct {
	limit   int
	entries []Destination
}

// NewHistory creates an empty history with the given capacity. A non-positive
// limit falls back to DefaultHistoryLimit.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit}
}

// Push inserts d at the front, removing any existing entry with the same
// address first and truncating to the capacity.
func (h *History) Push(d Destination) {
	kept := make([]Destination, 0, len(h.entries)+1)
	kept = append(kept, d)
	for _, e := range h.entries {
		if e.Address == d.Address {
			continue
		}
		kept = append(kept, e)
	}
	if len(kept) > h.limit {
		kept = kept[:h.limit]
	}
	h.entries = kept
}

// Entries returns a copy of the history, most recent first.
func (h *History) Entries() []Destination {
	out := make([]Destination, len(h.entries))
	copy(out, h.entries)
	return out
}

// Replace overwrites the history with the given entries, applying the same
// de-duplication and bound. Used when loading from the persistent store.
func (h *History) Replace(entries []Destination) {
	h.entries = h.entries[:0]
	for i := len(entries) - 1; i >= 0; i-- {
		h.Push(entries[i])
	}
}

// Len returns the number of entries.
func (h *History) Len() int {
	return len(h.entries)
}
