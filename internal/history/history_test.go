package history

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/truenorth-nav/truenorth/internal/model"
)

func testDestinations() []model.Destination {
	return []model.Destination{
		model.NewDestination("1 Main St, Springfield", model.Coordinate{Latitude: 40.1, Longitude: -88.2}),
		model.NewDestination("Lighthouse Point, Marin", model.Coordinate{Latitude: 37.8, Longitude: -122.5}),
	}
}

func TestMemoryRoundTrip(t *testing.T) {
	store := NewMemory()
	defer store.Close()

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, loaded)

	want := testDestinations()
	require.NoError(t, store.Save(want))

	loaded, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, want, loaded)

	// Load must return a copy, not the backing slice.
	loaded[0].Address = "mutated"
	again, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, want, again)
}

func TestSqliteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := NewSqlite(path, zerolog.Nop())
	require.NoError(t, err)
	defer store.Close()

	want := testDestinations()
	require.NoError(t, store.Save(want))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, want, loaded)
}

func TestSqliteSaveReplacesList(t *testing.T) {
	store, err := NewSqlite("", zerolog.Nop())
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Save(testDestinations()))

	want := []model.Destination{
		model.NewDestination("Pier 39, San Francisco", model.Coordinate{Latitude: 37.81, Longitude: -122.41}),
	}
	require.NoError(t, store.Save(want))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, want, loaded)
}

func TestSqliteLoadOrdersByRank(t *testing.T) {
	store, err := NewSqlite("", zerolog.Nop())
	require.NoError(t, err)
	defer store.Close()

	want := []model.Destination{
		model.NewDestination("C, Third", model.Coordinate{Latitude: 3, Longitude: 3}),
		model.NewDestination("B, Second", model.Coordinate{Latitude: 2, Longitude: 2}),
		model.NewDestination("A, First", model.Coordinate{Latitude: 1, Longitude: 1}),
	}
	require.NoError(t, store.Save(want))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, want, loaded)
}

func TestNewStoreUnknownType(t *testing.T) {
	_, err := NewStore("etcd", "", zerolog.Nop())
	assert.Error(t, err)
}
