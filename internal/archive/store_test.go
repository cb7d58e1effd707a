package archive

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/kzfr/show-picker/internal/apperrors"
	"github.com/kzfr/show-picker/internal/models"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	loc, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)

	store, err := OpenStore(filepath.Join(t.TempDir(), "snapshot.db"), loc)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestLoadWithoutSnapshot(t *testing.T) {
	store := testStore(t)

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := testStore(t)
	loc := store.loc

	summary := "An hour of jazz."
	image := "https://images.example/jazz.png"
	size := int64(123456789)
	url := "https://media.example/jazz-hour/jazz-hour_2023-07-20_17-00-00.mp3"

	start := time.Date(2023, 7, 20, 17, 0, 0, 0, loc)
	snap := &Snapshot{
		Titles: []string{"Blues Break", "Jazz Hour"},
		Episodes: []models.Episode{
			{
				ID:            "101",
				Start:         start,
				End:           start.Add(time.Hour),
				Title:         "Jazz Hour",
				Name:          "jazz-hour",
				Summary:       &summary,
				ImageURL:      &image,
				Filesize:      &size,
				URL:           &url,
				StartReadable: "07/20/2023 @ 05:00 PM",
			},
			{
				ID:            "102",
				Start:         start.AddDate(0, 0, 7),
				End:           start.AddDate(0, 0, 7).Add(time.Hour),
				Title:         "Jazz Hour",
				Name:          "jazz-hour",
				StartReadable: "07/27/2023 @ 05:00 PM",
			},
		},
		FetchedAt: time.Now(),
	}

	require.NoError(t, store.Save(snap))

	loaded, err := store.Load()
	require.NoError(t, err)

	assert.Equal(t, snap.Titles, loaded.Titles)
	require.Len(t, loaded.Episodes, 2)

	first := loaded.Episodes[0]
	assert.Equal(t, "101", first.ID)
	assert.True(t, first.Start.Equal(start))
	assert.Equal(t, "07/20/2023 @ 05:00 PM", first.StartReadable)
	assert.Equal(t, first.Start.Format("01/02/2006 @ 03:04 PM"), first.StartReadable)
	require.NotNil(t, first.Summary)
	assert.Equal(t, summary, *first.Summary)
	require.NotNil(t, first.Filesize)
	assert.Equal(t, size, *first.Filesize)
	require.NotNil(t, first.URL)
	assert.Equal(t, url, *first.URL)

	// Optional fields left nil stay nil through the round trip
	second := loaded.Episodes[1]
	assert.Nil(t, second.Summary)
	assert.Nil(t, second.Description)
	assert.Nil(t, second.ImageURL)
	assert.Nil(t, second.Filesize)
	assert.Nil(t, second.URL)
}

func TestSaveReplacesPreviousSnapshot(t *testing.T) {
	store := testStore(t)
	start := time.Date(2023, 7, 20, 17, 0, 0, 0, store.loc)

	old := &Snapshot{
		Titles: []string{"Jazz Hour"},
		Episodes: []models.Episode{
			{ID: "101", Start: start, End: start.Add(time.Hour), Title: "Jazz Hour", Name: "jazz-hour", StartReadable: "07/20/2023 @ 05:00 PM"},
		},
		FetchedAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, store.Save(old))

	replacement := &Snapshot{
		Titles:    []string{"Blues Break"},
		FetchedAt: time.Now(),
	}
	require.NoError(t, store.Save(replacement))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"Blues Break"}, loaded.Titles)
	assert.Empty(t, loaded.Episodes)
}

// A fresh process with an unreachable archive falls back to the persisted
// snapshot.
func TestCacheFallsBackToPersistedSnapshot(t *testing.T) {
	store := testStore(t)
	start := time.Date(2023, 7, 20, 17, 0, 0, 0, store.loc)

	saved := &Snapshot{
		Titles: []string{"Jazz Hour"},
		Episodes: []models.Episode{
			{ID: "101", Start: start, End: start.Add(time.Hour), Title: "Jazz Hour", Name: "jazz-hour", StartReadable: "07/20/2023 @ 05:00 PM"},
		},
		FetchedAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, store.Save(saved))

	fetch := func(context.Context) ([]string, []models.Episode, error) {
		return nil, nil, apperrors.Transport("Could not reach the show archive")
	}
	c := NewCache(fetch, store, 15*time.Minute)

	snap, err := c.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Jazz Hour"}, snap.Titles)
	require.Len(t, snap.Episodes, 1)
	assert.Equal(t, "101", snap.Episodes[0].ID)
}
