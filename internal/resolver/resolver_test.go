package resolver

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/kzfr/show-picker/internal/apperrors"
	"github.com/kzfr/show-picker/internal/archive"
	"github.com/kzfr/show-picker/internal/models"
	"github.com/kzfr/show-picker/internal/overrides"
)

const testMediaBase = "https://media.example"

func strptr(s string) *string { return &s }
func i64ptr(v int64) *int64   { return &v }

func laZone(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)
	return loc
}

// fakeProber records probed URLs and answers with a fixed result.
type fakeProber struct {
	exists bool
	urls   []string
}

func (p *fakeProber) Probe(_ context.Context, url string) bool {
	p.urls = append(p.urls, url)
	return p.exists
}

func fixture(loc *time.Location) ([]string, []models.Episode) {
	titles := []string{
		"Empty Show",
		"Jazz Hour",
		"Philosophers on Culture!",
		"What's the Frequency, Kenneth?",
	}

	jazzStart := time.Date(2023, 7, 20, 17, 0, 0, 0, loc)
	jazzStart2 := time.Date(2023, 7, 27, 17, 0, 0, 0, loc)
	kennethStart := time.Date(2023, 11, 16, 17, 0, 0, 0, loc)

	episodes := []models.Episode{
		{
			ID:            "101",
			Start:         jazzStart,
			End:           jazzStart.Add(time.Hour),
			Title:         "Jazz Hour",
			Name:          "jazz-hour",
			Summary:       strptr("An hour of jazz."),
			ImageURL:      strptr("https://images.example/jazz.png"),
			Filesize:      i64ptr(123456789),
			URL:           strptr(testMediaBase + "/jazz-hour/jazz-hour_2023-07-20_17-00-00.mp3"),
			StartReadable: "07/20/2023 @ 05:00 PM",
		},
		{
			ID:            "102",
			Start:         jazzStart2,
			End:           jazzStart2.Add(time.Hour),
			Title:         "Jazz Hour",
			Name:          "jazz-hour",
			URL:           strptr(testMediaBase + "/jazz-hour/jazz-hour_2023-07-27_17-00-00.mp3"),
			StartReadable: "07/27/2023 @ 05:00 PM",
		},
		{
			ID:            "201",
			Start:         kennethStart,
			End:           kennethStart.Add(time.Hour),
			Title:         "What's the Frequency, Kenneth?",
			Name:          "whats-the-frequency-kenneth",
			Filesize:      i64ptr(555000),
			URL:           strptr(testMediaBase + "/whats-the-frequency-kenneth/whats-the-frequency-kenneth_2023-11-16_17-00-00.mp3"),
			StartReadable: "11/16/2023 @ 05:00 PM",
		},
	}

	return titles, episodes
}

func newTestResolver(t *testing.T, prober Prober) *Resolver {
	t.Helper()
	loc := laZone(t)
	titles, episodes := fixture(loc)

	cache := archive.NewCache(func(context.Context) ([]string, []models.Episode, error) {
		return titles, episodes, nil
	}, nil, time.Hour)

	table, err := overrides.Load()
	require.NoError(t, err)

	return New(cache, prober, table, testMediaBase, loc)
}

func TestResolveArchivedByReadableTime(t *testing.T) {
	prober := &fakeProber{}
	r := newTestResolver(t, prober)

	res, err := r.ResolveArchived(context.Background(), "Jazz Hour", "07/20/2023 @ 05:00 PM")
	require.NoError(t, err)

	assert.Equal(t, "101", res.ID)
	assert.Equal(t, SourceArchive, res.Source)
	assert.Equal(t, "Jazz Hour", res.Title)
	assert.Equal(t, "07/20/2023 @ 05:00 PM", res.TimeReadable)
	require.NotNil(t, res.AudioURL)
	assert.Equal(t, testMediaBase+"/jazz-hour/jazz-hour_2023-07-20_17-00-00.mp3", *res.AudioURL)

	// Archive mode never probes
	assert.Empty(t, prober.urls)
}

func TestResolveArchivedByCanonicalKey(t *testing.T) {
	r := newTestResolver(t, &fakeProber{})

	res, err := r.ResolveArchived(context.Background(), "Jazz Hour", "2023-07-20_17-00-00")
	require.NoError(t, err)
	assert.Equal(t, "101", res.ID)
}

func TestResolveArchivedDeterministic(t *testing.T) {
	r := newTestResolver(t, &fakeProber{})

	first, err := r.ResolveArchived(context.Background(), "Jazz Hour", "07/27/2023 @ 05:00 PM")
	require.NoError(t, err)
	second, err := r.ResolveArchived(context.Background(), "Jazz Hour", "07/27/2023 @ 05:00 PM")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestResolveArchivedEmptyShowTimes(t *testing.T) {
	r := newTestResolver(t, &fakeProber{})

	_, err := r.ResolveArchived(context.Background(), "Empty Show", "07/20/2023 @ 05:00 PM")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestResolveArchivedNoMatch(t *testing.T) {
	prober := &fakeProber{exists: true}
	r := newTestResolver(t, prober)

	_, err := r.ResolveArchived(context.Background(), "Jazz Hour", "01/01/2020 @ 05:00 PM")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
	assert.Empty(t, prober.urls, "archive mode must not fall back to URL guessing")
}

func TestResolveConstructedAppliesOverride(t *testing.T) {
	loc := laZone(t)
	prober := &fakeProber{exists: true}
	r := newTestResolver(t, prober)

	at := time.Date(2023, 11, 9, 17, 0, 0, 0, loc)
	res, err := r.ResolveConstructed(context.Background(), "Philosophers on Culture!", at)
	require.NoError(t, err)

	wantURL := testMediaBase + "/whats-the-frequency-kenneth/whats-the-frequency-kenneth_2023-11-16_17-00-00.mp3"
	require.Len(t, prober.urls, 1)
	assert.Equal(t, wantURL, prober.urls[0])
	require.NotNil(t, res.AudioURL)
	assert.Equal(t, wantURL, *res.AudioURL)

	// The displayed time stays the requested one, not the override target
	assert.Equal(t, "11/09/2023 @ 05:00 PM", res.TimeReadable)
	assert.Equal(t, "2023-11-09_17-00-00", res.TimeKey)
	assert.Equal(t, SourceConstructed, res.Source)
	assert.NotEmpty(t, res.ID)

	// Filesize borrowed from the episode that already carries this URL
	require.NotNil(t, res.Filesize)
	assert.Equal(t, int64(555000), *res.Filesize)
}

func TestResolveConstructedEnrichesFromTitle(t *testing.T) {
	loc := laZone(t)
	r := newTestResolver(t, &fakeProber{exists: true})

	at := time.Date(2023, 8, 3, 17, 0, 0, 0, loc)
	res, err := r.ResolveConstructed(context.Background(), "Jazz Hour", at)
	require.NoError(t, err)

	require.NotNil(t, res.AudioURL)
	assert.Equal(t, testMediaBase+"/jazz-hour/jazz-hour_2023-08-03_17-00-00.mp3", *res.AudioURL)
	require.NotNil(t, res.ImageURL)
	assert.Equal(t, "https://images.example/jazz.png", *res.ImageURL)
	require.NotNil(t, res.Summary)
	assert.Equal(t, "An hour of jazz.", *res.Summary)
	assert.Nil(t, res.Filesize, "no archived row carries this URL")
}

func TestResolveConstructedProbeMiss(t *testing.T) {
	loc := laZone(t)
	r := newTestResolver(t, &fakeProber{exists: false})

	at := time.Date(2023, 8, 3, 17, 0, 0, 0, loc)
	_, err := r.ResolveConstructed(context.Background(), "Jazz Hour", at)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestResolveSharedPrefersArchive(t *testing.T) {
	prober := &fakeProber{exists: true}
	r := newTestResolver(t, prober)

	res, err := r.ResolveShared(context.Background(), "Jazz Hour", "2023-07-20_17-00-00")
	require.NoError(t, err)
	assert.Equal(t, SourceArchive, res.Source)
	assert.Equal(t, "101", res.ID)
	assert.Empty(t, prober.urls)
}

func TestResolveSharedFallsBackToConstructed(t *testing.T) {
	prober := &fakeProber{exists: true}
	r := newTestResolver(t, prober)

	res, err := r.ResolveShared(context.Background(), "Jazz Hour", "2023-08-03_17-00-00")
	require.NoError(t, err)
	assert.Equal(t, SourceConstructed, res.Source)
	require.Len(t, prober.urls, 1)
}

func TestResolveSharedUnparseableTime(t *testing.T) {
	r := newTestResolver(t, &fakeProber{exists: true})

	_, err := r.ResolveShared(context.Background(), "Jazz Hour", "next thursday")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}
