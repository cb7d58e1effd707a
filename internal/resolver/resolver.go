// Package resolver turns a show title and time selection into a playable
// episode, either straight from the archive or via a constructed media URL.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kzfr/show-picker/internal/apperrors"
	"github.com/kzfr/show-picker/internal/archive"
	"github.com/kzfr/show-picker/internal/models"
	"github.com/kzfr/show-picker/internal/overrides"
	"github.com/kzfr/show-picker/internal/timekey"
)

// Source values for a Resolution.
const (
	SourceArchive     = "archive"
	SourceConstructed = "constructed"
)

// Prober checks whether a constructed media URL exists.
type Prober interface {
	Probe(ctx context.Context, url string) bool
}

// Resolver resolves show/time selections against the cached archive snapshot.
type Resolver struct {
	cache        *archive.Cache
	prober       Prober
	overrides    *overrides.Table
	mediaBaseURL string
	location     *time.Location
}

// New creates a resolver. mediaBaseURL is the audio bucket prefix used for
// constructed URLs, without a trailing slash.
func New(cache *archive.Cache, prober Prober, table *overrides.Table, mediaBaseURL string, loc *time.Location) *Resolver {
	return &Resolver{
		cache:        cache,
		prober:       prober,
		overrides:    table,
		mediaBaseURL: mediaBaseURL,
		location:     loc,
	}
}

// Resolution is the presenter-facing result of a selection. Archive
// resolutions carry the episode's archive id; constructed resolutions carry
// a freshly generated one.
type Resolution struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	TimeReadable string  `json:"time_readable"`
	TimeKey      string  `json:"time_key"`
	ImageURL     *string `json:"image_url,omitempty"`
	Summary      *string `json:"summary,omitempty"`
	Description  *string `json:"description,omitempty"`
	AudioURL     *string `json:"audio_url,omitempty"`
	Filesize     *int64  `json:"filesize,omitempty"`
	Source       string  `json:"source"`
}

// Snapshot exposes the current cached snapshot for handlers that render
// catalog and time options.
func (r *Resolver) Snapshot(ctx context.Context) (*archive.Snapshot, error) {
	return r.cache.Get(ctx)
}

// ResolveArchived looks up an episode by title and time selection within the
// archive. The selection is matched against the canonical time key of each
// episode's start first, then against start_readable; a shared link may
// carry either format. No URL guessing happens in this mode.
func (r *Resolver) ResolveArchived(ctx context.Context, title, timeSelected string) (*Resolution, error) {
	snap, err := r.cache.Get(ctx)
	if err != nil {
		return nil, err
	}

	episodes := snap.EpisodesByTitle(title)
	if len(episodes) == 0 {
		return nil, apperrors.NotFound(fmt.Sprintf("No %q show times found in the current Studio Creek archive", title))
	}

	for _, ep := range episodes {
		if timekey.Canonical(ep.Start) == timeSelected {
			return episodeResolution(ep), nil
		}
	}
	for _, ep := range episodes {
		if ep.StartReadable == timeSelected {
			return episodeResolution(ep), nil
		}
	}

	return nil, apperrors.NotFound(fmt.Sprintf("No show found at the date and time %s", timeSelected))
}

// ResolveConstructed builds a best-guess media URL for a show at an
// arbitrary date and time, applies the historical override table, and probes
// the URL for existence. Episode metadata from the snapshot enriches the
// result when available, but is never required.
func (r *Resolver) ResolveConstructed(ctx context.Context, title string, at time.Time) (*Resolution, error) {
	slug := Slugify(title)
	key := timekey.Canonical(at)
	slug, key = r.overrides.Apply(slug, key)

	candidate := fmt.Sprintf("%s/%s/%s_%s.mp3", r.mediaBaseURL, slug, slug, key)
	if !r.prober.Probe(ctx, candidate) {
		return nil, apperrors.NotFound(fmt.Sprintf("No show found at the date and time %s", timekey.Canonical(at)))
	}

	res := &Resolution{
		ID:           uuid.New().String(),
		Title:        title,
		TimeReadable: timekey.Readable(at),
		TimeKey:      timekey.Canonical(at),
		AudioURL:     &candidate,
		Source:       SourceConstructed,
	}

	// Best-effort enrichment from the episode table; a cache failure here
	// must not fail a resolution whose URL already probed as existing.
	if snap, err := r.cache.Get(ctx); err == nil {
		for _, ep := range snap.Episodes {
			if ep.URL != nil && *ep.URL == candidate {
				res.Filesize = ep.Filesize
				break
			}
		}
		for _, ep := range snap.EpisodesByTitle(title) {
			res.ImageURL = ep.ImageURL
			res.Summary = ep.Summary
			res.Description = ep.Description
			break
		}
	}

	return res, nil
}

// ResolveShared restores a selection round-tripped through a shared link.
// The archive is authoritative, so an archive match is tried first; failing
// that, the time selection is parsed (canonical format before readable) and
// a constructed URL is attempted.
func (r *Resolver) ResolveShared(ctx context.Context, title, timeSelected string) (*Resolution, error) {
	res, err := r.ResolveArchived(ctx, title, timeSelected)
	if err == nil {
		return res, nil
	}
	if !errors.Is(err, apperrors.NotFound("")) {
		return nil, err
	}

	at, parseErr := timekey.ParseSelection(timeSelected, r.location)
	if parseErr != nil {
		return nil, apperrors.NotFound(fmt.Sprintf("No show found at the date and time %s", timeSelected)).
			WithInternal("unparseable time selection: %v", parseErr)
	}
	return r.ResolveConstructed(ctx, title, at)
}

func episodeResolution(ep models.Episode) *Resolution {
	return &Resolution{
		ID:           ep.ID,
		Title:        ep.Title,
		TimeReadable: ep.StartReadable,
		TimeKey:      timekey.Canonical(ep.Start),
		ImageURL:     ep.ImageURL,
		Summary:      ep.Summary,
		Description:  ep.Description,
		AudioURL:     ep.URL,
		Filesize:     ep.Filesize,
		Source:       SourceArchive,
	}
}
