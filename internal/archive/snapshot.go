// Package archive caches the show catalog and episode table fetched from the
// remote archive. The cache holds a single snapshot with a fixed time-to-live
// and optionally persists the last good snapshot to a local SQLite store so a
// restarted process can serve stale data while the archive is unreachable.
package archive

import (
	"time"

	"github.com/kzfr/show-picker/internal/models"
)

// Snapshot is one immutable (catalog, episode table) pair. The whole pair is
// always replaced together; readers never see a partially updated table.
type Snapshot struct {
	Titles    []string
	Episodes  []models.Episode
	FetchedAt time.Time
}

// HasTitle reports whether title appears in the catalog.
func (s *Snapshot) HasTitle(title string) bool {
	for _, t := range s.Titles {
		if t == title {
			return true
		}
	}
	return false
}

// EpisodesByTitle returns the episodes whose show title equals title,
// in table order.
func (s *Snapshot) EpisodesByTitle(title string) []models.Episode {
	var out []models.Episode
	for _, ep := range s.Episodes {
		if ep.Title == title {
			out = append(out, ep)
		}
	}
	return out
}

// TimesByTitle returns the distinct start_readable values for title,
// in table order. These are the selectable options for archive mode.
func (s *Snapshot) TimesByTitle(title string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, ep := range s.Episodes {
		if ep.Title != title {
			continue
		}
		if _, ok := seen[ep.StartReadable]; ok {
			continue
		}
		seen[ep.StartReadable] = struct{}{}
		out = append(out, ep.StartReadable)
	}
	return out
}
