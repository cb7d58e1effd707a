package archive

import (
	"context"
	"sync"
	"time"

	"github.com/kzfr/show-picker/internal/apperrors"
	"github.com/kzfr/show-picker/internal/models"
	"github.com/kzfr/show-picker/pkg/logger"
)

// FetchFunc retrieves a fresh (catalog, episode table) pair from the archive.
type FetchFunc func(ctx context.Context) ([]string, []models.Episode, error)

// Cache owns the single process-wide snapshot. Get refreshes synchronously
// once the time-to-live has elapsed; there is no background refresh. A
// refresh failure leaves the previous snapshot in place (stale-but-available),
// falling back to the persisted snapshot when the process has none in memory.
type Cache struct {
	mu    sync.Mutex
	fetch FetchFunc
	store *Store
	ttl   time.Duration

	current *Snapshot

	// now is swappable for tests
	now func() time.Time
}

// NewCache creates a cache around fetch. store may be nil to disable
// persistence.
func NewCache(fetch FetchFunc, store *Store, ttl time.Duration) *Cache {
	return &Cache{
		fetch: fetch,
		store: store,
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get returns the cached snapshot, refreshing it first if the time-to-live
// has elapsed. The refresh blocks the caller; only one refresh runs at a time.
func (c *Cache) Get(ctx context.Context) (*Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current != nil && c.now().Sub(c.current.FetchedAt) < c.ttl {
		return c.current, nil
	}

	titles, episodes, err := c.fetch(ctx)
	if err != nil {
		if c.current != nil {
			logger.Error("Archive refresh failed, serving stale snapshot from %s: %v",
				c.current.FetchedAt.Format(time.RFC3339), err)
			return c.current, nil
		}
		if c.store != nil {
			if snap, loadErr := c.store.Load(); loadErr == nil {
				logger.Error("Archive fetch failed, serving persisted snapshot from %s: %v",
					snap.FetchedAt.Format(time.RFC3339), err)
				c.current = snap
				return snap, nil
			}
		}
		return nil, err
	}

	// An empty catalog is an authoritative answer from the archive, not a
	// fetch failure, so it surfaces even when a stale snapshot exists.
	if len(titles) == 0 {
		return nil, apperrors.EmptyCatalog("No KZFR shows found in the current Studio Creek archive")
	}

	snap := &Snapshot{
		Titles:    titles,
		Episodes:  episodes,
		FetchedAt: c.now(),
	}
	c.current = snap

	if c.store != nil {
		if err := c.store.Save(snap); err != nil {
			logger.Error("Failed to persist archive snapshot: %v", err)
		}
	}

	return snap, nil
}
