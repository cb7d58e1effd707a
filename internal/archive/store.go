package archive

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/kzfr/show-picker/internal/models"
)

// ErrNoSnapshot indicates the store has never been written to.
var ErrNoSnapshot = errors.New("no snapshot stored")

// schema holds the snapshot tables. The store only ever contains the single
// most recent good snapshot; every save replaces the previous one.
const schema = `
CREATE TABLE IF NOT EXISTS snapshot_meta (
	id         INTEGER PRIMARY KEY CHECK (id = 1),
	fetched_at DATETIME NOT NULL,
	titles     TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS snapshot_episodes (
	rowid_order    INTEGER PRIMARY KEY AUTOINCREMENT,
	id             TEXT NOT NULL,
	"start"        DATETIME NOT NULL,
	"end"          DATETIME NOT NULL,
	title          TEXT NOT NULL,
	name           TEXT NOT NULL,
	summary        TEXT,
	description    TEXT,
	image_url      TEXT,
	filesize       INTEGER,
	url            TEXT,
	start_readable TEXT NOT NULL
);
`

// Store persists the last good snapshot in a local SQLite database.
type Store struct {
	db  *sqlx.DB
	loc *time.Location
}

// OpenStore opens (and if necessary initializes) the snapshot database at
// path. Loaded timestamps are normalized into loc.
func OpenStore(path string, loc *time.Location) (*Store, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot store: %w", err)
	}

	// A single writer keeps the store simple; the cache serializes access.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize snapshot schema: %w", err)
	}

	return &Store{db: db, loc: loc}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save replaces the stored snapshot with snap.
func (s *Store) Save(snap *Snapshot) error {
	titles, err := json.Marshal(snap.Titles)
	if err != nil {
		return fmt.Errorf("failed to encode catalog titles: %w", err)
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin snapshot transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM snapshot_meta`); err != nil {
		return fmt.Errorf("failed to clear snapshot meta: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM snapshot_episodes`); err != nil {
		return fmt.Errorf("failed to clear snapshot episodes: %w", err)
	}

	if _, err := tx.Exec(
		`INSERT INTO snapshot_meta (id, fetched_at, titles) VALUES (1, ?, ?)`,
		snap.FetchedAt, string(titles),
	); err != nil {
		return fmt.Errorf("failed to write snapshot meta: %w", err)
	}

	const insert = `
		INSERT INTO snapshot_episodes
			(id, "start", "end", title, name, summary, description, image_url, filesize, url, start_readable)
		VALUES
			(:id, :start, :end, :title, :name, :summary, :description, :image_url, :filesize, :url, :start_readable)`
	for _, ep := range snap.Episodes {
		if _, err := tx.NamedExec(insert, ep); err != nil {
			return fmt.Errorf("failed to write snapshot episode %s: %w", ep.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// Load returns the stored snapshot, or ErrNoSnapshot if none has been saved.
func (s *Store) Load() (*Snapshot, error) {
	var meta struct {
		FetchedAt time.Time `db:"fetched_at"`
		Titles    string    `db:"titles"`
	}
	err := s.db.Get(&meta, `SELECT fetched_at, titles FROM snapshot_meta WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot meta: %w", err)
	}

	var titles []string
	if err := json.Unmarshal([]byte(meta.Titles), &titles); err != nil {
		return nil, fmt.Errorf("failed to decode catalog titles: %w", err)
	}

	var episodes []models.Episode
	const query = `
		SELECT id, "start", "end", title, name, summary, description, image_url, filesize, url, start_readable
		FROM snapshot_episodes ORDER BY rowid_order`
	if err := s.db.Select(&episodes, query); err != nil {
		return nil, fmt.Errorf("failed to read snapshot episodes: %w", err)
	}

	// The driver hands timestamps back in UTC; shift them into the station
	// zone so start_readable stays a pure function of start.
	for i := range episodes {
		episodes[i].Start = episodes[i].Start.In(s.loc)
		episodes[i].End = episodes[i].End.In(s.loc)
	}

	return &Snapshot{
		Titles:    titles,
		Episodes:  episodes,
		FetchedAt: meta.FetchedAt,
	}, nil
}
