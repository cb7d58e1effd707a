// Package models contains the data models for the show picker.
package models

import (
	"time"
)

// Episode represents one archived broadcast instance. The same struct is
// used for the in-memory episode table and for rows in the snapshot store.
type Episode struct {
	ID          string    `db:"id" json:"id"`
	Start       time.Time `db:"start" json:"start"`
	End         time.Time `db:"end" json:"end"`
	Title       string    `db:"title" json:"title"`
	Name        string    `db:"name" json:"name"`
	Summary     *string   `db:"summary" json:"summary"`
	Description *string   `db:"description" json:"description"`
	ImageURL    *string   `db:"image_url" json:"image_url"`
	Filesize    *int64    `db:"filesize" json:"filesize"`
	URL         *string   `db:"url" json:"url"`

	// StartReadable is derived from Start and must never diverge from it.
	// It doubles as the display label and as a lookup key for shared links.
	StartReadable string `db:"start_readable" json:"start_readable"`
}
