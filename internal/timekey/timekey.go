// Package timekey handles the two time formats a show selection can carry.
//
// Selections produced by the archive picker use the human-readable layout,
// while constructed media URLs and shared links from the date picker use the
// canonical layout. Both formats are station-local time.
package timekey

import (
	"fmt"
	"time"
)

// Layouts for the two selection formats.
const (
	// CanonicalLayout is the key used in constructed media URLs,
	// e.g. "2023-11-09_17-00-00".
	CanonicalLayout = "2006-01-02_15-04-05"

	// ReadableLayout is the human display format,
	// e.g. "11/09/2023 @ 05:00 PM".
	ReadableLayout = "01/02/2006 @ 03:04 PM"
)

// Canonical formats t as a canonical time key.
func Canonical(t time.Time) string {
	return t.Format(CanonicalLayout)
}

// Readable formats t in the human display format.
func Readable(t time.Time) string {
	return t.Format(ReadableLayout)
}

// parseStrategy is one attempt at decoding a shared time selection.
// Strategies are tried in order; the first that succeeds wins.
type parseStrategy struct {
	name   string
	layout string
}

// Canonical is tried before readable: links produced by the date picker
// always carry the canonical key, and the readable layout cannot
// accidentally match it.
var parseOrder = []parseStrategy{
	{name: "canonical", layout: CanonicalLayout},
	{name: "readable", layout: ReadableLayout},
}

// ParseSelection decodes a time selection from a shared link. The value may
// be in either supported layout depending on which picker mode produced it.
func ParseSelection(value string, loc *time.Location) (time.Time, error) {
	for _, strategy := range parseOrder {
		if t, err := time.ParseInLocation(strategy.layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("time selection %q matches no supported format", value)
}
