// Package overrides corrects constructed media URLs for shows whose archive
// uploads are known to be mutually mislabeled on specific dates.
package overrides

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed overrides.yaml
var rawTable []byte

// entry is one direction of a swap as written in overrides.yaml.
type entry struct {
	Slug          string `yaml:"slug"`
	TimeKey       string `yaml:"time_key"`
	MapsToSlug    string `yaml:"maps_to_slug"`
	MapsToTimeKey string `yaml:"maps_to_time_key"`
}

type tableFile struct {
	Entries []entry `yaml:"entries"`
}

// Key identifies one constructed media file: a show slug plus a canonical
// time key.
type Key struct {
	Slug    string
	TimeKey string
}

// Table is a bidirectional mapping between swapped media files. It is an
// involution: applying it twice always returns the original key.
type Table struct {
	m map[Key]Key
}

// Load builds the override table from the embedded YAML data. Both
// directions of every entry are inserted and the involution property is
// verified; a future edit that breaks symmetry fails here rather than at
// resolution time.
func Load() (*Table, error) {
	var file tableFile
	if err := yaml.Unmarshal(rawTable, &file); err != nil {
		return nil, fmt.Errorf("failed to parse override table: %w", err)
	}
	return build(file.Entries)
}

func build(entries []entry) (*Table, error) {
	m := make(map[Key]Key, 2*len(entries))
	for _, e := range entries {
		from := Key{Slug: e.Slug, TimeKey: e.TimeKey}
		to := Key{Slug: e.MapsToSlug, TimeKey: e.MapsToTimeKey}
		if from == to {
			return nil, fmt.Errorf("override entry %v maps to itself", from)
		}
		for _, pair := range [][2]Key{{from, to}, {to, from}} {
			if existing, ok := m[pair[0]]; ok && existing != pair[1] {
				return nil, fmt.Errorf("override entry %v conflicts with existing mapping to %v", pair[0], existing)
			}
			m[pair[0]] = pair[1]
		}
	}

	for k, v := range m {
		if back, ok := m[v]; !ok || back != k {
			return nil, fmt.Errorf("override table is not an involution at %v", k)
		}
	}

	return &Table{m: m}, nil
}

// Apply maps a (slug, time key) pair through the table. Pairs without an
// override pass through unchanged.
func (t *Table) Apply(slug, timeKey string) (string, string) {
	if mapped, ok := t.m[Key{Slug: slug, TimeKey: timeKey}]; ok {
		return mapped.Slug, mapped.TimeKey
	}
	return slug, timeKey
}

// Len returns the number of mapped keys (both directions counted).
func (t *Table) Len() int {
	return len(t.m)
}

// Keys returns every mapped key. Used by tests to verify table properties.
func (t *Table) Keys() []Key {
	keys := make([]Key, 0, len(t.m))
	for k := range t.m {
		keys = append(keys, k)
	}
	return keys
}
