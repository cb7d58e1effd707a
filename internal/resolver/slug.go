package resolver

import (
	"regexp"
	"strings"
)

var (
	// Keep word characters, whitespace and hyphens so that normalizing an
	// already-normalized slug is a no-op.
	nonSlugChars = regexp.MustCompile(`[^\w\s-]`)
	spaceRuns    = regexp.MustCompile(`\s+`)
)

// Slugify normalizes a show title into the URL-safe slug used by the audio
// hosting bucket: punctuation is removed, runs of whitespace become single
// hyphens, and the result is lowercased. Slugify is idempotent.
func Slugify(title string) string {
	s := nonSlugChars.ReplaceAllString(title, "")
	s = spaceRuns.ReplaceAllString(strings.TrimSpace(s), "-")
	return strings.ToLower(s)
}
