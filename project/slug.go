package project

import (
	"regexp"
	"strings"
)

var nonAlnumRun = regexp.MustCompile(`[^a-z0-9]+`)

// Slug derives a deterministic, URL-safe identifier from a title: split
// on whitespace into words, collapse each word's non-alphanumeric runs
// into a single hyphen and trim the word's own leading/trailing hyphens,
// then join the words with "-". A word built entirely from punctuation
// (e.g. a standalone "//") collapses to the empty string, which still
// contributes its join hyphens — the deliberate source of the
// double-hyphen case in the test vector below.
func Slug(title string) string {
	words := strings.Fields(strings.ToLower(title))
	parts := make([]string, len(words))
	for i, w := range words {
		w = nonAlnumRun.ReplaceAllString(w, "-")
		parts[i] = strings.Trim(w, "-")
	}
	return strings.Trim(strings.Join(parts, "-"), "-")
}
