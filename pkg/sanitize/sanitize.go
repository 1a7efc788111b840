// Package sanitize cleans actor-supplied text before it is stored or
// rendered. Two modes: PlainText strips every tag for plain contexts,
// ChatMarkup keeps a small fixed set of inline formatting tags for
// rendered chat content. Everything a user types goes through one of
// them before it can become markup.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strict = bluemonday.StrictPolicy()

	// The chat allow-list is fixed: inline formatting only, no
	// attributes. Nothing outside this list ever survives.
	chat = func() *bluemonday.Policy {
		p := bluemonday.NewPolicy()
		p.AllowElements("code", "b", "strong", "em", "i", "p", "br")
		return p
	}()
)

// PlainText strips all markup and trims surrounding whitespace.
func PlainText(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}

// ChatMarkup keeps only the allow-listed inline tags; every attribute
// and every other element is removed.
func ChatMarkup(s string) string {
	return strings.TrimSpace(chat.Sanitize(s))
}

// Tags sanitizes a list of free-text tags, dropping any that are empty
// after cleaning.
func Tags(tags []string) []string {
	var out []string
	for _, t := range tags {
		if cleaned := PlainText(t); cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}
