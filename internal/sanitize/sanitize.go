// Package sanitize strips unsafe HTML from user-authored text before it is
// stored. Comments keep a small set of inline formatting tags; everything
// else, notably script and iframe payloads, is removed while the surrounding
// text survives.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// commentPolicy permits inline formatting only. No attributes, no links,
	// no block elements.
	commentPolicy = func() *bluemonday.Policy {
		p := bluemonday.NewPolicy()
		p.AllowElements("b", "i", "em", "strong", "u", "code", "br")
		return p
	}()

	// textPolicy strips all markup, used for plain fields like titles.
	textPolicy = bluemonday.StrictPolicy()
)

// HTML sanitizes comment content, keeping the inline allow-list and dropping
// everything else.
func HTML(input string) string {
	return strings.TrimSpace(commentPolicy.Sanitize(input))
}

// Text strips all HTML from a plain-text field.
func Text(input string) string {
	return strings.TrimSpace(textPolicy.Sanitize(input))
}
