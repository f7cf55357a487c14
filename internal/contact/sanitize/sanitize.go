// Package sanitize removes markup from free-text contact fields.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strict = bluemonday.StrictPolicy()
	inline = emailPolicy()
)

func emailPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("b", "strong", "i", "em", "u", "br", "p")
	p.AllowAttrs("href").OnElements("a")
	p.AllowURLSchemes("http", "https", "mailto")
	p.RequireParseableURLs(true)
	p.RequireNoFollowOnLinks(true)
	p.RequireNoReferrerOnLinks(true)
	return p
}

// maxStripRounds bounds decoding of nested entities such as "&amp;lt;b&amp;gt;".
const maxStripRounds = 8

// Strict strips all markup and returns plain, unescaped text. Escaping is
// left to whoever renders the value. Entity-encoded tags are decoded and
// stripped too, so Strict(Strict(s)) == Strict(s).
func Strict(s string) string {
	out := strip(s)
	for i := 0; i < maxStripRounds; i++ {
		next := strip(out)
		if next == out {
			break
		}
		out = next
	}
	return out
}

func strip(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// ForEmail keeps a small set of inline tags and only href on links. It is
// the last pass over the HTML mail body, never applied to stored fields.
func ForEmail(s string) string {
	return strings.TrimSpace(inline.Sanitize(s))
}
