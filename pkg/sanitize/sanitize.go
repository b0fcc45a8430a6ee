// Package sanitize cleans user supplied text before it is rendered with Telegram's
// HTML parse mode.
package sanitize

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strict  = bluemonday.StrictPolicy()
	caption = newCaptionPolicy()
)

// newCaptionPolicy allows the subset of HTML Telegram understands
func newCaptionPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("b", "strong", "i", "em", "u", "ins", "s", "strike", "del", "code", "pre", "blockquote", "tg-spoiler")
	p.AllowAttrs("href").OnElements("a")
	p.AllowStandardURLs()
	return p
}

// Text strips every tag and escapes the rest. Use it for names, comments and search terms.
func Text(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}

// Plain strips every tag and leaves the text unescaped, for alerts and other
// places that are not parsed as HTML
func Plain(s string) string {
	return html.UnescapeString(Text(s))
}

// Caption keeps Telegram's formatting tags and drops everything else
func Caption(s string) string {
	return strings.TrimSpace(caption.Sanitize(s))
}

// Truncate cuts s to at most n runes, appending an ellipsis when it had to cut
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	if n == 1 {
		return string(r[:1])
	}
	return string(r[:n-1]) + "…"
}
