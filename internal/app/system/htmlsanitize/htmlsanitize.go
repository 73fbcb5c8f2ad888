// Package htmlsanitize cleans user-supplied rich text before storage and
// prepares it for safe template rendering. Descriptions accept basic
// formatting (emphasis, lists, headings, tables, code, images with http(s)
// sources); scripts, iframes, event handlers, and javascript:/data: URLs
// are removed, not escaped.
package htmlsanitize

import (
	"html"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// strict drops all markup; used for single-line fields.
	strict = bluemonday.StrictPolicy()

	// rich allows the formatting subset used by descriptions and notes.
	rich = newRichPolicy()
)

func newRichPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()

	p.AllowElements(
		"p", "br", "hr",
		"b", "strong", "i", "em", "u", "s", "sub", "sup", "mark",
		"h1", "h2", "h3", "h4", "h5", "h6",
		"ul", "ol", "li",
		"blockquote", "code", "pre",
		"table", "thead", "tbody", "tfoot", "tr", "th", "td",
	)
	p.AllowAttrs("class").OnElements("table", "thead", "tbody", "tr", "th", "td")
	p.AllowAttrs("colspan", "rowspan").OnElements("th", "td")

	p.AllowStandardURLs()
	p.AllowAttrs("href").OnElements("a")
	p.AllowElements("a")
	p.AllowImages()

	return p
}

// Sanitize cleans rich text, keeping the allowed formatting subset.
func Sanitize(s string) string {
	return rich.Sanitize(s)
}

// SanitizeToHTML sanitizes and marks the result safe for direct template
// interpolation.
func SanitizeToHTML(s string) template.HTML {
	return template.HTML(Sanitize(s))
}

// Plain strips every tag and trims whitespace. Use for titles, names, and
// any other single-line input.
func Plain(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}

// IsPlainText reports whether s contains no HTML tags. A lone '<' or '>'
// (e.g. "5 < 10") still counts as plain text.
func IsPlainText(s string) bool {
	lt := strings.IndexByte(s, '<')
	if lt < 0 {
		return true
	}
	return strings.IndexByte(s[lt:], '>') < 0
}

// PlainTextToHTML escapes plain text and converts newlines to <br>, wrapping
// the result in a paragraph. Empty input stays empty.
func PlainTextToHTML(s string) string {
	if s == "" {
		return ""
	}
	escaped := html.EscapeString(s)
	escaped = strings.ReplaceAll(escaped, "\r\n", "\n")
	escaped = strings.ReplaceAll(escaped, "\n", "<br>")
	return "<p>" + escaped + "</p>"
}

// PrepareForDisplay renders stored text for templates: plain text is escaped
// and paragraph-wrapped, anything with markup goes through Sanitize.
func PrepareForDisplay(s string) template.HTML {
	if s == "" {
		return ""
	}
	if IsPlainText(s) {
		return template.HTML(PlainTextToHTML(s))
	}
	return SanitizeToHTML(s)
}
