// Package render turns parsed email bodies into display-safe HTML messages.
package render

import (
	"html"
	"regexp"
	"strings"
)

// SnippetMaxChars is the default cap for the body snippet embedded in a
// notification.
const SnippetMaxChars = 500

const truncationMarker = "...\n[Message Truncated]"

// tagSpan matches any <...> span. Markup is reduced by plain tag removal,
// not by parsing a DOM.
var tagSpan = regexp.MustCompile(`<[^>]*>`)

// Normalize reduces an email body to trimmed plain text. The plain-text
// body wins when present; otherwise the HTML body is used with all tag
// spans stripped.
func Normalize(textBody, htmlBody string) string {
	if strings.TrimSpace(textBody) != "" {
		return strings.TrimSpace(textBody)
	}
	return strings.TrimSpace(tagSpan.ReplaceAllString(htmlBody, ""))
}

// Snippet caps text at maxChars characters, appending a truncation marker
// when anything was cut. maxChars <= 0 falls back to SnippetMaxChars.
func Snippet(text string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = SnippetMaxChars
	}
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	return string(runes[:maxChars]) + truncationMarker
}

// Escape replaces &, <, >, " and ' with their HTML entity forms. It is
// applied exactly once per display field, at formatting time.
func Escape(s string) string {
	return html.EscapeString(s)
}
