package interpretation

import (
	"html"
	"regexp"
	"strings"
)

// The renderer escapes its input first, so blockquotes are matched on the
// escaped "&gt; " prefix.
var (
	boldPattern       = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicPattern     = regexp.MustCompile(`\*(.*?)\*`)
	blockquotePattern = regexp.MustCompile(`(?m)^&gt; (.*)$`)
)

// RenderMarkdown converts bold, italic, blockquote and line breaks to HTML.
// Lists, tables, links and nested emphasis are left as plain text.
func RenderMarkdown(text string) string {
	if text == "" {
		return ""
	}
	out := html.EscapeString(text)
	out = boldPattern.ReplaceAllString(out, "<strong>$1</strong>")
	out = italicPattern.ReplaceAllString(out, "<em>$1</em>")
	out = blockquotePattern.ReplaceAllString(out, "<blockquote>$1</blockquote>")
	return strings.ReplaceAll(out, "\n", "<br />")
}
