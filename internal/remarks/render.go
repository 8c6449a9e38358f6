package remarks

import (
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// RenderHTML converts free-form remarks into HTML for the detail view.
// Bare URLs become links opening in a new tab; raw HTML is dropped.
func RenderHTML(remarks string) string {
	text := strings.TrimSpace(remarks)
	if text == "" {
		return ""
	}

	// parsers keep state, one per document
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Autolink | parser.HardLineBreak)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.HrefTargetBlank | html.SkipHTML | html.NofollowLinks,
	})
	return strings.TrimSpace(string(markdown.ToHTML([]byte(text), p, renderer)))
}
