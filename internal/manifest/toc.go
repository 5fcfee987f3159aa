package manifest

import (
	"fmt"
	"html"
	"strings"

	"github.com/pinzine/pinzine/internal/model"
)

// buildTOC produces the human-readable table-of-contents page: one
// list entry per article, title linked to the article document with
// the description alongside. This is the page the reading device
// displays first (the OPF guide's start reference).
func buildTOC(articles []model.Article, title string) []byte {
	var b strings.Builder
	b.WriteString("<html><head>\n")
	b.WriteString("<meta charset=\"utf-8\"/>\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(title))
	b.WriteString("</head><body>\n")
	b.WriteString("<h1>Table of Contents</h1>\n<ul>\n")
	for _, article := range articles {
		fmt.Fprintf(&b, "<li><a href=%q>%s</a> %s</li>\n",
			article.Filename,
			html.EscapeString(article.Title),
			html.EscapeString(article.Description),
		)
	}
	b.WriteString("</ul>\n</body></html>\n")
	return []byte(b.String())
}
