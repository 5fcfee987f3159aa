package normalize

import (
	"fmt"
	"html"
	"strings"

	xhtml "golang.org/x/net/html"

	"github.com/pinzine/pinzine/internal/model"
	"github.com/pinzine/pinzine/internal/naming"
)

// TopAnchor is the id of the heading element at the start of every
// article document. The navigation map targets it so the reading
// device lands on the content start rather than the document root.
const TopAnchor = "top"

// Normalizer builds Article records. It holds the run's filename
// registry so article documents can never collide with each other or
// with downloaded images.
type Normalizer struct {
	registry *naming.Registry
}

// New creates a Normalizer using the given filename registry.
func New(registry *naming.Registry) *Normalizer {
	return &Normalizer{registry: registry}
}

// Normalize produces the finalized Article for a bookmark.
// rewrittenBody is the extracted content with image references already
// rewritten; images are the distinct Image records it references.
//
// Title chain: extractor title, bookmark description, "{domain}
// article". Description chain: bookmark note, extractor dek, extractor
// excerpt, empty.
func (n *Normalizer) Normalize(bookmark model.Bookmark, readable model.ReadableContent, rewrittenBody string, images []model.Image) model.Article {
	title := firstNonEmpty(
		xhtml.UnescapeString(readable.Title),
		bookmark.Description,
		readable.Domain+" article",
	)
	description := firstNonEmpty(
		bookmark.Note,
		readable.Dek,
		xhtml.UnescapeString(readable.Excerpt),
	)
	author := strings.TrimSpace(readable.Author)

	return model.NewArticleBuilder(bookmark.URL).
		Title(title).
		Description(description).
		Author(author).
		Filename(n.registry.Claim(bookmark.URL, ".html")).
		Images(images).
		Body(document(bookmark.URL, title, description, author, readable.Domain, rewrittenBody)).
		Build()
}

// document wraps the rewritten body in a standalone HTML document:
// charset declaration, title and optional metadata in the head, then a
// heading with the top anchor, a byline linking back to the source,
// and a rule before the body content. The body is injected verbatim.
func document(sourceURL, title, description, author, domain, body string) string {
	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"utf-8\"?>\n")
	b.WriteString("<html><head>\n")
	b.WriteString("<meta charset=\"utf-8\"/>\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(title))
	if author != "" {
		fmt.Fprintf(&b, "<meta name=\"author\" content=\"%s\"/>\n", html.EscapeString(author))
	}
	if description != "" {
		fmt.Fprintf(&b, "<meta name=\"description\" content=\"%s\"/>\n", html.EscapeString(description))
	}
	b.WriteString("</head><body>\n")
	fmt.Fprintf(&b, "<h3 id=%q>%s</h3>\n", TopAnchor, html.EscapeString(title))
	fmt.Fprintf(&b, "<h4><a href=\"%s\">%s</a>", html.EscapeString(sourceURL), html.EscapeString(domain))
	if author != "" {
		fmt.Fprintf(&b, " by %s", html.EscapeString(author))
	}
	b.WriteString("</h4>\n<hr/>\n")
	b.WriteString(body)
	b.WriteString("</body></html>")
	return b.String()
}

// firstNonEmpty returns the first value that is not blank after
// trimming whitespace, or "" when all are.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
