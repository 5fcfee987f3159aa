package extract

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
	"github.com/pinzine/pinzine/internal/model"
)

// ErrNotArticle is returned when a page cannot be reduced to readable
// article content (landing pages, image galleries, broken markup the
// heuristics give up on). The pipeline treats this as a per-bookmark
// skip, not a failure of the run.
var ErrNotArticle = errors.New("page does not contain extractable article content")

// Extractor reduces raw HTML to readable article content.
// Implementations must be safe for sequential reuse across bookmarks.
type Extractor interface {
	// Extract parses rawHTML fetched from sourceURL and returns the
	// readable content. Returns ErrNotArticle (possibly wrapped) when
	// the page has no extractable article.
	Extract(ctx context.Context, rawHTML, sourceURL string) (model.ReadableContent, error)
}

// Readability is the production Extractor backed by
// go-shiori/go-readability.
type Readability struct{}

// NewReadability creates a Readability extractor.
func NewReadability() *Readability {
	return &Readability{}
}

// Extract implements Extractor.
func (r *Readability) Extract(_ context.Context, rawHTML, sourceURL string) (model.ReadableContent, error) {
	pageURL, err := url.Parse(sourceURL)
	if err != nil {
		return model.ReadableContent{}, fmt.Errorf("invalid source URL %q: %w", sourceURL, err)
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), pageURL)
	if err != nil {
		return model.ReadableContent{}, fmt.Errorf("%w: %s", ErrNotArticle, err)
	}
	if strings.TrimSpace(article.Content) == "" {
		return model.ReadableContent{}, ErrNotArticle
	}

	return model.ReadableContent{
		Title:    article.Title,
		Author:   article.Byline,
		Domain:   pageURL.Hostname(),
		Excerpt:  article.Excerpt,
		BodyHTML: article.Content,
	}, nil
}
