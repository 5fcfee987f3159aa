// Package normalize assembles finalized Article records from bookmark
// metadata and extracted readable content.
//
// Normalization applies the title and description fallback chains,
// derives the article's workspace filename from its URL, and wraps the
// rewritten body in a minimal standalone HTML document with the
// heading anchor and byline the navigation map points at. The injected
// body content is carried verbatim; only the outer shell is
// guaranteed well-formed.
package normalize
