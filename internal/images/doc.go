// Package images rewrites embedded image references in article bodies
// to locally downloaded copies.
//
// Article bodies come from the readability extractor and are tolerated
// malformed HTML: they may not survive a round trip through a strict
// parser, so src attributes are found with a case-insensitive,
// quote-tolerant regular expression rather than a DOM walk. This is a
// deliberate contract, not a shortcut.
//
// The Resolver carries run-scoped state: an image URL fetched for one
// article is never fetched again for another, and both articles
// reference the same local filename. Per-image failures leave the
// original remote reference in place and never fail the article.
package images
