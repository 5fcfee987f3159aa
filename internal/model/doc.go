// Package model defines the core data structures shared across the
// pinzine pipeline: bookmarks from the Pinboard feed, readable content
// produced by the extractor, downloaded images, and the finalized
// articles consumed by the manifest builder.
//
// Values in this package are plain data with no behavior beyond
// construction. Articles are built through ArticleBuilder so that a
// partially populated record can never reach the manifest builder.
package model
