// Package extract turns raw fetched HTML into readable article
// content.
//
// The Extractor interface exists so the pipeline can be tested with a
// fake; the production implementation wraps go-shiori/go-readability,
// which ports Mozilla's Readability boilerplate-stripping heuristics.
// A page the extractor cannot reduce to article content is reported
// with ErrNotArticle and the pipeline skips that bookmark.
package extract
