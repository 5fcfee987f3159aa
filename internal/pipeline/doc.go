// Package pipeline drives the periodical build: it walks the bookmark
// list oldest-first, runs each bookmark through fetch, extraction,
// image resolution, and normalization, assembles the manifest
// documents, and hands the workspace to the compiler.
//
// Failures are isolated per bookmark. A page that cannot be fetched or
// reduced to an article is logged and skipped; the run only fails on
// workspace I/O, manifest generation, or compiler hard errors. The
// relative order of included articles always equals the relative order
// of their source bookmarks.
package pipeline
