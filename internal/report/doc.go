// Package report renders a build summary in GitHub Flavored Markdown:
// run metadata, outcome counts, the included articles in reading
// order, and every skipped bookmark with its reason. The summary is
// written after the periodical itself, so a report failure never
// costs a build.
package report
