package pipeline

// Status is the terminal state of one bookmark's trip through the
// pipeline.
type Status int

const (
	// StatusIncluded means the bookmark became an article in the
	// periodical.
	StatusIncluded Status = iota

	// StatusSkippedByRequest means the URL was in the caller's skip
	// list; no network activity was performed for it.
	StatusSkippedByRequest

	// StatusSkippedFetchError means the page could not be fetched.
	StatusSkippedFetchError

	// StatusSkippedNotArticle means the page was fetched but no
	// readable article could be extracted from it.
	StatusSkippedNotArticle
)

// String returns the human-readable status name used in logs and the
// build summary.
func (s Status) String() string {
	switch s {
	case StatusIncluded:
		return "included"
	case StatusSkippedByRequest:
		return "skipped by request"
	case StatusSkippedFetchError:
		return "skipped: fetch failed"
	case StatusSkippedNotArticle:
		return "skipped: not an article"
	default:
		return "unknown"
	}
}

// Outcome records what happened to one bookmark.
type Outcome struct {
	// URL is the bookmark URL.
	URL string

	// Title is the article title for included bookmarks, otherwise
	// the bookmark description.
	Title string

	// Status is the terminal state.
	Status Status

	// Reason carries the underlying error text for skipped bookmarks.
	Reason string
}
