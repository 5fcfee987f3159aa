package model

// Bookmark is a single saved URL from the Pinboard unread feed.
// The feed returns bookmarks newest-first; the pipeline reverses the
// trailing slice it wants so processing runs oldest-first.
//
// Field names mirror the Pinboard JSON feed, which uses single-letter
// keys ("u" for URL, "d" for description, "n" for note, "dt" for time).
type Bookmark struct {
	// URL is the bookmarked page address.
	URL string `json:"u"`

	// Description is the user-supplied bookmark title.
	Description string `json:"d"`

	// Note is the user-supplied free-form note, if any.
	Note string `json:"n"`

	// Time is the bookmark creation time as reported by the feed
	// (RFC 3339). Kept as a string because the pipeline only uses it
	// for display and never does arithmetic on it.
	Time string `json:"dt"`
}

// ReadableContent is the output of the readability extractor: the
// boilerplate-stripped article pulled out of a raw page.
//
// All fields are untrusted. BodyHTML in particular may be malformed
// markup and is never re-validated; missing fields are empty strings.
type ReadableContent struct {
	// Title is the extracted article title. May be empty.
	Title string

	// Author is the extracted byline. May be empty.
	Author string

	// Domain is the host the article was fetched from, used as the
	// byline link text and in the title fallback chain.
	Domain string

	// Excerpt is a short plain-text summary of the article body.
	Excerpt string

	// Dek is an editorial subtitle when the extractor provides one.
	// The default go-readability extractor does not, so this is
	// usually empty.
	Dek string

	// BodyHTML is the extracted article body markup.
	BodyHTML string
}
