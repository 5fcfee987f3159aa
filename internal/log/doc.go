// Package log provides slog helpers for pinzine.
//
// The pipeline handles the user's Pinboard password and the account's
// feed secret, both of which grant access to the user's bookmarks. The
// RedactingHandler wraps any slog.Handler and masks attribute values
// that look like credentials before they reach the underlying handler,
// so debug logging of requests can never leak them.
package log
