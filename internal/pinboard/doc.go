// Package pinboard is the client for the Pinboard bookmark service.
//
// Two endpoints are used: the authenticated API endpoint that exchanges
// the user's password for the account's feed secret, and the public
// feed endpoint that returns the unread bookmark queue for a secret.
// The feed returns bookmarks newest-first; Oldest selects the trailing
// slice and reverses it so the pipeline reads oldest-first.
package pinboard
