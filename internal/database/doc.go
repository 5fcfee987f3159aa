// Package database persists a history of periodical builds in SQLite.
//
// The archive is an audit log, not a build input: the pipeline never
// reads it, so a corrupt or missing database can only cost history,
// never a periodical. Each run stores one row of summary data plus one
// row per bookmark outcome, which the history command lists.
package database
