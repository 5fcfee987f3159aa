// Package naming derives workspace filenames from URLs.
//
// Every file the compiler sees (article documents and images) is named
// by collapsing the source URL: non-alphanumeric runs become a single
// dash, with non-ASCII characters folded to their ASCII base form
// first so kindlegen only ever sees portable names.
//
// Collapsing is lossy, so two distinct URLs can produce the same name.
// A Registry tracks every name assigned during a run and disambiguates
// genuine collisions with a short content-independent hash of the URL,
// while the same URL always maps back to its original name.
package naming
