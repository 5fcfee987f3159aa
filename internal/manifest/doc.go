// Package manifest generates the three documents that describe a
// periodical to the e-book compiler: the NCX navigation map consumed
// by the reading device, the OPF package manifest and spine, and the
// human-readable table-of-contents page.
//
// Build is a pure function: given the same article sequence,
// periodical id, title, and publication time, it produces byte
// identical output. All three documents embed the same periodical id
// and title so the compiler treats them as one package.
package manifest
