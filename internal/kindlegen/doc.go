// Package kindlegen invokes Amazon's kindlegen compiler as a
// subprocess to turn the assembled workspace into a .mobi periodical.
//
// kindlegen's exit convention needs care: it exits non-zero for
// warnings as well as errors, and warnings are expected for real-world
// article markup. A build whose output contains the warning marker is
// treated as success; anything else retains the compiler output in a
// log file next to the requested output so the user can diagnose it.
package kindlegen
