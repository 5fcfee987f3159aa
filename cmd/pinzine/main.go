// Package main provides the entry point for the pinzine CLI.
//
// pinzine builds a Kindle periodical (.mobi) from a Pinboard user's
// unread bookmark queue: each bookmark is fetched, reduced to readable
// article content, and bound into a single offline magazine.
//
// Usage:
//
//	pinzine build -u <username>
//	pinzine history
//
// See --help for all available options.
package main

// main is the entry point for pinzine.
func main() {
	Execute()
}
