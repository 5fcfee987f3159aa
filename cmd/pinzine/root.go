// Package main provides the entry point for the pinzine CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for pinzine.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pinzine",
		Short: "Build a Kindle periodical from your unread Pinboard bookmarks",
		Long: `pinzine turns a Pinboard user's unread bookmark queue into a single
offline-readable Kindle periodical (.mobi).

Each unread bookmark is fetched, stripped down to readable article
content, and bound into one magazine with a table of contents and
per-article navigation. Building the .mobi requires Amazon's kindlegen
binary on the PATH (or --kindlegen).`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewBuildCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
