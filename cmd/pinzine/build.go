package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pinzine/pinzine/internal/config"
	"github.com/pinzine/pinzine/internal/database"
	"github.com/pinzine/pinzine/internal/extract"
	"github.com/pinzine/pinzine/internal/fetch"
	"github.com/pinzine/pinzine/internal/kindlegen"
	pinlog "github.com/pinzine/pinzine/internal/log"
	"github.com/pinzine/pinzine/internal/pinboard"
	"github.com/pinzine/pinzine/internal/pipeline"
	"github.com/pinzine/pinzine/internal/report"
)

// NewBuildCmd creates the build command.
func NewBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a periodical from your unread bookmarks",
		Long: `Build fetches your oldest unread Pinboard bookmarks, extracts readable
article content from each, downloads embedded images, and compiles
everything into a single .mobi periodical with kindlegen.

Bookmarks that cannot be fetched or do not contain article content are
skipped with a log message; the run continues with the rest.

Examples:
  # Build a periodical from the 20 oldest unread bookmarks
  pinzine build -u myname

  # Include 50 articles and write to a specific file
  pinzine build -u myname -n 50 -o unread.mobi

  # Exclude specific URLs from this run
  pinzine build -u myname --skip https://example.com/skip-me

  # Write a Markdown build summary alongside the periodical
  pinzine build -u myname --report summary.md`,
		RunE: runBuildCmd,
	}

	cmd.Flags().StringP("username", "u", "", "Pinboard username to build the periodical for")
	cmd.Flags().IntP("items", "n", config.DefaultItems, "Number of unread bookmarks to include")
	cmd.Flags().StringP("output", "o", config.DefaultOutputFile, "Output .mobi file path")
	cmd.Flags().String("title", config.DefaultTitle, "Periodical title")
	cmd.Flags().StringArray("skip", nil, "Bookmark URL to exclude (repeatable)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout, "Per-request timeout for all network calls")
	cmd.Flags().String("kindlegen", config.DefaultKindlegenPath, "Path to the kindlegen binary")
	cmd.Flags().StringP("config", "c", "", "Configuration file path (default: .pinzine in current or home directory)")
	cmd.Flags().String("report", "", "Write a Markdown build summary to this file")
	cmd.Flags().Bool("no-history", false, "Do not record this run in the build history")

	return cmd
}

// runBuildCmd executes the build command.
func runBuildCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// The redacting logger keeps the password and feed secret out of
	// log output even at debug level.
	logger := pinlog.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	password, err := readPassword(ctx, cfg.Username)
	if err != nil {
		if ctx.Err() != nil {
			// The user interrupted the prompt; abort quietly with no
			// output, as if the run never started.
			return nil
		}
		return err
	}

	return runBuild(ctx, cfg, password, logger)
}

// buildConfig creates a Config from defaults, the config file, and
// flags, in that order of precedence.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicitly requested config file must exist; the default
	// file is optional.
	if found := config.FindFile(configPath); found != "" {
		if err := config.LoadFile(found, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", found, err)
		}
	} else if configPath != "" {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	if cmd.Flags().Changed("username") {
		cfg.Username, _ = cmd.Flags().GetString("username")
	}
	if cmd.Flags().Changed("items") {
		cfg.Items, _ = cmd.Flags().GetInt("items")
	}
	if cmd.Flags().Changed("output") {
		cfg.OutputFile, _ = cmd.Flags().GetString("output")
	}
	if cmd.Flags().Changed("title") {
		cfg.Title, _ = cmd.Flags().GetString("title")
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Timeout, _ = cmd.Flags().GetDuration("timeout")
	}
	if cmd.Flags().Changed("kindlegen") {
		cfg.KindlegenPath, _ = cmd.Flags().GetString("kindlegen")
	}
	if cmd.Flags().Changed("report") {
		cfg.ReportFile, _ = cmd.Flags().GetString("report")
	}
	if noHistory, _ := cmd.Flags().GetBool("no-history"); noHistory {
		cfg.SaveHistory = false
	}

	// Skip URLs accumulate across the config file and flags rather
	// than overriding.
	if skip, _ := cmd.Flags().GetStringArray("skip"); len(skip) > 0 {
		cfg.Skip = append(cfg.Skip, skip...)
	}

	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
}

// getVerboseFlag retrieves the verbose flag from the command or its
// parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// readPassword prompts for the Pinboard password without echoing it.
// When stdin is not a terminal (scripts, tests), a line is read
// instead.
func readPassword(ctx context.Context, username string) (string, error) {
	fmt.Fprintf(os.Stderr, "Password for %s: ", username)

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		password, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(password), nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// runBuild executes the build: authenticate, fetch the queue, run the
// pipeline, and record the results.
func runBuild(ctx context.Context, cfg *config.Config, password string, logger *slog.Logger) error {
	client := pinboard.New(cfg.Timeout, pinboard.WithUserAgent(fetch.DefaultUserAgent))

	secret, err := client.FetchSecret(ctx, cfg.Username, password)
	if err != nil {
		if errors.Is(err, pinboard.ErrAuthFailed) {
			return err
		}
		return fmt.Errorf("failed to authenticate with Pinboard: %w", err)
	}

	feed, err := client.FetchUnread(ctx, cfg.Username, secret, config.FeedRequestCount)
	if err != nil {
		return fmt.Errorf("failed to fetch unread bookmarks: %w", err)
	}
	bookmarks := pinboard.Oldest(feed, cfg.Items)
	logger.Debug("using oldest bookmarks", "selected", len(bookmarks), "available", len(feed))

	runner := pipeline.NewRunner(
		fetch.New(cfg.Timeout, fetch.WithMaxBodySize(cfg.MaxBodySize)),
		extract.NewReadability(),
		kindlegen.New(cfg.KindlegenPath),
		cfg.Title,
		cfg.OutputFile,
		pipeline.WithLogger(logger),
		pipeline.WithSkip(cfg.Skip),
	)

	result, err := runner.Run(ctx, bookmarks)
	if err != nil {
		return err
	}

	fmt.Printf("Wrote %s: %d articles included, %d bookmarks skipped\n",
		result.OutputFile, result.Included(), len(result.Outcomes)-result.Included())

	// History and report failures cost records, never the periodical.
	if cfg.SaveHistory {
		if err := saveHistory(ctx, result); err != nil {
			logger.Warn("failed to record build history", "error", err)
		}
	}
	if cfg.ReportFile != "" {
		if err := writeReport(cfg.ReportFile, result); err != nil {
			logger.Warn("failed to write build summary", "file", cfg.ReportFile, "error", err)
		}
	}

	return nil
}

// saveHistory archives the run in the XDG data directory.
func saveHistory(ctx context.Context, result *pipeline.Result) error {
	db, err := database.Open(config.XDGDataDir())
	if err != nil {
		return err
	}
	defer db.Close()
	return db.SaveRun(ctx, result)
}

// writeReport writes the Markdown build summary.
func writeReport(path string, result *pipeline.Result) error {
	f, err := os.Create(path) //nolint:gosec // User-provided report path is intentional
	if err != nil {
		return err
	}
	defer f.Close()
	return report.NewSummaryWriter(f).Write(result)
}
