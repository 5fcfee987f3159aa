package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/spf13/cobra"

	"github.com/pinzine/pinzine/internal/config"
	"github.com/pinzine/pinzine/internal/database"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past periodical builds",
		Long: `History lists past builds recorded in the local run archive,
newest first, with per-run bookmark counts.

Examples:
  # Show the ten most recent builds
  pinzine history

  # Show more
  pinzine history --limit 50

  # Show the per-bookmark outcomes of run 3
  pinzine history --run 3`,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "l", 10, "Maximum number of runs to list")
	cmd.Flags().Int64("run", 0, "Show per-bookmark outcomes for the given run id")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	runID, err := cmd.Flags().GetInt64("run")
	if err != nil {
		return err
	}

	db, err := database.Open(config.XDGDataDir())
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	if runID > 0 {
		return printOutcomes(cmd, db, runID)
	}
	return printRuns(cmd, db, limit)
}

// printRuns renders the recent run list as a markdown table.
func printRuns(cmd *cobra.Command, db *database.HistoryDB, limit int) error {
	runs, err := db.RecentRuns(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("No builds recorded yet. Run 'pinzine build' first.")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			strconv.FormatInt(r.ID, 10),
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			r.Title,
			r.OutputFile,
			strconv.Itoa(r.Included),
			strconv.Itoa(r.Skipped),
		})
	}

	return markdown.NewMarkdown(os.Stdout).
		H1("pinzine build history").
		Table(markdown.TableSet{
			Header: []string{"ID", "Started", "Title", "Output", "Included", "Skipped"},
			Rows:   rows,
		}).
		Build()
}

// printOutcomes renders the per-bookmark outcomes of one run.
func printOutcomes(cmd *cobra.Command, db *database.HistoryDB, runID int64) error {
	outcomes, err := db.Outcomes(cmd.Context(), runID)
	if err != nil {
		return fmt.Errorf("failed to list outcomes: %w", err)
	}

	if len(outcomes) == 0 {
		fmt.Printf("No outcomes recorded for run %d.\n", runID)
		return nil
	}

	rows := make([][]string, 0, len(outcomes))
	for _, o := range outcomes {
		rows = append(rows, []string{o.URL, o.Title, o.Status.String(), o.Reason})
	}

	return markdown.NewMarkdown(os.Stdout).
		H1(fmt.Sprintf("Run %d outcomes", runID)).
		Table(markdown.TableSet{
			Header: []string{"URL", "Title", "Status", "Reason"},
			Rows:   rows,
		}).
		Build()
}
