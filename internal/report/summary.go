package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/samber/lo"

	"github.com/pinzine/pinzine/internal/pipeline"
)

// SummaryWriter renders pipeline results as Markdown.
type SummaryWriter struct {
	output io.Writer
}

// NewSummaryWriter creates a SummaryWriter targeting output.
func NewSummaryWriter(output io.Writer) *SummaryWriter {
	return &SummaryWriter{output: output}
}

// Write renders the build summary for a completed run.
func (w *SummaryWriter) Write(result *pipeline.Result) error {
	md := markdown.NewMarkdown(w.output)

	md.H1("pinzine build summary")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Title", result.Title},
			{"Periodical ID", "`" + result.PeriodicalID + "`"},
			{"Output", "`" + result.OutputFile + "`"},
			{"Started", result.StartedAt.UTC().Format("2006-01-02 15:04:05 MST")},
			{"Included", strconv.Itoa(result.Included())},
			{"Skipped", strconv.Itoa(len(result.Outcomes) - result.Included())},
			{"Images", strconv.Itoa(len(result.Images))},
		},
	})
	md.PlainText("")

	included := lo.Filter(result.Outcomes, func(o pipeline.Outcome, _ int) bool {
		return o.Status == pipeline.StatusIncluded
	})
	if len(included) > 0 {
		md.H2("Included articles")
		md.BulletList(lo.Map(included, func(o pipeline.Outcome, _ int) string {
			return o.Title + " (" + o.URL + ")"
		})...)
		md.PlainText("")
	}

	skipped := lo.Filter(result.Outcomes, func(o pipeline.Outcome, _ int) bool {
		return o.Status != pipeline.StatusIncluded
	})
	if len(skipped) > 0 {
		md.H2("Skipped bookmarks")
		md.Table(markdown.TableSet{
			Header: []string{"URL", "Status", "Reason"},
			Rows: lo.Map(skipped, func(o pipeline.Outcome, _ int) []string {
				return []string{o.URL, o.Status.String(), o.Reason}
			}),
		})
	}

	return md.Build()
}
