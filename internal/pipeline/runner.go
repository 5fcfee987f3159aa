package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tomakado/containers/set"

	"github.com/pinzine/pinzine/internal/extract"
	"github.com/pinzine/pinzine/internal/fetch"
	"github.com/pinzine/pinzine/internal/images"
	"github.com/pinzine/pinzine/internal/manifest"
	"github.com/pinzine/pinzine/internal/model"
	"github.com/pinzine/pinzine/internal/naming"
	"github.com/pinzine/pinzine/internal/normalize"
)

// Compiler is the e-book compiler the finished workspace is handed
// to. It is an interface so the pipeline can be tested without a
// kindlegen binary.
type Compiler interface {
	// Compile builds the workspace's OPF into outputFile.
	Compile(ctx context.Context, workspaceDir, opfName, outputFile string) error
}

// Result describes a completed run.
type Result struct {
	// PeriodicalID is the run's unique identifier, shared by the
	// generated documents.
	PeriodicalID string

	// Title is the periodical title.
	Title string

	// OutputFile is the .mobi path that was written.
	OutputFile string

	// StartedAt is when the run began.
	StartedAt time.Time

	// Outcomes lists every bookmark's terminal state in processing
	// order.
	Outcomes []Outcome

	// Articles are the included articles in reading order.
	Articles []model.Article

	// Images are the distinct images fetched during the run, across
	// all articles.
	Images []model.Image
}

// Included returns the number of bookmarks that became articles.
func (r *Result) Included() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == StatusIncluded {
			n++
		}
	}
	return n
}

// Runner owns the per-run state of a periodical build and drives the
// per-bookmark pipeline. Processing is strictly sequential: the image
// dedup table and the filename registry rely on it, and output order
// must follow bookmark order.
type Runner struct {
	client     *fetch.Client
	extractor  extract.Extractor
	compiler   Compiler
	title      string
	outputFile string
	skip       set.HashSet[string]
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithSkip excludes the given bookmark URLs from the run. Skipped
// URLs are never fetched.
func WithSkip(urls []string) Option {
	return func(r *Runner) {
		r.skip = set.New(urls...)
	}
}

// WithClock substitutes the time source, fixing the OPF publication
// date in tests.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		r.now = now
	}
}

// NewRunner creates a Runner. The fetch client is shared between
// article and image fetches; the compiler is typically
// kindlegen.New but tests inject a fake.
func NewRunner(client *fetch.Client, extractor extract.Extractor, compiler Compiler, title, outputFile string, opts ...Option) *Runner {
	r := &Runner{
		client:     client,
		extractor:  extractor,
		compiler:   compiler,
		title:      title,
		outputFile: outputFile,
		skip:       set.New[string](),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Run processes bookmarks oldest-first into a compiled periodical.
// Per-bookmark failures are recorded in the Result and never abort
// the run; only workspace I/O, manifest generation, and compiler
// errors are returned.
func (r *Runner) Run(ctx context.Context, bookmarks []model.Bookmark) (*Result, error) {
	result := &Result{
		PeriodicalID: manifest.NewPeriodicalID(),
		Title:        r.title,
		OutputFile:   r.outputFile,
		StartedAt:    r.now(),
	}

	workspace, err := NewWorkspace()
	if err != nil {
		return nil, err
	}
	r.logger.Debug("created build workspace", "dir", workspace.Dir())

	registry := naming.NewRegistry()
	resolver := images.NewResolver(r.client, workspace, registry, r.logger)
	normalizer := normalize.New(registry)

	seen := set.New[string]()
	for _, bookmark := range bookmarks {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		// A duplicate bookmark URL would derive the same filename and
		// produce a duplicate manifest item, which kindlegen rejects.
		// Only the first occurrence is processed.
		if seen.Contains(bookmark.URL) {
			r.logger.Debug("ignoring duplicate bookmark", "url", bookmark.URL)
			continue
		}
		seen.Add(bookmark.URL)

		outcome := r.processBookmark(ctx, bookmark, workspace, resolver, normalizer, result)
		result.Outcomes = append(result.Outcomes, outcome)
	}
	result.Images = resolver.Images()

	if err := r.assemble(ctx, workspace, result); err != nil {
		return nil, err
	}
	return result, nil
}

// processBookmark runs one bookmark to its terminal state. Included
// articles are appended to result.Articles and written to the
// workspace.
func (r *Runner) processBookmark(ctx context.Context, bookmark model.Bookmark, workspace *Workspace, resolver *images.Resolver, normalizer *normalize.Normalizer, result *Result) Outcome {
	if r.skip.Contains(bookmark.URL) {
		r.logger.Info("skipping bookmark as requested", "url", bookmark.URL)
		return Outcome{URL: bookmark.URL, Title: bookmark.Description, Status: StatusSkippedByRequest}
	}

	resp, err := r.client.Get(ctx, bookmark.URL)
	if err != nil {
		r.logger.Warn("could not fetch bookmark, skipping", "url", bookmark.URL, "error", err)
		return Outcome{URL: bookmark.URL, Title: bookmark.Description, Status: StatusSkippedFetchError, Reason: err.Error()}
	}

	readable, err := r.extractor.Extract(ctx, string(resp.Body), bookmark.URL)
	if err != nil {
		r.logger.Warn("could not extract article, skipping", "url", bookmark.URL, "error", err)
		return Outcome{URL: bookmark.URL, Title: bookmark.Description, Status: StatusSkippedNotArticle, Reason: err.Error()}
	}

	rewritten, imgs, err := resolver.Resolve(ctx, readable.BodyHTML, bookmark.URL)
	if err != nil {
		r.logger.Warn("could not resolve article images, skipping", "url", bookmark.URL, "error", err)
		return Outcome{URL: bookmark.URL, Title: bookmark.Description, Status: StatusSkippedNotArticle, Reason: err.Error()}
	}

	article := normalizer.Normalize(bookmark, readable, rewritten, imgs)
	if err := workspace.SaveDocument(article.Filename, []byte(article.BodyHTML)); err != nil {
		// Workspace writes only fail for environmental reasons (disk
		// full, permissions); the next write would fail the same way,
		// so record it and let assemble surface the problem.
		r.logger.Error("could not write article to workspace", "url", bookmark.URL, "error", err)
		return Outcome{URL: bookmark.URL, Title: article.Title, Status: StatusSkippedFetchError, Reason: err.Error()}
	}

	r.logger.Debug("saved article", "title", article.Title, "filename", article.Filename)
	result.Articles = append(result.Articles, article)
	return Outcome{URL: bookmark.URL, Title: article.Title, Status: StatusIncluded}
}

// assemble builds the manifest documents, persists them, runs the
// compiler, and removes the workspace on success.
func (r *Runner) assemble(ctx context.Context, workspace *Workspace, result *Result) error {
	docs, err := manifest.Build(result.Articles, result.PeriodicalID, result.Title, r.now())
	if err != nil {
		return err
	}

	for filename, data := range map[string][]byte{
		manifest.NCXFilename: docs.NCX,
		manifest.OPFFilename: docs.OPF,
		manifest.TOCFilename: docs.TOC,
	} {
		if err := workspace.SaveDocument(filename, data); err != nil {
			return err
		}
	}

	r.logger.Debug("running compiler", "workspace", workspace.Dir(), "output", result.OutputFile)
	if err := r.compiler.Compile(ctx, workspace.Dir(), manifest.OPFFilename, result.OutputFile); err != nil {
		r.logger.Error("compile failed, workspace retained", "dir", workspace.Dir())
		return fmt.Errorf("compile failed: %w", err)
	}

	if err := workspace.Remove(); err != nil {
		r.logger.Warn("could not remove build workspace", "dir", workspace.Dir(), "error", err)
	}
	return nil
}
