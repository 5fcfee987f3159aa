package images

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/tomakado/containers/set"

	"github.com/pinzine/pinzine/internal/fetch"
	"github.com/pinzine/pinzine/internal/model"
	"github.com/pinzine/pinzine/internal/naming"
)

// srcAttr matches src attributes in arbitrary markup. Go's regexp has
// no backreferences, so the two quote styles are separate alternatives
// rather than the usual captured-quote trick; each alternative excludes
// its own quote character, which also keeps the match from running
// across attributes.
var srcAttr = regexp.MustCompile(`(?i)(src\s*=\s*)(?:"([^"]*)"|'([^']*)')`)

// Sink persists fetched image bytes to the build workspace.
type Sink interface {
	// SaveImage writes data under filename in the workspace.
	SaveImage(filename string, data []byte) error
}

// Resolver finds, fetches, and rewrites image references.
// State is scoped to one periodical build: the dedup table and the
// filename registry live for the whole run, so articles sharing an
// image share one fetch and one local file. Not safe for concurrent
// use; the pipeline processes articles sequentially.
type Resolver struct {
	client   *fetch.Client
	sink     Sink
	registry *naming.Registry
	logger   *slog.Logger

	// fetched maps an absolute image URL to its Image record.
	fetched map[string]model.Image

	// failed remembers URLs whose fetch already failed, so later
	// references skip the network and keep their original src.
	failed set.HashSet[string]
}

// NewResolver creates a Resolver. The registry is shared with article
// naming so image and document filenames can never collide in the
// workspace.
func NewResolver(client *fetch.Client, sink Sink, registry *naming.Registry, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		client:   client,
		sink:     sink,
		registry: registry,
		logger:   logger,
		fetched:  make(map[string]model.Image),
		failed:   set.New[string](),
	}
}

// Resolve scans bodyHTML for image references, downloads each distinct
// image once per run, and rewrites successful references to their
// local filenames. It returns the rewritten HTML and the distinct
// Image records referenced by this body, in first-reference order.
//
// Failures are per-image: a reference that cannot be fetched keeps its
// original URL and produces no Image record.
func (r *Resolver) Resolve(ctx context.Context, bodyHTML, baseURL string) (string, []model.Image, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}

	var referenced []model.Image
	seen := set.New[string]()

	rewritten := srcAttr.ReplaceAllStringFunc(bodyHTML, func(match string) string {
		groups := srcAttr.FindStringSubmatch(match)
		prefix := groups[1]
		quote := `"`
		ref := groups[2]
		if groups[3] != "" || !strings.Contains(match, `"`) {
			quote = `'`
			ref = groups[3]
		}

		img, ok := r.resolveOne(ctx, base, ref)
		if !ok {
			return match
		}
		if !seen.Contains(img.SourceURL) {
			seen.Add(img.SourceURL)
			referenced = append(referenced, img)
		}
		return prefix + quote + img.LocalFilename + quote
	})

	return rewritten, referenced, nil
}

// resolveOne maps a single src reference to its Image record, fetching
// on first sight. The second return is false when the reference should
// stay untouched.
func (r *Resolver) resolveOne(ctx context.Context, base *url.URL, ref string) (model.Image, bool) {
	parsed, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		r.logger.Debug("unparseable image reference left in place", "ref", ref)
		return model.Image{}, false
	}
	absolute := base.ResolveReference(parsed).String()

	if img, ok := r.fetched[absolute]; ok {
		return img, true
	}
	if r.failed.Contains(absolute) {
		return model.Image{}, false
	}

	resp, err := r.client.Get(ctx, absolute)
	if err != nil {
		r.logger.Debug("image fetch failed, reference left in place", "url", absolute, "error", err)
		r.failed.Add(absolute)
		return model.Image{}, false
	}

	contentType := resp.ContentType
	ext, isImage := extensionFor(contentType)
	if !isImage {
		r.logger.Warn("image reference returned non-image content type", "url", absolute, "content_type", contentType)
	}

	filename := r.registry.Claim(absolute, ext)
	if err := r.sink.SaveImage(filename, resp.Body); err != nil {
		r.logger.Warn("failed to persist image, reference left in place", "url", absolute, "error", err)
		r.failed.Add(absolute)
		return model.Image{}, false
	}

	img := model.Image{
		SourceURL:     absolute,
		LocalFilename: filename,
		ContentType:   contentType,
	}
	r.fetched[absolute] = img
	return img, true
}

// Images returns every Image fetched during the run, in no particular
// order. The manifest builder dedups by filename, so ordering here
// does not matter.
func (r *Resolver) Images() []model.Image {
	images := make([]model.Image, 0, len(r.fetched))
	for _, img := range r.fetched {
		images = append(images, img)
	}
	return images
}

// extensionFor maps a declared content type to a filename extension.
// Only the formats kindlegen reliably renders get an extension; other
// image types keep the unextended name (kindlegen sniffs them), and
// non-image types are accepted but reported by the caller.
func extensionFor(contentType string) (ext string, isImage bool) {
	switch contentType {
	case "image/jpg", "image/jpeg":
		return ".jpeg", true
	case "image/gif":
		return ".gif", true
	case "image/png":
		return ".png", true
	}
	if strings.HasPrefix(contentType, "image/") {
		return "", true
	}
	return "", false
}
