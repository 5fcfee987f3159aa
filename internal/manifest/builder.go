package manifest

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pinzine/pinzine/internal/model"
)

// Workspace filenames of the generated documents. Article and image
// files reference these names, and the compiler is pointed at the OPF.
const (
	// NCXFilename is the navigation map document.
	NCXFilename = "contents.ncx"

	// OPFFilename is the package manifest document, the entry point
	// handed to kindlegen.
	OPFFilename = "content.opf"

	// TOCFilename is the human-readable table-of-contents page.
	TOCFilename = "contents.html"
)

// Documents is the generated document set, each as the exact bytes to
// persist in the build workspace.
type Documents struct {
	// NCX is the navigation map (contents.ncx).
	NCX []byte

	// OPF is the package manifest and spine (content.opf).
	OPF []byte

	// TOC is the table-of-contents page (contents.html).
	TOC []byte
}

// NewPeriodicalID returns a run-scoped unique identifier: a random
// 128-bit token rendered as 32 hex digits. All three generated
// documents embed it so the compiler can correlate them.
func NewPeriodicalID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Build produces the document set for an ordered article sequence.
// The order of articles is the reading order; published becomes the
// OPF publication date and must be supplied by the caller so the
// output stays fully determined by its inputs.
//
// An empty article slice still produces structurally valid documents:
// an empty navMap, a manifest containing only the NCX and TOC items,
// and a TOC page with no entries.
func Build(articles []model.Article, periodicalID, title string, published time.Time) (Documents, error) {
	ncx, err := buildNCX(articles, periodicalID, title)
	if err != nil {
		return Documents{}, fmt.Errorf("failed to build navigation map: %w", err)
	}

	opf, err := buildOPF(articles, periodicalID, title, published)
	if err != nil {
		return Documents{}, fmt.Errorf("failed to build package manifest: %w", err)
	}

	return Documents{
		NCX: ncx,
		OPF: opf,
		TOC: buildTOC(articles, title),
	}, nil
}
