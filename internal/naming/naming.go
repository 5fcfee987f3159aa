package naming

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// nonWordRuns matches runs of characters that may not appear in a
// workspace filename. Underscores are collapsed along with symbols so
// "a_b" and "a b" derive the same name, matching the single-separator
// contract.
var nonWordRuns = regexp.MustCompile(`[\W_]+`)

// asciiFold decomposes accented characters and drops the combining
// marks, so "café" slugs as "cafe" rather than losing the rune.
var asciiFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slug collapses a URL (or any string) into a filename-safe base:
// ASCII-folded, with every non-alphanumeric run replaced by a single
// dash. Leading and trailing dashes are kept, mirroring the observed
// output for URLs like "https://example.com/" ("https-example-com-").
func Slug(s string) string {
	folded, _, err := transform.String(asciiFold, s)
	if err != nil {
		// Fold failure leaves the input usable, just less pretty;
		// the collapse below still guarantees a safe name.
		folded = s
	}
	return nonWordRuns.ReplaceAllString(folded, "-")
}

// Registry assigns unique filenames within a single run.
// It is not safe for concurrent use; the pipeline is sequential.
type Registry struct {
	// owner maps an assigned filename to the claim that holds it.
	owner map[string]claim

	// assigned maps a claim back to the filename it received, so
	// repeated claims for the same URL and extension are stable.
	assigned map[claim]string
}

// claim identifies one filename request. The extension is part of the
// key: a document and an image derived from the same URL are distinct
// workspace files and must never share a name.
type claim struct {
	url string
	ext string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		owner:    make(map[string]claim),
		assigned: make(map[claim]string),
	}
}

// Claim derives a filename for url with the given extension (which
// may be empty) and registers it. The same URL and extension always
// receive the same filename. Any other claim whose derived name is
// already taken gets "-<hash>" inserted before the extension, where
// the hash is the first 8 hex digits of SHA-256(url).
func (r *Registry) Claim(url, ext string) string {
	c := claim{url: url, ext: ext}
	if name, ok := r.assigned[c]; ok {
		return name
	}

	name := Slug(url) + ext
	if holder, taken := r.owner[name]; taken && holder != c {
		name = Slug(url) + "-" + shortHash(url) + ext
	}

	r.owner[name] = c
	r.assigned[c] = name
	return name
}

// shortHash returns the first 8 hex digits of SHA-256(s).
func shortHash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:8]
}
