package images

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pinzine/pinzine/internal/fetch"
	"github.com/pinzine/pinzine/internal/naming"
)

// memorySink collects saved images in memory for inspection.
type memorySink struct {
	saved map[string][]byte
	fail  bool
}

func newMemorySink() *memorySink {
	return &memorySink{saved: make(map[string][]byte)}
}

func (s *memorySink) SaveImage(filename string, data []byte) error {
	if s.fail {
		return &failedSaveError{}
	}
	s.saved[filename] = data
	return nil
}

type failedSaveError struct{}

func (e *failedSaveError) Error() string { return "disk full" }

// quietLogger discards all log output.
func quietLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// imageServer serves fake image bytes and counts requests per path.
func imageServer(t *testing.T, hits *atomic.Int64) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch {
		case strings.HasSuffix(r.URL.Path, ".png"):
			w.Header().Set("Content-Type", "image/png")
		case strings.HasSuffix(r.URL.Path, ".gif"):
			w.Header().Set("Content-Type", "image/gif")
		case strings.HasSuffix(r.URL.Path, ".svg"):
			w.Header().Set("Content-Type", "image/svg+xml")
		case strings.HasSuffix(r.URL.Path, ".html"):
			w.Header().Set("Content-Type", "text/html")
		case strings.HasSuffix(r.URL.Path, "missing"):
			w.WriteHeader(http.StatusNotFound)
			return
		default:
			w.Header().Set("Content-Type", "image/jpeg")
		}
		_, _ = w.Write([]byte("imagebytes"))
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestResolver(sink Sink) *Resolver {
	return NewResolver(fetch.New(5*time.Second), sink, naming.NewRegistry(), quietLogger())
}

// TestResolverResolve tests reference discovery, rewriting, and dedup.
func TestResolverResolve(t *testing.T) {
	t.Parallel()

	t.Run("rewrites double-quoted src to local filename", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int64
		server := imageServer(t, &hits)
		sink := newMemorySink()
		resolver := newTestResolver(sink)

		body := `<p><img src="` + server.URL + `/photo"/></p>`
		rewritten, imgs, err := resolver.Resolve(context.Background(), body, server.URL+"/article")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(imgs) != 1 {
			t.Fatalf("expected 1 image, got %d", len(imgs))
		}
		if imgs[0].ContentType != "image/jpeg" {
			t.Errorf("expected content type 'image/jpeg', got %q", imgs[0].ContentType)
		}
		if !strings.HasSuffix(imgs[0].LocalFilename, ".jpeg") {
			t.Errorf("expected .jpeg filename, got %q", imgs[0].LocalFilename)
		}
		if !strings.Contains(rewritten, `src="`+imgs[0].LocalFilename+`"`) {
			t.Errorf("expected rewritten src, got %q", rewritten)
		}
		if _, ok := sink.saved[imgs[0].LocalFilename]; !ok {
			t.Errorf("expected image persisted under %q", imgs[0].LocalFilename)
		}
	})

	t.Run("rewrites single-quoted src preserving quote style", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int64
		server := imageServer(t, &hits)
		resolver := newTestResolver(newMemorySink())

		body := `<img src='` + server.URL + `/pic.png'/>`
		rewritten, imgs, err := resolver.Resolve(context.Background(), body, server.URL+"/article")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(imgs) != 1 {
			t.Fatalf("expected 1 image, got %d", len(imgs))
		}
		if !strings.Contains(rewritten, "src='"+imgs[0].LocalFilename+"'") {
			t.Errorf("expected single-quoted rewrite, got %q", rewritten)
		}
	})

	t.Run("relative references resolve against the article URL", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int64
		server := imageServer(t, &hits)
		resolver := newTestResolver(newMemorySink())

		body := `<img src="../media/pic.gif"/>`
		_, imgs, err := resolver.Resolve(context.Background(), body, server.URL+"/posts/article")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(imgs) != 1 {
			t.Fatalf("expected 1 image, got %d", len(imgs))
		}
		if imgs[0].SourceURL != server.URL+"/media/pic.gif" {
			t.Errorf("expected resolved URL, got %q", imgs[0].SourceURL)
		}
		if imgs[0].ContentType != "image/gif" {
			t.Errorf("expected 'image/gif', got %q", imgs[0].ContentType)
		}
	})

	t.Run("repeated reference is fetched once", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int64
		server := imageServer(t, &hits)
		resolver := newTestResolver(newMemorySink())

		body := `<img src="/a.png"/><img src="/a.png"/>`
		_, imgs, err := resolver.Resolve(context.Background(), body, server.URL+"/article")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if hits.Load() != 1 {
			t.Errorf("expected 1 fetch, got %d", hits.Load())
		}
		if len(imgs) != 1 {
			t.Errorf("expected 1 distinct image, got %d", len(imgs))
		}
	})

	t.Run("image shared across articles is fetched once per run", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int64
		server := imageServer(t, &hits)
		resolver := newTestResolver(newMemorySink())

		first := `<img src="/shared.png"/>`
		second := `<img src="/shared.png"/>`

		_, firstImgs, err := resolver.Resolve(context.Background(), first, server.URL+"/a")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		_, secondImgs, err := resolver.Resolve(context.Background(), second, server.URL+"/b")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if hits.Load() != 1 {
			t.Errorf("expected 1 fetch across articles, got %d", hits.Load())
		}
		if len(firstImgs) != 1 || len(secondImgs) != 1 {
			t.Fatalf("expected both articles to reference the image")
		}
		if firstImgs[0].LocalFilename != secondImgs[0].LocalFilename {
			t.Errorf("expected one local file, got %q and %q",
				firstImgs[0].LocalFilename, secondImgs[0].LocalFilename)
		}
	})

	t.Run("failed fetch leaves the reference untouched", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int64
		server := imageServer(t, &hits)
		resolver := newTestResolver(newMemorySink())

		body := `<img src="/missing"/>`
		rewritten, imgs, err := resolver.Resolve(context.Background(), body, server.URL+"/article")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if rewritten != body {
			t.Errorf("expected body unchanged, got %q", rewritten)
		}
		if len(imgs) != 0 {
			t.Errorf("expected no image records, got %d", len(imgs))
		}
	})

	t.Run("failed URL is not refetched on later references", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int64
		server := imageServer(t, &hits)
		resolver := newTestResolver(newMemorySink())

		body := `<img src="/missing"/><img src="/missing"/>`
		if _, _, err := resolver.Resolve(context.Background(), body, server.URL+"/article"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if hits.Load() != 1 {
			t.Errorf("expected 1 fetch attempt for the failed URL, got %d", hits.Load())
		}
	})

	t.Run("non-image content type is still rewritten", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int64
		server := imageServer(t, &hits)
		sink := newMemorySink()
		resolver := newTestResolver(sink)

		body := `<img src="/tracker.html"/>`
		rewritten, imgs, err := resolver.Resolve(context.Background(), body, server.URL+"/article")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(imgs) != 1 {
			t.Fatalf("expected 1 image record, got %d", len(imgs))
		}
		if strings.Contains(rewritten, server.URL) {
			t.Errorf("expected reference rewritten, got %q", rewritten)
		}
	})

	t.Run("uncommon image type gets no extension", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int64
		server := imageServer(t, &hits)
		resolver := newTestResolver(newMemorySink())

		body := `<img src="/diagram.svg"/>`
		_, imgs, err := resolver.Resolve(context.Background(), body, server.URL+"/article")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(imgs) != 1 {
			t.Fatalf("expected 1 image, got %d", len(imgs))
		}
		if strings.Contains(imgs[0].LocalFilename, ".") {
			t.Errorf("expected unextended filename, got %q", imgs[0].LocalFilename)
		}
	})

	t.Run("sink failure leaves the reference untouched", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int64
		server := imageServer(t, &hits)
		sink := newMemorySink()
		sink.fail = true
		resolver := newTestResolver(sink)

		body := `<img src="/pic.png"/>`
		rewritten, imgs, err := resolver.Resolve(context.Background(), body, server.URL+"/article")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if rewritten != body {
			t.Errorf("expected body unchanged, got %q", rewritten)
		}
		if len(imgs) != 0 {
			t.Errorf("expected no image records, got %d", len(imgs))
		}
	})

	t.Run("markup without images passes through", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int64
		_ = imageServer(t, &hits)
		resolver := newTestResolver(newMemorySink())

		body := `<p>no pictures here</p>`
		rewritten, imgs, err := resolver.Resolve(context.Background(), body, "https://example.com/article")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rewritten != body || len(imgs) != 0 {
			t.Errorf("expected pass-through, got %q with %d images", rewritten, len(imgs))
		}
	})

	t.Run("invalid base URL returns error", func(t *testing.T) {
		t.Parallel()

		resolver := newTestResolver(newMemorySink())
		if _, _, err := resolver.Resolve(context.Background(), "<img src=\"/a\"/>", "://bad"); err == nil {
			t.Error("expected error for invalid base URL")
		}
	})

	t.Run("case-insensitive SRC attribute is matched", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int64
		server := imageServer(t, &hits)
		resolver := newTestResolver(newMemorySink())

		body := `<IMG SRC="/up.png"/>`
		rewritten, imgs, err := resolver.Resolve(context.Background(), body, server.URL+"/article")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(imgs) != 1 {
			t.Fatalf("expected 1 image, got %d", len(imgs))
		}
		if !strings.Contains(rewritten, imgs[0].LocalFilename) {
			t.Errorf("expected rewritten uppercase attribute, got %q", rewritten)
		}
	})
}

// TestResolverMalformedMarkup tests the scanner against broken HTML.
// Readability output is not guaranteed to be well formed, so the
// scanner must rewrite what it can recognize and leave the rest alone.
func TestResolverMalformedMarkup(t *testing.T) {
	t.Parallel()

	t.Run("unclosed tag still gets its src rewritten", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int64
		server := imageServer(t, &hits)
		resolver := newTestResolver(newMemorySink())

		body := `<p>before<img src="/pic.png" alt="x<p>after</p>`
		rewritten, imgs, err := resolver.Resolve(context.Background(), body, server.URL+"/article")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(imgs) != 1 {
			t.Fatalf("expected 1 image, got %d", len(imgs))
		}
		if !strings.Contains(rewritten, `src="`+imgs[0].LocalFilename+`"`) {
			t.Errorf("expected rewritten src, got %q", rewritten)
		}
		if !strings.Contains(rewritten, "<p>after</p>") {
			t.Errorf("expected surrounding markup preserved, got %q", rewritten)
		}
	})

	t.Run("unterminated quoted src is left in place", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int64
		server := imageServer(t, &hits)
		resolver := newTestResolver(newMemorySink())

		body := `<img src="/pic.png`
		rewritten, imgs, err := resolver.Resolve(context.Background(), body, server.URL+"/article")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if rewritten != body {
			t.Errorf("expected body unchanged, got %q", rewritten)
		}
		if len(imgs) != 0 || hits.Load() != 0 {
			t.Errorf("expected no fetch for unterminated src, got %d images and %d hits", len(imgs), hits.Load())
		}
	})

	t.Run("src among broken surrounding attributes is recognized", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int64
		server := imageServer(t, &hits)
		resolver := newTestResolver(newMemorySink())

		body := `<img alt="x"y src='/pic.gif' class= ></img`
		rewritten, imgs, err := resolver.Resolve(context.Background(), body, server.URL+"/article")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(imgs) != 1 {
			t.Fatalf("expected 1 image, got %d", len(imgs))
		}
		if !strings.Contains(rewritten, "src='"+imgs[0].LocalFilename+"'") {
			t.Errorf("expected rewritten src, got %q", rewritten)
		}
		if !strings.Contains(rewritten, `</img`) {
			t.Errorf("expected broken close tag preserved, got %q", rewritten)
		}
	})

	t.Run("unquoted src is left in place", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int64
		server := imageServer(t, &hits)
		resolver := newTestResolver(newMemorySink())

		body := `<img src=/bare.png>`
		rewritten, imgs, err := resolver.Resolve(context.Background(), body, server.URL+"/article")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if rewritten != body {
			t.Errorf("expected body unchanged, got %q", rewritten)
		}
		if len(imgs) != 0 || hits.Load() != 0 {
			t.Errorf("expected no fetch for unquoted src, got %d images and %d hits", len(imgs), hits.Load())
		}
	})
}

// TestResolverImages tests the run-level image inventory.
func TestResolverImages(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64
	server := imageServer(t, &hits)
	resolver := newTestResolver(newMemorySink())

	body := `<img src="/a.png"/><img src="/b.gif"/>`
	if _, _, err := resolver.Resolve(context.Background(), body, server.URL+"/article"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := len(resolver.Images()); got != 2 {
		t.Errorf("expected 2 fetched images, got %d", got)
	}
}

// TestExtensionFor tests content-type to extension mapping.
func TestExtensionFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		contentType string
		wantExt     string
		wantIsImage bool
	}{
		{name: "jpeg", contentType: "image/jpeg", wantExt: ".jpeg", wantIsImage: true},
		{name: "legacy jpg alias", contentType: "image/jpg", wantExt: ".jpeg", wantIsImage: true},
		{name: "png", contentType: "image/png", wantExt: ".png", wantIsImage: true},
		{name: "gif", contentType: "image/gif", wantExt: ".gif", wantIsImage: true},
		{name: "other image type unextended", contentType: "image/webp", wantExt: "", wantIsImage: true},
		{name: "non-image", contentType: "text/html", wantExt: "", wantIsImage: false},
		{name: "empty", contentType: "", wantExt: "", wantIsImage: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ext, isImage := extensionFor(tt.contentType)
			if ext != tt.wantExt || isImage != tt.wantIsImage {
				t.Errorf("extensionFor(%q) = (%q, %v), want (%q, %v)",
					tt.contentType, ext, isImage, tt.wantExt, tt.wantIsImage)
			}
		})
	}
}
