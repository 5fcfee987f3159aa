package naming

import (
	"strings"
	"testing"
)

// TestSlug tests URL-to-filename collapsing.
func TestSlug(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "typical article URL",
			input: "https://example.com/posts/hello-world",
			want:  "https-example-com-posts-hello-world",
		},
		{
			name:  "trailing slash keeps trailing dash",
			input: "https://example.com/",
			want:  "https-example-com-",
		},
		{
			name:  "query string collapses",
			input: "https://example.com/a?b=1&c=2",
			want:  "https-example-com-a-b-1-c-2",
		},
		{
			name:  "underscores collapse with symbols",
			input: "a_b c",
			want:  "a-b-c",
		},
		{
			name:  "consecutive separators become one dash",
			input: "a//__--b",
			want:  "a-b",
		},
		{
			name:  "accented characters fold to ascii",
			input: "https://example.com/café",
			want:  "https-example-com-cafe",
		},
		{
			name:  "empty input stays empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Slug(tt.input); got != tt.want {
				t.Errorf("Slug(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestRegistryClaim tests filename assignment and collision handling.
func TestRegistryClaim(t *testing.T) {
	t.Parallel()

	t.Run("same URL always receives the same filename", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry()
		first := r.Claim("https://example.com/a", ".html")
		second := r.Claim("https://example.com/a", ".html")

		if first != second {
			t.Errorf("expected stable filename, got %q then %q", first, second)
		}
	})

	t.Run("filename is slug plus extension", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry()
		got := r.Claim("https://example.com/a", ".html")
		want := "https-example-com-a.html"

		if got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	})

	t.Run("empty extension is allowed", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry()
		got := r.Claim("https://example.com/img", "")

		if got != "https-example-com-img" {
			t.Errorf("unexpected filename %q", got)
		}
	})

	t.Run("colliding URLs get distinct filenames", func(t *testing.T) {
		t.Parallel()

		// Both URLs collapse to the same slug.
		r := NewRegistry()
		first := r.Claim("https://example.com/a_b", ".html")
		second := r.Claim("https://example.com/a-b", ".html")

		if first == second {
			t.Fatalf("expected distinct filenames, both got %q", first)
		}
		if !strings.HasSuffix(second, ".html") {
			t.Errorf("expected .html suffix on disambiguated name, got %q", second)
		}
		if !strings.HasPrefix(second, "https-example-com-a-b-") {
			t.Errorf("expected slug prefix on disambiguated name, got %q", second)
		}
	})

	t.Run("disambiguated filename is stable across claims", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry()
		r.Claim("https://example.com/a_b", ".html")
		first := r.Claim("https://example.com/a-b", ".html")
		second := r.Claim("https://example.com/a-b", ".html")

		if first != second {
			t.Errorf("expected stable disambiguated filename, got %q then %q", first, second)
		}
	})

	t.Run("same URL with distinct extensions gets distinct filenames", func(t *testing.T) {
		t.Parallel()

		// An article page whose body references itself as an image
		// (a lazy-load src="" resolves to the page URL) claims the
		// URL twice: once without an extension for the image, once
		// with ".html" for the document. The two claims are separate
		// workspace files and must not overwrite each other.
		r := NewRegistry()
		image := r.Claim("https://example.com/post", "")
		document := r.Claim("https://example.com/post", ".html")

		if image == document {
			t.Fatalf("image and document claims collapsed onto %q", image)
		}
		if image != "https-example-com-post" {
			t.Errorf("unexpected image filename %q", image)
		}
		if document != "https-example-com-post.html" {
			t.Errorf("unexpected document filename %q", document)
		}
	})

	t.Run("claims with the same extension stay stable per URL", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry()
		r.Claim("https://example.com/post", "")
		first := r.Claim("https://example.com/post", ".html")
		second := r.Claim("https://example.com/post", ".html")

		if first != second {
			t.Errorf("expected stable filename, got %q then %q", first, second)
		}
	})
}
