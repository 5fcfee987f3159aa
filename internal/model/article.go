package model

// Image is one downloaded image referenced by article content.
// Images are deduplicated per run by their resolved absolute URL:
// the same SourceURL always maps to the same Image, fetched once.
// An Image is immutable after creation.
type Image struct {
	// SourceURL is the absolute URL the image was fetched from.
	SourceURL string `json:"source_url"`

	// LocalFilename is the name the image bytes were persisted under
	// in the build workspace. Unique within a run.
	LocalFilename string `json:"local_filename"`

	// ContentType is the media type declared by the image response,
	// with any parameters stripped. Used as the manifest media-type.
	ContentType string `json:"content_type"`
}

// Article is one fully processed bookmark, ready for the manifest
// builder. Articles are immutable once built; construct them through
// ArticleBuilder.
type Article struct {
	// URL is the source bookmark URL.
	URL string `json:"url"`

	// Title is never empty: extractor title, then bookmark
	// description, then "{domain} article".
	Title string `json:"title"`

	// Description is the first non-empty of bookmark note, extractor
	// dek, extractor excerpt. May be empty.
	Description string `json:"description,omitempty"`

	// Author is the extracted byline. May be empty.
	Author string `json:"author,omitempty"`

	// Filename is the workspace filename of the article document,
	// derived deterministically from URL. Unique within a run.
	Filename string `json:"filename"`

	// BodyHTML is the complete standalone article document, image
	// references already rewritten to local filenames.
	BodyHTML string `json:"-"`

	// Images are the distinct images referenced by BodyHTML.
	Images []Image `json:"images,omitempty"`
}

// ArticleBuilder accumulates the fields of an Article during pipeline
// processing and produces the finalized value. This keeps the evolving
// record private to the pipeline stage that owns it: downstream
// consumers only ever see a completed Article.
type ArticleBuilder struct {
	article Article
}

// NewArticleBuilder starts an Article for the given source URL.
func NewArticleBuilder(url string) *ArticleBuilder {
	return &ArticleBuilder{article: Article{URL: url}}
}

// Title sets the article title.
func (b *ArticleBuilder) Title(title string) *ArticleBuilder {
	b.article.Title = title
	return b
}

// Description sets the article description.
func (b *ArticleBuilder) Description(description string) *ArticleBuilder {
	b.article.Description = description
	return b
}

// Author sets the article byline.
func (b *ArticleBuilder) Author(author string) *ArticleBuilder {
	b.article.Author = author
	return b
}

// Filename sets the workspace filename of the article document.
func (b *ArticleBuilder) Filename(filename string) *ArticleBuilder {
	b.article.Filename = filename
	return b
}

// Body sets the finalized standalone document markup.
func (b *ArticleBuilder) Body(html string) *ArticleBuilder {
	b.article.BodyHTML = html
	return b
}

// Images sets the distinct images referenced by the article body.
// The slice is copied so later mutation by the caller cannot reach
// the built Article.
func (b *ArticleBuilder) Images(images []Image) *ArticleBuilder {
	if len(images) > 0 {
		b.article.Images = make([]Image, len(images))
		copy(b.article.Images, images)
	}
	return b
}

// Build returns the finalized Article.
func (b *ArticleBuilder) Build() Article {
	return b.article
}
