package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values. Where a value mirrors a Pinboard or
// kindlegen convention, the comment says which.
const (
	// DefaultItems is the number of unread bookmarks to include in a
	// periodical. Twenty articles keeps the .mobi small enough to
	// transfer over Whispernet-era delivery limits while still being
	// a meaningful read.
	DefaultItems = 20

	// FeedRequestCount is how many bookmarks to request from the
	// Pinboard feed in one call. The feed caps responses at 400
	// entries, and the pipeline needs the full queue so it can take
	// the oldest tail rather than the newest head.
	FeedRequestCount = 400

	// DefaultTimeout is the per-request timeout for article and image
	// fetches. Source pages are arbitrary public web servers, so this
	// is generous but bounded; a stalled fetch skips the bookmark
	// rather than hanging the run.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxBodySize caps the response body read for a single
	// fetch. 10MB accommodates image-heavy articles while preventing
	// memory exhaustion from a hostile or broken server.
	DefaultMaxBodySize = 10 * 1024 * 1024

	// DefaultOutputFile is the .mobi path written when the user does
	// not specify one.
	DefaultOutputFile = "pinzine.mobi"

	// DefaultTitle is the periodical title shown on the device.
	DefaultTitle = "Pinboard Unread"

	// DefaultKindlegenPath is the compiler binary name, resolved via
	// PATH unless overridden.
	DefaultKindlegenPath = "kindlegen"

	// AppName is used for XDG directory paths.
	AppName = "pinzine"
)

// Config holds all options for a pinzine run. It is populated from
// defaults, then the .pinzine file, then CLI flags, and validated once
// before any network activity.
type Config struct {
	// Username is the Pinboard account whose unread queue is built
	// into the periodical. Required.
	Username string `yaml:"username"`

	// Items is the number of oldest unread bookmarks to include.
	Items int `yaml:"items"`

	// OutputFile is the destination .mobi path.
	OutputFile string `yaml:"output"`

	// Title is the periodical title embedded in all generated
	// documents.
	Title string `yaml:"title"`

	// Skip lists bookmark URLs to exclude from the run. Skipped URLs
	// are never fetched.
	Skip []string `yaml:"skip"`

	// Timeout is the per-request timeout for every network call.
	Timeout time.Duration `yaml:"timeout"`

	// MaxBodySize is the maximum response body size in bytes to read
	// for a single fetch. Zero means DefaultMaxBodySize.
	MaxBodySize int64 `yaml:"max_body_size"`

	// KindlegenPath is the e-book compiler binary to invoke.
	KindlegenPath string `yaml:"kindlegen"`

	// SaveHistory records the run and its per-bookmark outcomes in
	// the SQLite archive under the XDG data directory.
	SaveHistory bool `yaml:"save_history"`

	// ReportFile, when set, receives a Markdown build summary after
	// the run.
	ReportFile string `yaml:"report"`

	// Verbose enables slog.LevelDebug output. When false, only
	// warnings and errors are logged.
	Verbose bool `yaml:"-"`
}

// NewConfig returns a Config with all defaults applied. Many defaults
// are non-zero, so relying on zero values would be wrong; this also
// documents what the defaults are.
func NewConfig() *Config {
	return &Config{
		Items:         DefaultItems,
		OutputFile:    DefaultOutputFile,
		Title:         DefaultTitle,
		Timeout:       DefaultTimeout,
		MaxBodySize:   DefaultMaxBodySize,
		KindlegenPath: DefaultKindlegenPath,
		SaveHistory:   true,
	}
}

// XDGDataDir returns the XDG data directory for pinzine, used for the
// run-history database.
// On Linux: ~/.local/share/pinzine
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Validate checks the configuration and returns the first problem
// found. It is called once after flag parsing, before any network
// activity, so failures surface immediately with a clear message.
func (c *Config) Validate() error {
	if c.Username == "" {
		return ErrNoUsername
	}
	if c.Items <= 0 {
		return ErrInvalidItems
	}
	if c.Items > FeedRequestCount {
		return ErrTooManyItems
	}
	if c.OutputFile == "" {
		return ErrNoOutputFile
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	return nil
}
