package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
)

// Workspace is the temporary directory the periodical is assembled
// in: article documents, downloaded images, and the three generated
// manifest documents, all referencing each other by bare filename.
// The compiler consumes the directory as a whole.
type Workspace struct {
	dir string
}

// NewWorkspace creates a fresh temporary build directory.
func NewWorkspace() (*Workspace, error) {
	dir, err := os.MkdirTemp("", "pinzine-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create build workspace: %w", err)
	}
	return &Workspace{dir: dir}, nil
}

// Dir returns the workspace directory path.
func (w *Workspace) Dir() string {
	return w.dir
}

// SaveImage writes downloaded image bytes under filename. It
// implements images.Sink.
func (w *Workspace) SaveImage(filename string, data []byte) error {
	return w.save(filename, data)
}

// SaveDocument writes an article or manifest document under filename.
func (w *Workspace) SaveDocument(filename string, data []byte) error {
	return w.save(filename, data)
}

func (w *Workspace) save(filename string, data []byte) error {
	// Filenames come from the naming registry and contain no
	// separators, but never write outside the workspace even if that
	// changes.
	path := filepath.Join(w.dir, filepath.Base(filename))
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return nil
}

// Remove deletes the workspace and everything in it. Called after a
// successful compile; on compiler failure the workspace is retained
// for diagnosis.
func (w *Workspace) Remove() error {
	return os.RemoveAll(w.dir)
}
