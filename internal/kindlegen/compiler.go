package kindlegen

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// warningMarker appears in kindlegen output when the build succeeded
// with warnings. kindlegen exits non-zero in that case, so exit status
// alone cannot distinguish a usable build from a failed one.
const warningMarker = "Mobi file built with WARNINGS"

// mobiFilename is the name kindlegen writes inside the workspace; the
// compiler copies it to the user's requested output path afterwards.
const mobiFilename = "periodical.mobi"

// CommandRunner abstracts subprocess execution so the compiler can be
// tested without a kindlegen binary.
type CommandRunner interface {
	// Run executes name with args in dir and returns the combined
	// stdout and stderr output.
	Run(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}

// ExecRunner implements CommandRunner using os/exec.
type ExecRunner struct{}

// Run implements CommandRunner.
func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	err := cmd.Run()
	return output.Bytes(), err
}

// BuildError is returned when kindlegen fails with a hard error. The
// compiler output is retained at LogFile for the user.
type BuildError struct {
	// LogFile is the path the compiler output was written to.
	LogFile string
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	return fmt.Sprintf("the periodical could not be built; see kindlegen output at %s", e.LogFile)
}

// Compiler runs kindlegen over an assembled workspace.
type Compiler struct {
	// Path is the kindlegen binary, resolved via PATH when relative.
	Path string

	// Runner executes the subprocess. Defaults to ExecRunner.
	Runner CommandRunner
}

// New creates a Compiler for the given kindlegen binary path.
func New(path string) *Compiler {
	return &Compiler{Path: path, Runner: &ExecRunner{}}
}

// Compile runs kindlegen on the OPF in workspaceDir and copies the
// resulting .mobi to outputFile. Warnings are tolerated; a hard error
// retains the compiler output at outputFile+".log" and returns a
// BuildError pointing at it.
func (c *Compiler) Compile(ctx context.Context, workspaceDir, opfName, outputFile string) error {
	output, err := c.Runner.Run(ctx, workspaceDir, c.Path, opfName, "-o", mobiFilename)
	if err != nil && !bytes.Contains(output, []byte(warningMarker)) {
		logFile := outputFile + ".log"
		if writeErr := os.WriteFile(logFile, output, 0600); writeErr != nil {
			return fmt.Errorf("kindlegen failed and its output could not be saved: %w", writeErr)
		}
		return &BuildError{LogFile: logFile}
	}

	mobi, err := os.ReadFile(filepath.Join(workspaceDir, mobiFilename)) //nolint:gosec // Path is inside our own workspace
	if err != nil {
		return fmt.Errorf("kindlegen reported success but produced no output: %w", err)
	}
	if err := os.WriteFile(outputFile, mobi, 0600); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
