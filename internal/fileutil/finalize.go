// Package fileutil provides atomic output files on top of afero.
package fileutil

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// TempContext holds state for an atomic file write operation.
// Output is written to a hidden temp file next to the destination and only
// renamed into place by Commit; on failure the temp file is removed.
type TempContext struct {
	Fs      afero.Fs
	TmpFile afero.File
	TmpName string

	committed bool
}

// NewTempContext creates a temp file in dir for atomic writing.
// Caller must defer CleanupOnError.
func NewTempContext(fsys afero.Fs, dir string) (*TempContext, error) {
	if dir == "" {
		dir = "."
	}

	tmpFile, err := afero.TempFile(fsys, dir, ".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("creating temporary file in %q: %w", dir, err)
	}

	return &TempContext{
		Fs:      fsys,
		TmpFile: tmpFile,
		TmpName: tmpFile.Name(),
	}, nil
}

// CleanupOnError closes the temp file and removes it if the write failed or was never committed.
func (tc *TempContext) CleanupOnError(errp *error) {
	tc.TmpFile.Close() //nolint:errcheck,gosec // best-effort cleanup

	if *errp != nil || !tc.committed {
		tc.Fs.Remove(tc.TmpName) //nolint:errcheck,gosec // best-effort cleanup
	}
}

// Commit closes the temp file, sets its permissions and renames it to outPath.
// It returns the size of the committed file.
func (tc *TempContext) Commit(outPath string) (int64, error) {
	const ownerReadWrite = 0o600

	if err := tc.TmpFile.Close(); err != nil {
		return 0, fmt.Errorf("closing temporary file: %w", err)
	}

	if err := tc.Fs.Chmod(tc.TmpName, ownerReadWrite); err != nil {
		return 0, fmt.Errorf("setting file permissions: %w", err)
	}

	if err := tc.Fs.Rename(tc.TmpName, filepath.Clean(outPath)); err != nil {
		return 0, fmt.Errorf("renaming output file: %w", err)
	}

	tc.committed = true

	return FinalizeOutput(tc.Fs, outPath)
}

// FinalizeOutput returns the output file size.
func FinalizeOutput(fsys afero.Fs, outPath string) (int64, error) {
	outInfo, err := fsys.Stat(outPath)
	if err != nil {
		return 0, fmt.Errorf("stat output %q: %w", outPath, err)
	}

	return outInfo.Size(), nil
}
