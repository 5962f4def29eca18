package fs

import (
	"errors"
	"os"
	"path/filepath"
)

// OutputFile is a file written under a temporary name and moved to its
// final path on Commit, so an aborted run never leaves a partial output
// where a complete one is expected.
type OutputFile struct {
	path string
	f    *os.File
}

// CreateOutput creates path.tmp, including missing parent directories.
func CreateOutput(path string) (*OutputFile, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	f, err := os.Create(path + ".tmp")
	if err != nil {
		return nil, err
	}
	return &OutputFile{path: path, f: f}, nil
}

// Write implements io.Writer.
func (o *OutputFile) Write(p []byte) (int, error) {
	return o.f.Write(p)
}

// Path returns the final path of the file.
func (o *OutputFile) Path() string {
	return o.path
}

// Commit closes the temporary file and renames it over the final path.
func (o *OutputFile) Commit() error {
	if err := o.f.Close(); err != nil {
		return err
	}
	return os.Rename(o.f.Name(), o.path)
}

// Abort closes and removes the temporary file. It is safe to call after
// Commit.
func (o *OutputFile) Abort() error {
	closeErr := o.f.Close()
	if errors.Is(closeErr, os.ErrClosed) {
		closeErr = nil
	}
	if err := os.Remove(o.f.Name()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return closeErr
}
