package ioutils

import (
	"context"
	"path/filepath"

	"github.com/spf13/afero"
)

// KnownExtensions are the image extensions an existing artwork file may
// have: every extension ImageService.Extension produces, plus ".jpeg".
var KnownExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp", ".tif"}

// Writer writes artwork files to a file system.
//
// All paths handed to a Writer are local paths; the extension of an
// artwork file is only known once its content has been fetched, so lookups
// take the path without extension.
type Writer struct {
	fs afero.Fs
}

// NewWriter creates a Writer on fs. A nil fs uses the operating system's.
func NewWriter(fs afero.Fs) *Writer {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Writer{fs: fs}
}

// Exists reports whether a regular file exists at basePath with any of the
// KnownExtensions, and returns the first one found.
//
// Example:
//
//	path, ok := w.Exists("/art/label/Album/01 Song")
//	// path == "/art/label/Album/01 Song.png", ok == true
func (w *Writer) Exists(basePath string) (string, bool) {
	for _, ext := range KnownExtensions {
		path := basePath + ext
		info, err := w.fs.Stat(path)
		if err == nil && info.Mode().IsRegular() {
			return path, true
		}
	}
	return "", false
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
func (w *Writer) EnsureDir(path string) error {
	return w.fs.MkdirAll(path, 0755)
}

// WriteFile writes data to a file, creating it and its parent directories
// if necessary.
//
// The file is created with mode 0644. If the file already exists,
// it is truncated before writing.
func (w *Writer) WriteFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := w.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	return afero.WriteFile(w.fs, path, data, 0644)
}
