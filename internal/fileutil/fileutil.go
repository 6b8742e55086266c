// Package fileutil provides common file operations on a billy filesystem.
package fileutil

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
)

// DefaultFileMode is applied to files written by WriteAtomic.
const DefaultFileMode os.FileMode = 0o644

type chmodder interface {
	Chmod(name string, mode os.FileMode) error
}

// WriteAtomic streams src into dst through a temp file in the destination
// directory and renames it into place. It creates parent directories if
// needed. On failure the temp file is removed and dst is left untouched.
// buf is the copy buffer; a nil buf uses io.Copy's default size.
func WriteAtomic(fsys billy.Filesystem, dst string, src io.Reader, buf []byte) (int64, error) {
	dstDir := filepath.Dir(dst)
	if err := fsys.MkdirAll(dstDir, 0o755); err != nil {
		return 0, fmt.Errorf("create parent directories: %w", err)
	}

	tmpFile, err := fsys.TempFile(dstDir, ".racoon-tmp-")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			tmpFile.Close()
			fsys.Remove(tmpPath)
		}
	}()

	n, err := io.CopyBuffer(tmpFile, src, buf)
	if err != nil {
		return n, fmt.Errorf("copy content: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return n, fmt.Errorf("close temp file: %w", err)
	}

	if ch, ok := fsys.(chmodder); ok {
		if err := ch.Chmod(tmpPath, DefaultFileMode); err != nil {
			return n, fmt.Errorf("set permissions: %w", err)
		}
	}

	if err := fsys.Rename(tmpPath, dst); err != nil {
		return n, fmt.Errorf("rename to destination: %w", err)
	}

	success = true
	return n, nil
}

// RemoveIfExists removes path, treating a missing file as success.
func RemoveIfExists(fsys billy.Filesystem, path string) error {
	err := fsys.Remove(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("remove %s: %w", path, err)
}

// Exists reports whether path exists on fsys.
func Exists(fsys billy.Filesystem, path string) bool {
	_, err := fsys.Stat(path)
	return err == nil
}
