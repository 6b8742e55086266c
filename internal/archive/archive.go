// Package archive inspects the entry names of zip archives.
package archive

import (
	"fmt"
	"io"

	"github.com/go-git/go-billy/v5"
	"github.com/klauspost/compress/zip"
)

// Missing returns the names in want that are not entries of the zip archive
// read from r. Names are matched exactly, without glob expansion.
func Missing(r io.ReaderAt, size int64, want []string) ([]string, error) {
	if len(want) == 0 {
		return nil, nil
	}

	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	entries := make(map[string]struct{}, len(zr.File))
	for _, f := range zr.File {
		entries[f.Name] = struct{}{}
	}

	var missing []string
	for _, name := range want {
		if _, ok := entries[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing, nil
}

// MissingFile is Missing for an archive stored at path on fs.
// An empty want list returns without opening the file.
func MissingFile(fs billy.Filesystem, path string, want []string) ([]string, error) {
	if len(want) == 0 {
		return nil, nil
	}

	info, err := fs.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return Missing(f, info.Size(), want)
}
