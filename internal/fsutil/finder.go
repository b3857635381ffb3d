// Package fsutil provides file system helpers for locating sources.
package fsutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SourceExtension is the file extension of Fluid sources.
const SourceExtension = ".fluid"

// FindSources resolves a path argument to the list of Fluid sources it
// names. A file path must carry the source extension; a directory is
// walked recursively and the matches returned in sorted order.
func FindSources(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if !strings.HasSuffix(path, SourceExtension) {
			return nil, fmt.Errorf("%s is not a %s file", path, SourceExtension)
		}
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), SourceExtension) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
