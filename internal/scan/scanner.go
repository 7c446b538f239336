package scan

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/samber/lo"
)

// DefaultInclude matches every file under the root.
const DefaultInclude = "**/*"

type FileInfo struct {
	Path  string
	Rel   string // slash-separated path relative to the root
	Mtime int64  // unix seconds
	Size  int64
}

// Newest returns the most recently modified file.
func Newest(files []FileInfo) (FileInfo, bool) {
	if len(files) == 0 {
		return FileInfo{}, false
	}
	return lo.MaxBy(files, func(a, b FileInfo) bool { return a.Mtime > b.Mtime }), true
}

// ScanRoot walks root and returns every regular file whose relative path
// matches the include glob. Unreadable subdirectories are skipped; a missing
// or unreadable root is an error.
func ScanRoot(root, include string) ([]FileInfo, error) {
	if include == "" {
		include = DefaultInclude
	}
	if !doublestar.ValidatePattern(include) {
		return nil, fmt.Errorf("invalid include pattern %q", include)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	var files []FileInfo
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil // skip unreadable dirs
		}
		if info.IsDir() {
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if ok, _ := doublestar.Match(include, rel); !ok {
			return nil
		}
		files = append(files, FileInfo{
			Path:  path,
			Rel:   rel,
			Mtime: info.ModTime().Unix(),
			Size:  info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
