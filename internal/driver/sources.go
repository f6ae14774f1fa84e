package driver

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
)

// skippedDirs are never searched for inputs.
var skippedDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
}

// IsSkippedDir reports whether a directory named name is never searched.
func IsSkippedDir(name string) bool { return skippedDirs[name] }

// IsAnnotateInput matches TypeScript sources, declaration files included.
// Files produced by a previous run are skipped.
func IsAnnotateInput(path string) bool {
	if strings.HasSuffix(path, ".closure.ts") || strings.HasSuffix(path, ".closure.tsx") {
		return false
	}
	return strings.HasSuffix(path, ".ts") || strings.HasSuffix(path, ".tsx")
}

// IsModuleInput matches compiled JavaScript.
func IsModuleInput(path string) bool {
	return strings.HasSuffix(path, ".js")
}

// ListSources returns the sorted list of files under the given roots that
// match. A root that is a file is taken as is.
func ListSources(roots []string, match func(string) bool) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(p string) {
		p = filepath.ToSlash(filepath.Clean(p))
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, errors.Wrapf(err, "input %s", root)
		}
		if !info.IsDir() {
			add(root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && skippedDirs[d.Name()] {
					return filepath.SkipDir
				}
				return nil
			}
			if match(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "walk %s", root)
		}
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}
