package diagfmt

import (
	"path/filepath"

	"github.com/Feiyang1/tsickle/internal/source"
)

func formatPath(p string, mode PathMode, base string) string {
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(p); err == nil {
			return filepath.ToSlash(abs)
		}
	case PathModeRelative:
		if base == "" {
			base = "."
		}
		if rel, err := source.RelativePath(p, base); err == nil {
			return rel
		}
	case PathModeBasename:
		return filepath.Base(p)
	}
	return p
}
