package checker

import (
	"path"
	"strings"

	"github.com/Feiyang1/tsickle/internal/syntax"
)

// Program is the read-only set of parsed files that references resolve against.
type Program struct {
	files  []*syntax.File
	byPath map[string]*syntax.File
}

// NewProgram indexes files by their normalized path.
func NewProgram(files []*syntax.File) *Program {
	p := &Program{
		files:  files,
		byPath: make(map[string]*syntax.File, len(files)),
	}
	for _, f := range files {
		p.byPath[f.Source.Path] = f
	}
	return p
}

// Files returns the files in load order.
func (p *Program) Files() []*syntax.File {
	return p.files
}

// File looks a file up by path.
func (p *Program) File(filePath string) (*syntax.File, bool) {
	f, ok := p.byPath[path.Clean(filePath)]
	return f, ok
}

var moduleSuffixes = []string{"", ".ts", ".tsx", ".d.ts", "/index.ts", "/index.tsx", "/index.d.ts"}

// ResolveModule maps an import specifier written in from to a file of the
// program. Only relative specifiers resolve; bare package names never do.
func (p *Program) ResolveModule(from *syntax.File, specifier string) (*syntax.File, bool) {
	if !strings.HasPrefix(specifier, "./") && !strings.HasPrefix(specifier, "../") && !strings.HasPrefix(specifier, "/") {
		return nil, false
	}
	base := specifier
	if !strings.HasPrefix(specifier, "/") {
		base = path.Join(path.Dir(from.Source.Path), specifier)
	}
	base = strings.TrimSuffix(base, ".js")
	for _, suffix := range moduleSuffixes {
		candidate := base + suffix
		if suffix == "" && !strings.HasSuffix(candidate, ".ts") && !strings.HasSuffix(candidate, ".tsx") {
			continue
		}
		if f, ok := p.byPath[candidate]; ok {
			return f, true
		}
	}
	return nil, false
}
