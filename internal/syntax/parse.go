package syntax

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/Feiyang1/tsickle/internal/diag"
	"github.com/Feiyang1/tsickle/internal/source"
)

// Dialect selects the grammar used for a file.
type Dialect uint8

const (
	DialectTS Dialect = iota
	DialectTSX
	DialectJS
)

func (d Dialect) String() string {
	switch d {
	case DialectTS:
		return "ts"
	case DialectTSX:
		return "tsx"
	case DialectJS:
		return "js"
	}
	return fmt.Sprintf("Dialect(%d)", d)
}

// DialectFor picks a grammar by file extension.
func DialectFor(path string) Dialect {
	switch {
	case strings.HasSuffix(path, ".tsx"):
		return DialectTSX
	case strings.HasSuffix(path, ".js"), strings.HasSuffix(path, ".mjs"), strings.HasSuffix(path, ".cjs"), strings.HasSuffix(path, ".jsx"):
		return DialectJS
	}
	return DialectTS
}

func (d Dialect) language() *sitter.Language {
	switch d {
	case DialectTSX:
		return tsx.GetLanguage()
	case DialectJS:
		return javascript.GetLanguage()
	}
	return typescript.GetLanguage()
}

// File is a parsed source file.
type File struct {
	Source      *source.File
	Root        *Node
	Dialect     Dialect
	Declaration bool // .d.ts: every statement is ambient
	Diagnostics []diag.Diagnostic
}

// Parse parses src with the grammar picked from its path.
func Parse(ctx context.Context, src *source.File) (*File, error) {
	return ParseDialect(ctx, src, DialectFor(src.Path))
}

// ParseDialect parses src with an explicit grammar. Syntax errors do not fail
// the parse: they are recorded as diagnostics and the error nodes stay in the tree.
func ParseDialect(ctx context.Context, src *source.File, dialect Dialect) (*File, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(dialect.language())

	tree, err := parser.ParseCtx(ctx, nil, src.Content)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", src.Path)
	}
	defer tree.Close()

	f := &File{
		Source:      src,
		Dialect:     dialect,
		Declaration: source.IsDeclarationFile(src.Path),
	}
	f.Root = f.convert(tree.RootNode(), nil, "")
	return f, nil
}

func (f *File) convert(tn *sitter.Node, parent *Node, field string) *Node {
	symbol := tn.Type()
	named := tn.IsNamed()
	n := &Node{
		Kind:    KindOf(symbol, named),
		Symbol:  symbol,
		Field:   field,
		Span:    source.Span{File: f.Source.ID, Start: tn.StartByte(), End: tn.EndByte()},
		Named:   named,
		Missing: tn.IsMissing(),
		Parent:  parent,
	}
	switch {
	case n.Missing:
		f.Diagnostics = append(f.Diagnostics,
			diag.NewError(diag.SynMissing, n.Span, fmt.Sprintf("missing %q", symbol)))
	case n.Kind == KindError:
		f.Diagnostics = append(f.Diagnostics,
			diag.NewError(diag.SynParseError, n.Span, "unexpected syntax"))
	}

	count := int(tn.ChildCount())
	if count == 0 {
		return n
	}
	n.Children = make([]*Node, 0, count)
	for i := range count {
		child := tn.Child(i)
		if child == nil {
			continue
		}
		n.Children = append(n.Children, f.convert(child, n, tn.FieldNameForChild(i)))
	}
	return n
}
