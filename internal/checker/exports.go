package checker

import (
	"strings"

	"github.com/Feiyang1/tsickle/internal/syntax"
)

// ModuleExports lists the names the module specifier (as imported from f)
// exports, in declaration order, following `export *` transitively.
// `export *` never forwards a default export.
func (c *Checker) ModuleExports(f *syntax.File, spec string) ([]string, bool) {
	target, ok := c.prog.ResolveModule(f, spec)
	if !ok {
		return nil, false
	}
	return c.exportsOf(target), true
}

func (c *Checker) exportsOf(f *syntax.File) []string {
	if names, ok := c.exports[f]; ok {
		return names
	}
	if c.exporting[f] {
		return nil
	}
	c.exporting[f] = true
	defer delete(c.exporting, f)

	var names []string
	seen := make(map[string]bool)
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	for _, stmt := range f.Root.Children {
		if stmt.Kind != syntax.KindExportStatement {
			continue
		}
		if stmt.HasToken("=") {
			continue
		}
		if stmt.HasToken("default") {
			add("default")
			continue
		}
		if decl := stmt.ChildByField("declaration"); decl != nil {
			for _, name := range declaredNames(f, unwrapStatement(decl)) {
				add(name)
			}
			continue
		}
		if clause := stmt.FirstChild(syntax.KindExportClause); clause != nil {
			for _, name := range exportClauseNames(f, clause) {
				add(name)
			}
			continue
		}
		if ns := stmt.FirstChild(syntax.KindNamespaceExport); ns != nil {
			if id := ns.FirstChild(syntax.KindIdentifier, syntax.KindString); id != nil {
				add(unquote(f.Text(id)))
			}
			continue
		}
		src := stmt.ChildByField("source")
		if src == nil || !stmt.HasToken("*") {
			continue
		}
		target, ok := c.prog.ResolveModule(f, unquote(f.Text(src)))
		if !ok {
			continue
		}
		for _, name := range c.exportsOf(target) {
			if name != "default" {
				add(name)
			}
		}
	}
	c.exports[f] = names
	return names
}

// declaredNames returns the names bound by one declaration.
func declaredNames(f *syntax.File, d *syntax.Node) []string {
	if d == nil {
		return nil
	}
	switch d.Kind {
	case syntax.KindLexicalDeclaration, syntax.KindVariableDeclaration:
		var out []string
		for _, decl := range d.NamedChildren() {
			if decl.Kind != syntax.KindVariableDeclarator {
				continue
			}
			decl.ChildByField("name").Walk(func(n *syntax.Node) bool {
				switch n.Kind {
				case syntax.KindIdentifier, syntax.KindShorthandPropertyIdentifierPattern:
					out = append(out, f.Text(n))
				case syntax.KindPair:
					// `{a: b}` binds b
					if v := n.ChildByField("value"); v != nil {
						v.Walk(func(m *syntax.Node) bool {
							if m.Kind == syntax.KindIdentifier {
								out = append(out, f.Text(m))
								return false
							}
							return true
						})
					}
					return false
				case syntax.KindAssignmentPattern:
					if l := n.ChildByField("left"); l.Is(syntax.KindIdentifier, syntax.KindShorthandPropertyIdentifierPattern) {
						out = append(out, f.Text(l))
					}
					return false
				}
				return true
			})
		}
		return out
	case syntax.KindClassDeclaration, syntax.KindAbstractClassDeclaration, syntax.KindInterfaceDeclaration,
		syntax.KindTypeAliasDeclaration, syntax.KindEnumDeclaration, syntax.KindFunctionDeclaration,
		syntax.KindGeneratorFunctionDeclaration, syntax.KindFunctionSignature, syntax.KindInternalModule,
		syntax.KindModule:
		name := f.NameOf(d)
		if i := strings.IndexByte(name, '.'); i >= 0 {
			name = name[:i]
		}
		return []string{unquote(name)}
	}
	return nil
}

func exportClauseNames(f *syntax.File, clause *syntax.Node) []string {
	var out []string
	for _, es := range clause.NamedChildren() {
		if es.Kind != syntax.KindExportSpecifier {
			continue
		}
		name := es.ChildByField("alias")
		if name == nil {
			name = es.ChildByField("name")
		}
		out = append(out, unquote(f.Text(name)))
	}
	return out
}

// LocalExportNames collects the names f itself exports or binds at top
// level through declarations and default or namespace imports. Named
// import specifiers are not counted.
func LocalExportNames(f *syntax.File) map[string]bool {
	out := make(map[string]bool)
	for _, stmt := range f.Root.Children {
		switch stmt.Kind {
		case syntax.KindExportStatement:
			if decl := stmt.ChildByField("declaration"); decl != nil {
				for _, name := range declaredNames(f, unwrapStatement(decl)) {
					out[name] = true
				}
			}
			if clause := stmt.FirstChild(syntax.KindExportClause); clause != nil {
				for _, name := range exportClauseNames(f, clause) {
					out[name] = true
				}
			}
		case syntax.KindImportStatement:
			clause := stmt.FirstChild(syntax.KindImportClause)
			for _, part := range clause.NamedChildren() {
				switch part.Kind {
				case syntax.KindIdentifier:
					out[f.Text(part)] = true
				case syntax.KindNamespaceImport:
					if id := part.FirstChild(syntax.KindIdentifier); id != nil {
						out[f.Text(id)] = true
					}
				}
			}
		}
	}
	return out
}
