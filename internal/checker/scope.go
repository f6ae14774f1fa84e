package checker

import (
	"strings"

	"github.com/Feiyang1/tsickle/internal/syntax"
)

// unwrapStatement looks through `export` and `declare` wrappers.
func unwrapStatement(n *syntax.Node) *syntax.Node {
	for n != nil {
		switch n.Kind {
		case syntax.KindExportStatement:
			n = n.ChildByField("declaration")
		case syntax.KindAmbientDeclaration:
			inner := n.NamedChildren()
			if len(inner) == 0 {
				return nil
			}
			n = inner[0]
		default:
			return n
		}
	}
	return nil
}

func isTypeDecl(n *syntax.Node) bool {
	return n.Is(syntax.KindClassDeclaration, syntax.KindAbstractClassDeclaration, syntax.KindInterfaceDeclaration,
		syntax.KindTypeAliasDeclaration, syntax.KindEnumDeclaration, syntax.KindInternalModule, syntax.KindModule)
}

func isScope(n *syntax.Node) bool {
	return n.Is(syntax.KindProgram, syntax.KindStatementBlock)
}

// declaredIn scans the direct statements of scope for a declaration of name.
// wantType selects type-space declarations, otherwise value-space.
func declaredIn(f *syntax.File, scope *syntax.Node, name string, wantType bool) *syntax.Node {
	for _, stmt := range scope.Children {
		if d := declaredBy(f, stmt, name, wantType); d != nil {
			return d
		}
	}
	return nil
}

// declaredBy reports the declaration of name made by one statement.
func declaredBy(f *syntax.File, stmt *syntax.Node, name string, wantType bool) *syntax.Node {
	if stmt.Kind == syntax.KindAmbientDeclaration && stmt.HasToken("global") {
		if body := stmt.FirstChild(syntax.KindStatementBlock); body != nil {
			return declaredIn(f, body, name, wantType)
		}
		return nil
	}
	d := unwrapStatement(stmt)
	if d == nil {
		return nil
	}
	switch d.Kind {
	case syntax.KindClassDeclaration, syntax.KindAbstractClassDeclaration, syntax.KindEnumDeclaration,
		syntax.KindInternalModule, syntax.KindModule:
		if f.NameOf(d) == name {
			return d
		}
	case syntax.KindInterfaceDeclaration, syntax.KindTypeAliasDeclaration:
		if wantType && f.NameOf(d) == name {
			return d
		}
	case syntax.KindFunctionDeclaration, syntax.KindGeneratorFunctionDeclaration, syntax.KindFunctionSignature:
		if !wantType && f.NameOf(d) == name {
			return d
		}
	case syntax.KindLexicalDeclaration, syntax.KindVariableDeclaration:
		if wantType {
			return nil
		}
		for _, decl := range d.NamedChildren() {
			if decl.Kind != syntax.KindVariableDeclarator {
				continue
			}
			if id := decl.ChildByField("name"); id.Is(syntax.KindIdentifier) && f.Text(id) == name {
				return decl
			}
		}
	}
	return nil
}

// typeParamInScope reports whether name is a type parameter of an enclosing declaration.
func typeParamInScope(f *syntax.File, at *syntax.Node, name string) bool {
	for n := at; n != nil; n = n.Parent {
		tps := n.ChildByField("type_parameters")
		if tps == nil {
			continue
		}
		for _, tp := range tps.NamedChildren() {
			if tp.Kind == syntax.KindTypeParameter && f.NameOf(tp) == name {
				return true
			}
		}
	}
	return false
}

// lookup resolves name as seen from at: enclosing scopes, parameters,
// imports, then ambient declarations anywhere in the program.
func (c *Checker) lookup(f *syntax.File, at *syntax.Node, name string, wantType bool) declRef {
	for n := at; n != nil; n = n.Parent {
		if !wantType && isFunctionLike(n) {
			for _, p := range Parameters(n) {
				pat := p.ChildByField("pattern")
				if p.Kind == syntax.KindIdentifier {
					pat = p
				}
				if pat.Is(syntax.KindIdentifier) && f.Text(pat) == name {
					return declRef{f, p}
				}
			}
		}
		if isScope(n) {
			if d := declaredIn(f, n, name, wantType); d != nil {
				return declRef{f, d}
			}
		}
	}
	if d := c.lookupImport(f, name, wantType); d.valid() {
		return d
	}
	for _, other := range c.prog.Files() {
		if other == f || !isGlobalScript(other) {
			continue
		}
		if d := declaredIn(other, other.Root, name, wantType); d != nil {
			return declRef{other, d}
		}
	}
	return declRef{}
}

// isGlobalScript reports whether top-level declarations of f are globals:
// declaration files and files without import/export statements.
func isGlobalScript(f *syntax.File) bool {
	if f.Declaration {
		return true
	}
	for _, stmt := range f.Root.Children {
		if stmt.Is(syntax.KindImportStatement, syntax.KindExportStatement) {
			return false
		}
	}
	return true
}

func (c *Checker) lookupImport(f *syntax.File, name string, wantType bool) declRef {
	for _, stmt := range f.Root.Children {
		if stmt.Kind != syntax.KindImportStatement {
			continue
		}
		clause := stmt.FirstChild(syntax.KindImportClause)
		src := stmt.ChildByField("source")
		if clause == nil || src == nil {
			continue
		}
		spec := unquote(f.Text(src))
		for _, part := range clause.NamedChildren() {
			switch part.Kind {
			case syntax.KindIdentifier:
				if f.Text(part) == name {
					return c.exportedDecl(f, spec, "default", wantType, 0)
				}
			case syntax.KindNamedImports:
				for _, is := range part.NamedChildren() {
					if is.Kind != syntax.KindImportSpecifier {
						continue
					}
					orig := f.Text(is.ChildByField("name"))
					local := orig
					if alias := is.ChildByField("alias"); alias != nil {
						local = f.Text(alias)
					}
					if local == name {
						return c.exportedDecl(f, spec, unquote(orig), wantType, 0)
					}
				}
			}
		}
	}
	return declRef{}
}

// exportedDecl finds the declaration exported as name by the module spec.
func (c *Checker) exportedDecl(from *syntax.File, spec, name string, wantType bool, depth int) declRef {
	if depth > 16 {
		return declRef{}
	}
	target, ok := c.prog.ResolveModule(from, spec)
	if !ok {
		return declRef{}
	}
	for _, stmt := range target.Root.Children {
		if stmt.Kind != syntax.KindExportStatement {
			continue
		}
		if decl := stmt.ChildByField("declaration"); decl != nil {
			if name == "default" && stmt.HasToken("default") {
				return declRef{target, unwrapStatement(decl)}
			}
			if d := declaredBy(target, stmt, name, wantType); d != nil {
				return declRef{target, d}
			}
			continue
		}
		src := stmt.ChildByField("source")
		if clause := stmt.FirstChild(syntax.KindExportClause); clause != nil {
			for _, es := range clause.NamedChildren() {
				orig := target.Text(es.ChildByField("name"))
				exported := orig
				if alias := es.ChildByField("alias"); alias != nil {
					exported = target.Text(alias)
				}
				if exported != name {
					continue
				}
				if src != nil {
					return c.exportedDecl(target, unquote(target.Text(src)), orig, wantType, depth+1)
				}
				return c.lookup(target, target.Root, orig, wantType)
			}
			continue
		}
		if src != nil && stmt.HasToken("*") && stmt.FirstChild(syntax.KindNamespaceExport) == nil && name != "default" {
			if d := c.exportedDecl(target, unquote(target.Text(src)), name, wantType, depth+1); d.valid() {
				return d
			}
		}
	}
	return declRef{}
}

// lookupQualified resolves `a.b.C` by walking namespace bodies.
func (c *Checker) lookupQualified(f *syntax.File, at *syntax.Node, dotted string, wantType bool) declRef {
	parts := strings.Split(dotted, ".")
	cur := c.lookup(f, at, parts[0], len(parts) == 1 && wantType)
	for _, part := range parts[1:] {
		if !cur.valid() || !cur.node.Is(syntax.KindInternalModule, syntax.KindModule) {
			return declRef{}
		}
		body := cur.node.ChildByField("body")
		if body == nil {
			return declRef{}
		}
		d := declaredIn(cur.file, body, part, wantType)
		if d == nil {
			return declRef{}
		}
		cur = declRef{cur.file, d}
	}
	return cur
}
