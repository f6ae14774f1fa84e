package annotate

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/Feiyang1/tsickle/internal/checker"
	"github.com/Feiyang1/tsickle/internal/diag"
	"github.com/Feiyang1/tsickle/internal/jsdoc"
	"github.com/Feiyang1/tsickle/internal/syntax"
)

// collectExterns renders the ambient subtree n into the externs sink.
func (a *annotator) collectExterns(n *syntax.Node) {
	a.hasExterns = true
	pop := a.w.Push()
	defer func() {
		a.externs.WriteString(pop())
	}()
	a.visitExterns(n, nil)
}

func qualify(ns []string, name string) string {
	if len(ns) == 0 {
		return name
	}
	return strings.Join(ns, ".") + "." + name
}

// firstDeclaration records a dotted name and reports whether it was new.
func (a *annotator) firstDeclaration(dotted string) bool {
	if _, ok := a.emitted[dotted]; ok {
		return false
	}
	a.emitted[dotted] = struct{}{}
	return true
}

func (a *annotator) visitExterns(n *syntax.Node, ns []string) {
	switch n.Kind {
	case syntax.KindProgram, syntax.KindStatementBlock:
		for _, stmt := range n.NamedChildren() {
			a.visitExterns(stmt, ns)
		}

	case syntax.KindAmbientDeclaration:
		if n.HasToken("global") {
			// declare global { ... } declares at the root
			if body := n.FirstChild(syntax.KindStatementBlock); body != nil {
				a.visitExterns(body, nil)
			}
			return
		}
		for _, inner := range n.NamedChildren() {
			a.visitExterns(inner, ns)
		}

	case syntax.KindExportStatement:
		if decl := n.ChildByField("declaration"); decl != nil {
			a.visitExterns(decl, ns)
			return
		}
		a.externsTODO(n, ns)

	case syntax.KindInternalModule, syntax.KindModule:
		name := n.ChildByField("name")
		if name.Is(syntax.KindString) {
			return
		}
		path := ns
		for _, seg := range strings.Split(a.file.NameOf(n), ".") {
			path = append(append([]string(nil), path...), seg)
			dotted := strings.Join(path, ".")
			if !a.firstDeclaration(dotted) {
				continue
			}
			a.w.WriteString("/** @const */\n")
			if len(path) > 1 {
				a.w.WriteString(dotted + " = {};\n")
			} else {
				a.w.WriteString("var " + dotted + " = {};\n")
			}
		}
		if body := n.ChildByField("body"); body != nil {
			a.visitExterns(body, path)
		}

	case syntax.KindClassDeclaration, syntax.KindAbstractClassDeclaration, syntax.KindInterfaceDeclaration:
		a.externsType(n, ns)

	case syntax.KindFunctionSignature, syntax.KindFunctionDeclaration, syntax.KindGeneratorFunctionDeclaration:
		name := a.file.NameOf(n)
		dotted := qualify(ns, name)
		if _, seen := a.externFuncs[dotted]; seen {
			return
		}
		a.externFuncs[dotted] = struct{}{}
		sig := a.externsFunctionType(n)
		a.externsFunction(name, parameterNames(sig), ns)

	case syntax.KindLexicalDeclaration, syntax.KindVariableDeclaration:
		for _, decl := range n.NamedChildren() {
			if decl.Kind == syntax.KindVariableDeclarator {
				a.externsVariableDecl(decl, ns)
			}
		}

	case syntax.KindEnumDeclaration:
		a.externsEnum(n, ns)

	case syntax.KindTypeAliasDeclaration:
		t := a.r.Render(a.chk.TypeOf(a.file, n), n, false)
		a.w.WriteString("\n/** @typedef {" + t + "} */\n")
		a.externsVariable(a.file.NameOf(n), ns, "")

	case syntax.KindEmptyStatement:

	default:
		a.externsTODO(n, ns)
	}
}

func (a *annotator) externsTODO(n *syntax.Node, ns []string) {
	a.w.WriteString("\n/* TODO: " + n.Symbol + " in " + strings.Join(ns, ".") + " */\n")
}

// externsFunctionType writes the annotation block of a declared callable
// and returns its signature.
func (a *annotator) externsFunctionType(fn *syntax.Node, extra ...string) checker.Signature {
	doc, err := a.docTags(fn)
	if err != nil {
		a.reportFault(err)
		doc = nil
	}
	tags, sig := a.callableTags(fn, doc, extra...)
	a.w.WriteString("\n" + jsdoc.String(tags))
	return sig
}

func (a *annotator) reportFault(err error) {
	var f *Fault
	if errors.As(err, &f) {
		a.w.Report(f.Code, diag.SevError, f.Span, f.Msg, nil)
	}
}

func (a *annotator) externsFunction(name, params string, ns []string) {
	if len(ns) > 0 {
		a.w.WriteString(qualify(ns, name) + " = function(" + params + ") {};\n")
		return
	}
	a.w.WriteString("function " + name + "(" + params + ") {}\n")
}

func (a *annotator) externsVariable(name string, ns []string, value string) {
	if len(ns) == 0 {
		a.w.WriteString("var ")
	}
	a.w.WriteString(qualify(ns, name))
	if value != "" {
		a.w.WriteString(" = " + value)
	}
	a.w.WriteString(";\n")
}

func (a *annotator) externsVariableDecl(decl *syntax.Node, ns []string) {
	id := decl.ChildByField("name")
	if !id.Is(syntax.KindIdentifier) {
		a.w.WriteString("\n/* TODO: " + id.Symbol + " in " + strings.Join(ns, ".") + " */\n")
		return
	}
	name := a.text(id)
	if a.blacklisted(decl, name, qualify(ns, name)) {
		return
	}
	a.w.WriteString("/** @type {" + a.render(decl) + "} */\n")
	a.externsVariable(name, ns, "")
}

func (a *annotator) externsEnum(n *syntax.Node, ns []string) {
	name := a.file.NameOf(n)
	a.w.WriteString("\n/** @const */\n")
	a.externsVariable(name, ns, "{}")
	path := append(append([]string(nil), ns...), name)
	for _, m := range a.chk.EnumMembers(a.file, n) {
		if !isIdentifier(m.Name) {
			a.w.WriteString("\n/* TODO: enum member " + escapeComment(m.Name) + " in " + strings.Join(path, ".") + " */\n")
			continue
		}
		a.w.WriteString("/** @const {number} */\n")
		a.externsVariable(m.Name, path, "")
	}
}

type methodGroup struct {
	name     string
	static   bool
	variants []*syntax.Node
}

// externsType writes the constructor or record skeleton of a declared class
// or interface and one declaration per member.
func (a *annotator) externsType(n *syntax.Node, ns []string) {
	name := a.file.NameOf(n)
	typeName := qualify(ns, name)
	if a.blacklisted(n, typeName) {
		return
	}
	body := n.ChildByField("body")
	isClass := n.Kind != syntax.KindInterfaceDeclaration

	var ctor *syntax.Node
	for _, m := range body.NamedChildren() {
		if !checker.IsConstructor(a.file, m) {
			continue
		}
		if ctor != nil {
			diag.ReportError(a.w, diag.ExtDuplicateCtor, m.Span,
				"multiple constructor signatures in declared class "+typeName).
				WithNote(ctor.Span, "first constructor signature").
				Emit()
			continue
		}
		ctor = m
	}

	if a.firstDeclaration(typeName) {
		params := ""
		switch {
		case isClass && ctor != nil:
			params = parameterNames(a.externsFunctionType(ctor, "constructor", "struct"))
		case isClass:
			a.w.WriteString("\n/** @constructor @struct */\n")
		default:
			a.w.WriteString("\n/** @record @struct */\n")
		}
		a.externsFunction(name, params, ns)
	}

	var groups []*methodGroup
	byKey := make(map[string]*methodGroup)
	for _, m := range body.NamedChildren() {
		switch {
		case checker.IsConstructor(a.file, m):
			continue
		case m.Is(syntax.KindPropertySignature, syntax.KindPublicFieldDefinition, syntax.KindFieldDefinition):
			member := memberName(a.file, m)
			if member == "" {
				break
			}
			a.w.WriteString("/** @type {" + a.render(m) + "} */\n")
			if m.HasToken("static") {
				a.w.WriteString(typeName + "." + member + ";\n")
			} else {
				a.w.WriteString(typeName + ".prototype." + member + ";\n")
			}
			continue
		case m.Is(syntax.KindMethodSignature, syntax.KindMethodDefinition, syntax.KindAbstractMethodSignature):
			member := memberName(a.file, m)
			if member == "" {
				break
			}
			static := m.HasToken("static")
			key := member + "$$$instance"
			if static {
				key = member + "$$$static"
			}
			if g, ok := byKey[key]; ok {
				g.variants = append(g.variants, m)
				continue
			}
			g := &methodGroup{name: member, static: static, variants: []*syntax.Node{m}}
			byKey[key] = g
			groups = append(groups, g)
			continue
		}
		memberPath := typeName
		if mn := m.ChildByField("name"); mn != nil {
			memberPath += "." + a.text(mn)
		}
		a.w.WriteString("\n/* TODO: " + m.Symbol + ": " + escapeComment(memberPath) + " */\n")
	}

	for _, g := range groups {
		sig := a.externsFunctionType(g.variants[0])
		path := append(append([]string(nil), ns...), name)
		if !g.static {
			path = append(path, "prototype")
		}
		a.externsFunction(g.name, parameterNames(sig), path)
	}
}
