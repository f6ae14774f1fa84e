// Package gmodule rewrites compiled CommonJS JavaScript into goog.module form.
//
// Only top-level statements are scanned. A require nested inside a function
// body is left untouched.
package gmodule

import (
	"context"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/Feiyang1/tsickle/internal/diag"
	"github.com/Feiyang1/tsickle/internal/rewrite"
	"github.com/Feiyang1/tsickle/internal/source"
	"github.com/Feiyang1/tsickle/internal/syntax"
)

// DefaultNamespacePrefix marks a specifier naming a Closure namespace directly.
const DefaultNamespacePrefix = "goog:"

// Resolver maps a specifier written in referencingFile to a module name.
// An empty result leaves the require as written.
type Resolver func(referencingFile, specifier string) string

// Options tune one module rewrite.
type Options struct {
	// ModuleName is the goog.module name; derived from the file path when empty.
	ModuleName string
	// ModuleID is the value of module.id; the file path when empty.
	ModuleID string
	// ES5 selects the `var module = module || {...}` header.
	ES5 bool
	// Prelude is emitted right after the header.
	Prelude string
	// Resolve defaults to PathToModuleName.
	Resolve Resolver
	// NamespacePrefix defaults to DefaultNamespacePrefix.
	NamespacePrefix string
}

// Result of rewriting one file.
type Result struct {
	Output string
	// ReferencedModules lists module names in order of first occurrence.
	ReferencedModules []string
	Diagnostics       []diag.Diagnostic
	Mappings          []rewrite.Mapping
}

type processor struct {
	file *syntax.File
	opts Options
	w    *rewrite.Writer

	moduleVars       map[string]string
	moduleOrder      []string
	namespaceImports map[string]struct{}
	strippedStrict   bool
	unusedIndex      int
}

// Process rewrites the requires of a compiled JavaScript file.
func Process(ctx context.Context, src *source.File, opts Options) (*Result, error) {
	file, err := syntax.ParseDialect(ctx, src, syntax.DialectJS)
	if err != nil {
		return nil, errors.Wrapf(err, "module rewrite of %s", src.Path)
	}
	if opts.Resolve == nil {
		opts.Resolve = PathToModuleName
	}
	if opts.NamespacePrefix == "" {
		opts.NamespacePrefix = DefaultNamespacePrefix
	}
	if opts.ModuleName == "" {
		opts.ModuleName = PathToModuleName("", src.Path)
	}
	if opts.ModuleID == "" {
		opts.ModuleID = src.Path
	}

	p := &processor{
		file:             file,
		opts:             opts,
		w:                rewrite.NewWriter(src),
		moduleVars:       make(map[string]string),
		namespaceImports: make(map[string]struct{}),
	}
	p.run()

	diags := append(append([]diag.Diagnostic(nil), file.Diagnostics...), p.w.Diagnostics()...)
	return &Result{
		Output:            p.w.String(),
		ReferencedModules: p.moduleOrder,
		Diagnostics:       diags,
		Mappings:          p.w.Mappings(),
	}, nil
}

func (p *processor) run() {
	// без перевода строки: смещения строк исходника сохраняются
	p.w.WriteString("goog.module('" + p.opts.ModuleName + "');")
	p.w.WriteString(p.opts.Prelude)
	if p.opts.ES5 {
		p.w.WriteString("var module = module || {id: '" + p.opts.ModuleID + "'};")
	} else {
		p.w.WriteString(" exports = {}; var module = {id: '" + p.opts.ModuleID + "'};")
	}

	var pos uint32
	first := true
	for _, stmt := range p.file.Root.NamedChildren() {
		p.w.CopyRange(pos, stmt.Start())
		p.visitTopLevel(stmt, first)
		pos = stmt.End()
		first = false
	}
	p.w.CopyRange(pos, p.file.Source.Len())
}

func (p *processor) visitTopLevel(stmt *syntax.Node, first bool) {
	switch stmt.Kind {
	case syntax.KindExpressionStatement:
		if first && !p.strippedStrict && p.isUseStrict(stmt) {
			p.strippedStrict = true
			return
		}
		if p.rewriteExpressionRequire(stmt) {
			return
		}
	case syntax.KindVariableDeclaration, syntax.KindLexicalDeclaration:
		if p.rewriteVarRequire(stmt) {
			return
		}
	}
	p.visit(stmt)
}

func (p *processor) isUseStrict(stmt *syntax.Node) bool {
	parts := stmt.NamedChildren()
	if len(parts) != 1 || parts[0].Kind != syntax.KindString {
		return false
	}
	v, ok := stringValue(p.file.Text(parts[0]))
	return ok && v == "use strict"
}

// rewriteVarRequire handles `var x = require("m");`.
func (p *processor) rewriteVarRequire(stmt *syntax.Node) bool {
	decls := stmt.NamedChildren()
	if len(decls) != 1 || decls[0].Kind != syntax.KindVariableDeclarator {
		return false
	}
	name := decls[0].ChildByField("name")
	value := decls[0].ChildByField("value")
	if !name.Is(syntax.KindIdentifier) || !value.Is(syntax.KindCallExpression) {
		return false
	}
	spec, ok := p.requireSpecifier(value)
	if !ok {
		return false
	}
	modName, ns, ok := p.resolve(spec, value)
	if !ok {
		return false
	}
	p.googRequire(p.file.Text(name), modName, ns)
	return true
}

// rewriteExpressionRequire handles `require("m");` and
// `__export(require("m"));`.
func (p *processor) rewriteExpressionRequire(stmt *syntax.Node) bool {
	parts := stmt.NamedChildren()
	if len(parts) != 1 || parts[0].Kind != syntax.KindCallExpression {
		return false
	}
	call := parts[0]
	spec, ok := p.requireSpecifier(call)
	isExport := false
	if !ok {
		spec, ok = p.exportRequireSpecifier(call)
		isExport = ok
	}
	if !ok {
		return false
	}
	modName, ns, ok := p.resolve(spec, call)
	if !ok {
		return false
	}
	varName := p.googRequire("", modName, ns)
	if isExport {
		p.w.WriteString("__export(" + varName + ");")
	}
	return true
}

// requireSpecifier returns the argument of `require("m")`.
func (p *processor) requireSpecifier(call *syntax.Node) (string, bool) {
	fn := call.ChildByField("function")
	if !fn.Is(syntax.KindIdentifier) || p.file.Text(fn) != "require" {
		return "", false
	}
	args := call.ChildByField("arguments").NamedChildren()
	if len(args) != 1 {
		return "", false
	}
	if args[0].Kind != syntax.KindString {
		p.w.Report(diag.ModNonLiteralRequire, diag.SevWarning, args[0].Span,
			"require() argument is not a string literal; left as is", nil)
		return "", false
	}
	return stringValue(p.file.Text(args[0]))
}

// exportRequireSpecifier returns the argument of `__export(require("m"))`.
func (p *processor) exportRequireSpecifier(call *syntax.Node) (string, bool) {
	fn := call.ChildByField("function")
	if !fn.Is(syntax.KindIdentifier) || p.file.Text(fn) != "__export" {
		return "", false
	}
	args := call.ChildByField("arguments").NamedChildren()
	if len(args) != 1 || args[0].Kind != syntax.KindCallExpression {
		return "", false
	}
	return p.requireSpecifier(args[0])
}

// resolve maps a specifier to a module name. Namespace specifiers bypass
// the resolver.
func (p *processor) resolve(spec string, at *syntax.Node) (name string, namespace, ok bool) {
	if rest, found := strings.CutPrefix(spec, p.opts.NamespacePrefix); found {
		return rest, true, true
	}
	name = p.opts.Resolve(p.file.Source.Path, spec)
	if name == "" {
		p.w.Report(diag.ModUnresolvedSpecifier, diag.SevWarning, at.Span,
			"cannot resolve module "+strconv.Quote(spec)+"; require left as is", nil)
		return "", false, false
	}
	return name, false, true
}

// googRequire emits the import of modName bound to varName and returns the
// variable that holds the module. With an empty varName an earlier binding
// is reused, or a fresh name is made up.
func (p *processor) googRequire(varName, modName string, namespace bool) string {
	prev, seen := p.moduleVars[modName]
	if varName == "" {
		if seen {
			return prev
		}
		varName = p.freshName()
	}
	if namespace {
		p.namespaceImports[varName] = struct{}{}
	}
	if seen {
		p.w.WriteString("var " + varName + " = " + prev + ";")
		return varName
	}
	p.w.WriteString("var " + varName + " = goog.require('" + modName + "');")
	p.moduleVars[modName] = varName
	p.moduleOrder = append(p.moduleOrder, modName)
	return varName
}

func (p *processor) freshName() string {
	name := "tsickle_module_" + strconv.Itoa(p.unusedIndex) + "_"
	p.unusedIndex++
	return name
}

// visit copies n, rewriting `ns.default` for namespace imports at any depth.
func (p *processor) visit(n *syntax.Node) {
	if lhs, ok := p.namespaceDefault(n); ok {
		p.w.WriteString(lhs + strings.Repeat(" ", int(n.End()-n.Start())-len(lhs)))
		return
	}
	if len(n.Children) == 0 {
		p.w.CopySpan(n.Span)
		return
	}
	pos := n.Start()
	for _, c := range n.Children {
		p.w.CopyRange(pos, c.Start())
		p.visit(c)
		pos = c.End()
	}
	p.w.CopyRange(pos, n.End())
}

func (p *processor) namespaceDefault(n *syntax.Node) (string, bool) {
	if n.Kind != syntax.KindMemberExpression {
		return "", false
	}
	obj := n.ChildByField("object")
	prop := n.ChildByField("property")
	if !obj.Is(syntax.KindIdentifier) || p.file.Text(prop) != "default" {
		return "", false
	}
	lhs := p.file.Text(obj)
	if _, ok := p.namespaceImports[lhs]; !ok {
		return "", false
	}
	return lhs, true
}

// stringValue decodes a JavaScript string literal.
func stringValue(lit string) (string, bool) {
	if len(lit) < 2 {
		return "", false
	}
	q := lit[0]
	if (q != '"' && q != '\'') || lit[len(lit)-1] != q {
		return "", false
	}
	body := lit[1 : len(lit)-1]
	if !strings.ContainsRune(body, '\\') {
		return body, true
	}
	if q == '\'' {
		body = strings.ReplaceAll(strings.ReplaceAll(body, `\'`, `'`), `"`, `\"`)
	}
	v, err := strconv.Unquote(`"` + body + `"`)
	if err != nil {
		return "", false
	}
	return v, true
}
