// Package annotate rewrites a TypeScript file so that its declarations carry
// Closure JSDoc type annotations, and renders ambient declarations into a
// separate externs file.
//
// The walk is a depth-first copy of the source: every node not handled by a
// specific policy is copied verbatim byte for byte, with its children
// visited in turn.
package annotate

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/Feiyang1/tsickle/internal/checker"
	"github.com/Feiyang1/tsickle/internal/diag"
	"github.com/Feiyang1/tsickle/internal/jsdoc"
	"github.com/Feiyang1/tsickle/internal/rewrite"
	"github.com/Feiyang1/tsickle/internal/source"
	"github.com/Feiyang1/tsickle/internal/syntax"
	"github.com/Feiyang1/tsickle/internal/typerender"
)

// WarnFunc receives advisory findings that are not meant for end users.
type WarnFunc func(d diag.Diagnostic)

// Options tune one annotation run.
type Options struct {
	// Untyped renders every type as `?`.
	Untyped bool
	// LogWarning receives type-rendering degradations. May be nil.
	LogWarning WarnFunc
	// Blacklist extends the names never declared in externs.
	Blacklist []string
}

// Result is the outcome of annotating one file.
type Result struct {
	Output string
	// Externs holds the externs file text; empty unless HasExterns.
	Externs     string
	HasExterns  bool
	Diagnostics []diag.Diagnostic
	Mappings    []rewrite.Mapping
}

// ExternsHeader prefixes every externs output.
const ExternsHeader = "/** @externs */\n// NOTE: generated by tsickle, do not edit.\n"

// Fault aborts the rewrite of one node. The walk recovers at the node
// boundary and degrades the node to a verbatim copy.
type Fault struct {
	Span source.Span
	Msg  string
	Code diag.Code
}

func (f *Fault) Error() string { return f.Msg }

func faultAt(n *syntax.Node, code diag.Code, format string, args ...any) *Fault {
	return &Fault{Span: n.Span, Msg: fmt.Sprintf(format, args...), Code: code}
}

type annotator struct {
	chk  *checker.Checker
	file *syntax.File
	opts Options
	w    *rewrite.Writer
	r    *typerender.Renderer

	externs    strings.Builder
	hasExterns bool
	// dotted names whose externs skeleton was already written
	emitted     map[string]struct{}
	externFuncs map[string]struct{}
	blacklist   map[string]struct{}

	localExports     map[string]bool
	generatedExports map[string]bool
}

// Annotate rewrites file. chk must not be shared with other goroutines.
func Annotate(chk *checker.Checker, file *syntax.File, opts Options) *Result {
	a := &annotator{
		chk:              chk,
		file:             file,
		opts:             opts,
		w:                rewrite.NewWriter(file.Source),
		emitted:          make(map[string]struct{}),
		externFuncs:      make(map[string]struct{}),
		blacklist:        newBlacklist(opts.Blacklist),
		generatedExports: make(map[string]bool),
	}
	a.r = typerender.New(chk.Types(), opts.Untyped, a.warn)

	root := file.Root
	if file.Declaration {
		a.w.CopyRange(0, file.Source.Len())
		a.collectExterns(root)
	} else {
		a.w.CopyRange(0, root.Start())
		a.visit(root)
		a.w.CopyRange(root.End(), file.Source.Len())
	}

	res := &Result{
		Output:      a.w.String(),
		HasExterns:  a.hasExterns,
		Diagnostics: a.w.Diagnostics(),
		Mappings:    a.w.Mappings(),
	}
	if a.hasExterns {
		res.Externs = ExternsHeader + a.externs.String()
	}
	return res
}

func (a *annotator) warn(at *syntax.Node, msg string) {
	if a.opts.LogWarning == nil {
		return
	}
	var sp source.Span
	if at != nil {
		sp = at.Span
	} else {
		sp = a.file.Root.Span
	}
	a.opts.LogWarning(diag.NewWarning(diag.AnnUnsupportedType, sp, msg))
}

func (a *annotator) text(n *syntax.Node) string { return a.file.Text(n) }

func (a *annotator) render(n *syntax.Node) string {
	return a.r.Render(a.chk.TypeOf(a.file, n), n, false)
}

// visit applies the node policy and recovers from faults raised by it.
func (a *annotator) visit(n *syntax.Node) {
	mark := a.w.Mark()
	err := a.visitNode(n)
	if err == nil {
		return
	}
	a.w.Rollback(mark)
	var fault *Fault
	if !errors.As(err, &fault) {
		fault = &Fault{Span: n.Span, Msg: err.Error(), Code: diag.AnnNodeFault}
	}
	a.w.Report(fault.Code, diag.SevError, fault.Span, fault.Msg, nil)
	a.w.WriteString("/* TODO: " + escapeComment(fault.Msg) + " */ ")
	a.w.CopySpan(n.Span)
}

func (a *annotator) visitNode(n *syntax.Node) error {
	switch n.Kind {
	case syntax.KindAmbientDeclaration:
		a.w.CopySpan(n.Span)
		a.collectExterns(n)
		return nil

	case syntax.KindExportStatement:
		return a.exportStatement(n)

	case syntax.KindInterfaceDeclaration:
		return a.interfaceDecl(n, n)

	case syntax.KindTypeAliasDeclaration:
		return a.typeAlias(n, n)

	case syntax.KindEnumDeclaration:
		return a.enumDecl(n, n)

	case syntax.KindClassDeclaration, syntax.KindAbstractClassDeclaration:
		return a.classDecl(n, n)

	case syntax.KindFunctionDeclaration, syntax.KindGeneratorFunctionDeclaration:
		return a.function(n, n)

	case syntax.KindMethodDefinition:
		if checker.IsConstructor(a.file, n) {
			return a.constructor(n)
		}
		if n.HasToken("get") || n.HasToken("set") {
			a.emitNode(n)
			return nil
		}
		return a.function(n, n)

	case syntax.KindVariableDeclarator:
		a.variable(n)
		return nil

	case syntax.KindTypeAssertion, syntax.KindAsExpression:
		a.assertion(n)
		return nil

	case syntax.KindJSXText, syntax.KindComment, syntax.KindAccessibilityModifier:
		a.w.CopySpan(n.Span)
		return nil
	}
	a.emitNode(n)
	return nil
}

// exportStatement lets declaration policies that synthesize text in front
// of a declaration start before the `export` keyword.
func (a *annotator) exportStatement(n *syntax.Node) error {
	decl := n.ChildByField("declaration")
	switch {
	case decl.Is(syntax.KindInterfaceDeclaration):
		return a.interfaceDecl(decl, n)
	case decl.Is(syntax.KindTypeAliasDeclaration):
		return a.typeAlias(decl, n)
	case decl.Is(syntax.KindEnumDeclaration):
		return a.enumDecl(decl, n)
	case decl.Is(syntax.KindClassDeclaration, syntax.KindAbstractClassDeclaration):
		return a.classDecl(decl, n)
	case decl.Is(syntax.KindFunctionDeclaration, syntax.KindGeneratorFunctionDeclaration):
		return a.function(decl, n)
	case decl == nil && isExportStar(n):
		return a.exportStar(n)
	}
	// export default class {...} / export default function () {...}
	switch value := n.ChildByField("value"); {
	case decl != nil:
	case value.Is(syntax.KindClass):
		return a.classDecl(value, n)
	case value.Is(syntax.KindFunctionExpression, syntax.KindFunction):
		return a.function(value, n)
	}
	a.emitNode(n)
	return nil
}

// emitDeclaration copies outer around n verbatim and n itself without
// sending n through its declaration policy a second time.
func (a *annotator) emitDeclaration(n, outer *syntax.Node) {
	if outer == n {
		a.emitNode(n)
		return
	}
	a.w.CopyRange(outer.Start(), n.Start())
	a.emitNode(n)
	a.w.CopyRange(n.End(), outer.End())
}

// emitNode copies n, visiting each child and copying the text between them.
func (a *annotator) emitNode(n *syntax.Node) {
	if len(n.Children) == 0 {
		a.w.CopySpan(n.Span)
		return
	}
	pos := a.emitChildren(n.Children, n.Start())
	a.w.CopyRange(pos, n.End())
}

// emitChildren visits children in order starting from pos and returns the
// end of the last one. Comments that are merged into a synthesized block or
// precede a visibility modifier are dropped together with the whitespace
// that follows them.
func (a *annotator) emitChildren(children []*syntax.Node, pos uint32) uint32 {
	skipGap := false
	for _, c := range children {
		if !skipGap {
			a.w.CopyRange(pos, c.Start())
		}
		skipGap = false
		if c.Kind == syntax.KindComment && a.dropComment(c) {
			pos, skipGap = c.End(), true
			continue
		}
		a.visit(c)
		pos = c.End()
	}
	return pos
}

func nextNonComment(n *syntax.Node) *syntax.Node {
	for s := n.NextSibling(); s != nil; s = s.NextSibling() {
		if s.Kind != syntax.KindComment {
			return s
		}
	}
	return nil
}

func (a *annotator) dropComment(c *syntax.Node) bool {
	next := nextNonComment(c)
	if next == nil {
		return false
	}
	if startsWithVisibility(next) {
		return true
	}
	if c.NextSibling() != next || !annotatesCallable(a.file, next) {
		return false
	}
	tags, err := jsdoc.Parse(a.text(c))
	return err == nil && tags != nil
}

// startsWithVisibility reports a parameter or field led by public/private/protected.
func startsWithVisibility(n *syntax.Node) bool {
	if n.Kind == syntax.KindAccessibilityModifier {
		return true
	}
	if !n.Is(syntax.KindRequiredParameter, syntax.KindOptionalParameter, syntax.KindPublicFieldDefinition) {
		return false
	}
	for _, c := range n.Children {
		if c.Kind == syntax.KindComment {
			continue
		}
		return c.Kind == syntax.KindAccessibilityModifier
	}
	return false
}

// annotatesCallable reports whether n gets a synthesized callable block.
func annotatesCallable(f *syntax.File, n *syntax.Node) bool {
	if n.Kind == syntax.KindExportStatement {
		n = n.ChildByField("declaration")
	}
	switch {
	case n.Is(syntax.KindFunctionDeclaration, syntax.KindGeneratorFunctionDeclaration):
		return n.ChildByField("body") != nil
	case n.Is(syntax.KindMethodDefinition):
		return n.ChildByField("body") != nil && !n.HasToken("get") && !n.HasToken("set")
	}
	return false
}

func escapeComment(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "/*", "__"), "*/", "__")
}
