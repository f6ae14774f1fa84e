package annotate

import (
	"strings"

	"github.com/Feiyang1/tsickle/internal/syntax"
)

// interfaceDecl writes a `@record` function in front of the interface and
// declares each member on its prototype. The interface stays verbatim.
func (a *annotator) interfaceDecl(n, outer *syntax.Node) error {
	if a.opts.Untyped {
		a.emitNode(outer)
		return nil
	}
	name := a.file.NameOf(n)
	var sb strings.Builder
	sb.WriteString("\n/** @record */\n")
	if outer != n {
		sb.WriteString("export ")
	}
	sb.WriteString("function " + name + "() {}\n")
	if n.ChildByField("type_parameters") != nil {
		sb.WriteString("// TODO: type parameters.\n")
	}
	if n.FirstChild(syntax.KindExtendsTypeClause) != nil {
		sb.WriteString("// TODO: derived interfaces.\n")
	}

	ns := name + ".prototype"
	for _, m := range n.ChildByField("body").NamedChildren() {
		if !m.Is(syntax.KindPropertySignature, syntax.KindMethodSignature) {
			sb.WriteString("/* TODO: handle strange member:\n" + escapeComment(a.text(m)) + "\n*/\n")
			continue
		}
		decl, err := a.propertyDecl("", ns, m)
		if err != nil {
			return err
		}
		sb.WriteString(decl)
	}
	a.w.WriteString(sb.String())
	a.emitDeclaration(n, outer)
	return nil
}
